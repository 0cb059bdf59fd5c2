package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DefaultMetric names the single indicator of a file without an indicator column.
const DefaultMetric = "value"

// Collection is every indicator found in one file.
type Collection struct {
	// Metrics lists indicator names in first-appearance order.
	Metrics  []string
	ByMetric map[string]Dataset
}

// Metric returns the dataset of one indicator.
func (c *Collection) Metric(name string) (Dataset, bool) {
	ds, ok := c.ByMetric[name]
	return ds, ok
}

// Index returns the position of name in Metrics, or -1.
func (c *Collection) Index(name string) int {
	for i, m := range c.Metrics {
		if m == name {
			return i
		}
	}
	return -1
}

type record struct {
	Neighborhood string `csv:"neighborhood"`
	Indicator    string `csv:"indicator,omitempty"`
	Value        string `csv:"value"`
	Display      string `csv:"display_value,omitempty"`
}

// header aliases, matched case-insensitively
var columnAliases = map[string]string{
	"neighborhood":  "neighborhood",
	"name":          "neighborhood",
	"location":      "neighborhood",
	"indicator":     "indicator",
	"metric":        "indicator",
	"variable":      "indicator",
	"value":         "value",
	"display_value": "display_value",
	"displayval":    "display_value",
	"display":       "display_value",
}

// LoadCSV reads a long-format indicator table with columns
// neighborhood, indicator, value and display_value. The indicator and
// display columns are optional. Rows whose value is blank or "NA" are
// skipped: the neighborhood is simply absent from that indicator.
func LoadCSV(path string) (*Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV is LoadCSV over an arbitrary reader.
func ReadCSV(r io.Reader) (*Collection, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	raw, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, eris.New("dataset: empty csv")
		}
		return nil, eris.Wrap(err, "dataset: read header")
	}

	header := make([]string, len(raw))
	var hasName, hasValue bool
	for i, h := range raw {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if alias, ok := columnAliases[key]; ok {
			key = alias
		}
		header[i] = key
		hasName = hasName || key == "neighborhood"
		hasValue = hasValue || key == "value"
	}
	if !hasName || !hasValue {
		return nil, eris.New("dataset: csv needs neighborhood and value columns")
	}

	dec, err := csvutil.NewDecoder(cr, header...)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: csv decoder")
	}

	c := &Collection{ByMetric: make(map[string]Dataset)}
	var skipped int
	for line := 2; ; line++ {
		var rec record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, eris.Wrapf(err, "dataset: line %d", line)
		}
		name := strings.TrimSpace(rec.Neighborhood)
		v := strings.TrimSpace(rec.Value)
		if name == "" || v == "" || strings.EqualFold(v, "NA") {
			skipped++
			continue
		}
		value, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: line %d: value %q", line, v)
		}
		metric := strings.TrimSpace(rec.Indicator)
		if metric == "" {
			metric = DefaultMetric
		}
		ds, ok := c.ByMetric[metric]
		if !ok {
			ds = make(Dataset)
			c.ByMetric[metric] = ds
			c.Metrics = append(c.Metrics, metric)
		}
		display := strings.TrimSpace(rec.Display)
		if display == "" {
			display = strconv.FormatFloat(value, 'f', -1, 64)
		}
		ds[name] = Point{Value: value, Display: display}
	}
	if len(c.Metrics) == 0 {
		return nil, eris.New("dataset: no values parsed")
	}

	zap.L().Debug("dataset: csv loaded",
		zap.Strings("metrics", c.Metrics),
		zap.Int("skipped_rows", skipped))
	return c, nil
}
