// Package colormap turns a neighborhood's indicator value into its fill color
// and formats legend thresholds.
package colormap

import (
	"fmt"
	"math"

	"choromap/internal/dataset"
	"choromap/internal/scale"
)

// FallbackColor fills neighborhoods that have no data point.
const FallbackColor scale.Color = "#cccccc"

// minFallbackDistance is the smallest CIEDE2000 distance (go-colorful's 0..1
// Lab units) a scale color may have from FallbackColor.
const minFallbackDistance = 0.03

// ColorFor returns s(ds[name].Value) when name is present and FallbackColor
// otherwise.
func ColorFor(name string, ds dataset.Dataset, s scale.Scale) scale.Color {
	if p, ok := ds.Lookup(name); ok {
		return s.Color(p.Value)
	}
	return FallbackColor
}

// LegendLabel formats a threshold as a whole percentage. A zero or NaN
// threshold yields "" so the legend's zero boundary stays unlabeled.
func LegendLabel(threshold float64) string {
	if threshold == 0 || math.IsNaN(threshold) {
		return ""
	}
	return fmt.Sprintf("%.0f%%", math.Round(threshold*100))
}

// Mapper binds a validated scale. Replace it wholesale when the metric
// changes; it keeps no reference to previous scales or datasets.
type Mapper struct {
	scale scale.Scale
}

// New validates that no color of s can be confused with FallbackColor.
func New(s scale.Scale) (*Mapper, error) {
	for i, c := range s.Colors() {
		if d := scale.Distance(c, FallbackColor); d < minFallbackDistance {
			return nil, &scale.Error{Reason: fmt.Sprintf(
				"color %d (%s) is indistinguishable from the no-data color %s", i, c, FallbackColor)}
		}
	}
	return &Mapper{scale: s}, nil
}

// Scale returns the bound scale.
func (m *Mapper) Scale() scale.Scale { return m.scale }

// ColorFor is ColorFor with the bound scale.
func (m *Mapper) ColorFor(name string, ds dataset.Dataset) scale.Color {
	return ColorFor(name, ds, m.scale)
}
