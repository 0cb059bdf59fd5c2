// Package present formats what the map shows around the shapes: the hover
// tooltip and the threshold legend.
package present

import (
	"math"

	"choromap/internal/colormap"
	"choromap/internal/dataset"
	"choromap/internal/scale"
)

// NotAvailable is shown for neighborhoods without a data point.
const NotAvailable = "N/A"

// TooltipText is "<name>: <display>" or "<name>: N/A".
func TooltipText(name string, ds dataset.Dataset) string {
	if p, ok := ds.Lookup(name); ok {
		return name + ": " + p.Display
	}
	return name + ": " + NotAvailable
}

// LegendEntry is one bucket of the threshold legend. Lower and Upper are NaN
// when the bucket is unbounded on that side.
type LegendEntry struct {
	Color scale.Color
	Lower float64
	Upper float64
	Label string
}

// Label words around the formatted bounds.
const (
	labelLower     = "Less than "
	labelDelimiter = " to "
	labelUpper     = "More than "
)

// LegendEntries returns one entry per scale color in ascending threshold
// order. Bound text comes from colormap.LegendLabel; a bound that formats to
// "" is treated as absent.
func LegendEntries(s scale.Scale) []LegendEntry {
	colors := s.Colors()
	entries := make([]LegendEntry, 0, len(colors))
	for i, c := range colors {
		lo, hi := scale.Extent(s, i)
		entries = append(entries, LegendEntry{
			Color: c,
			Lower: lo,
			Upper: hi,
			Label: bucketLabel(lo, hi),
		})
	}
	return entries
}

func bucketLabel(lo, hi float64) string {
	l, h := boundLabel(lo), boundLabel(hi)
	switch {
	case l != "" && h != "":
		return l + labelDelimiter + h
	case h != "":
		return labelLower + h
	case l != "":
		return labelUpper + l
	default:
		return ""
	}
}

func boundLabel(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return colormap.LegendLabel(v)
}

// Legend holds the entries of the current scale.
type Legend struct {
	scale   scale.Scale
	entries []LegendEntry
}

// SetScale installs s and rebuilds the entries. Scales need not be
// comparable, so the entries are always recomputed.
func (l *Legend) SetScale(s scale.Scale) {
	l.scale = s
	l.entries = LegendEntries(s)
}

// Entries returns a copy of the current entries.
func (l *Legend) Entries() []LegendEntry {
	return append([]LegendEntry(nil), l.entries...)
}
