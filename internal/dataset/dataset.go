// Package dataset holds per-neighborhood indicator values and the CSV loader
// that produces them.
package dataset

// Point is the value of one indicator for one neighborhood. Display is the
// preformatted text shown in tooltips.
type Point struct {
	Value   float64
	Display string
}

// Dataset maps neighborhood name to its value. A missing name is a valid
// state and renders as N/A.
type Dataset map[string]Point

// Lookup returns the point for name.
func (d Dataset) Lookup(name string) (Point, bool) {
	p, ok := d[name]
	return p, ok
}
