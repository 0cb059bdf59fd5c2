package topo

import "github.com/paulmach/orb"

// BBox is an axis-aligned lon/lat box.
type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Bound converts the box to an orb.Bound.
func (b BBox) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{b.MinX, b.MinY}, Max: orb.Point{b.MaxX, b.MaxY}}
}

// Valid reports whether the box spans a non-empty area.
func (b BBox) Valid() bool {
	return b.MaxX > b.MinX && b.MaxY > b.MinY
}

// bboxAccumulator grows a BBox one point at a time.
type bboxAccumulator struct {
	bbox BBox
	n    int
}

func (a *bboxAccumulator) add(p orb.Point) {
	if a.n == 0 {
		a.bbox = BBox{MinX: p[0], MinY: p[1], MaxX: p[0], MaxY: p[1]}
	} else {
		if p[0] < a.bbox.MinX {
			a.bbox.MinX = p[0]
		}
		if p[1] < a.bbox.MinY {
			a.bbox.MinY = p[1]
		}
		if p[0] > a.bbox.MaxX {
			a.bbox.MaxX = p[0]
		}
		if p[1] > a.bbox.MaxY {
			a.bbox.MaxY = p[1]
		}
	}
	a.n++
}

// Properties are the attributes attached to a topology geometry.
type Properties map[string]any

// String returns the property as a string, or "" when absent or not a string.
func (p Properties) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Number returns the property as a float64 when it is a JSON number.
func (p Properties) Number(key string) (float64, bool) {
	f, ok := p[key].(float64)
	return f, ok
}
