package render

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Zoom limits shared by every backend.
const (
	MinZoom = 0.05
	MaxZoom = 64.0
)

// Viewport is the map area in terminal cells plus the user's zoom and pan.
// OffsetX and OffsetY are in cells and move the map, not the camera.
type Viewport struct {
	Width   int
	Height  int
	Zoom    float64
	OffsetX int
	OffsetY int
}

// Valid reports whether the viewport can hold a map.
func (v Viewport) Valid() bool { return v.Width > 0 && v.Height > 0 }

func (v Viewport) zoom() float64 {
	switch {
	case v.Zoom <= 0 || math.IsNaN(v.Zoom):
		return 1
	case v.Zoom < MinZoom:
		return MinZoom
	case v.Zoom > MaxZoom:
		return MaxZoom
	}
	return v.Zoom
}

// Projector maps lon/lat onto the braille microgrid of a viewport and back.
// The planar bound is fitted to the grid keeping its aspect ratio (micro
// pixels are close to square), then zoomed about the grid center.
type Projector struct {
	forward orb.Projection
	inverse orb.Projection

	center orb.Point // planar center of the fitted bound
	scale  float64   // micro-pixels per planar unit, zoom included
	cx, cy float64   // micro-pixel center, pan included
}

// NewProjector fits bound (lon/lat) into vp through a planar projection pair.
// A nil pair means identity, i.e. plain equirectangular lon/lat.
func NewProjector(bound orb.Bound, vp Viewport, forward, inverse orb.Projection) *Projector {
	if forward == nil || inverse == nil {
		forward, inverse = identity, identity
	}
	lo, hi := forward(bound.Min), forward(bound.Max)
	planar := orb.Bound{Min: lo, Max: hi}.Extend(lo)

	wMic, hMic := float64(vp.Width*2), float64(vp.Height*4)
	dx, dy := planar.Max[0]-planar.Min[0], planar.Max[1]-planar.Min[1]
	s := math.Inf(1)
	if dx > 0 {
		s = (wMic - 1) / dx
	}
	if dy > 0 {
		s = math.Min(s, (hMic-1)/dy)
	}
	if math.IsInf(s, 1) || s <= 0 {
		s = 1
	}

	return &Projector{
		forward: forward,
		inverse: inverse,
		center:  planar.Center(),
		scale:   s * vp.zoom(),
		cx:      wMic/2 + float64(vp.OffsetX*2),
		cy:      hMic/2 + float64(vp.OffsetY*4),
	}
}

// NewMercatorProjector fits bound using spherical Web Mercator.
func NewMercatorProjector(bound orb.Bound, vp Viewport) *Projector {
	return NewProjector(clampLat(bound), vp, project.WGS84.ToMercator, project.Mercator.ToWGS84)
}

// Project returns continuous micro-pixel coordinates; pixel i spans [i, i+1).
func (p *Projector) Project(pt orb.Point) (float64, float64) {
	q := p.forward(pt)
	return p.cx + (q[0]-p.center[0])*p.scale, p.cy - (q[1]-p.center[1])*p.scale
}

// Micro is Project rounded down to a pixel.
func (p *Projector) Micro(pt orb.Point) (int, int) {
	x, y := p.Project(pt)
	return int(math.Floor(x)), int(math.Floor(y))
}

// Unproject inverts Project.
func (p *Projector) Unproject(mx, my float64) orb.Point {
	q := orb.Point{
		p.center[0] + (mx-p.cx)/p.scale,
		p.center[1] - (my-p.cy)/p.scale,
	}
	return p.inverse(q)
}

// CellCenter returns the lon/lat under the middle of cell (x, y).
func (p *Projector) CellCenter(x, y int) orb.Point {
	return p.Unproject(float64(x*2+1), float64(y*4+2))
}

// CellBound returns the lon/lat rectangle covered by cell (x, y).
func (p *Projector) CellBound(x, y int) orb.Bound {
	a := p.Unproject(float64(x*2), float64(y*4))
	b := p.Unproject(float64(x*2+2), float64(y*4+4))
	return orb.Bound{Min: a, Max: a}.Extend(b)
}

// Visible returns the lon/lat rectangle covered by the whole viewport.
func (p *Projector) Visible(vp Viewport) orb.Bound {
	a := p.Unproject(0, 0)
	b := p.Unproject(float64(vp.Width*2), float64(vp.Height*4))
	return orb.Bound{Min: a, Max: a}.Extend(b)
}

func identity(p orb.Point) orb.Point { return p }

// maxMercatorLat is where Web Mercator tiles stop.
const maxMercatorLat = 85.05112878

func clampLat(b orb.Bound) orb.Bound {
	clamp := func(v float64) float64 { return math.Max(-maxMercatorLat, math.Min(maxMercatorLat, v)) }
	b.Min[1], b.Max[1] = clamp(b.Min[1]), clamp(b.Max[1])
	return b
}
