package render

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

var hartford = orb.Bound{Min: orb.Point{-72.75, 41.72}, Max: orb.Point{-72.65, 41.81}}

func TestProjectorRoundTrip(t *testing.T) {
	p := NewMercatorProjector(hartford, Viewport{Width: 80, Height: 24, Zoom: 1})
	for _, pt := range []orb.Point{hartford.Min, hartford.Max, hartford.Center(), {-72.7192, 41.758}} {
		x, y := p.Project(pt)
		back := p.Unproject(x, y)
		assert.InDelta(t, pt[0], back[0], 1e-9)
		assert.InDelta(t, pt[1], back[1], 1e-9)
	}
}

func TestProjectorFitsInsideGrid(t *testing.T) {
	vp := Viewport{Width: 80, Height: 24, Zoom: 1}
	p := NewMercatorProjector(hartford, vp)

	for _, pt := range []orb.Point{hartford.Min, hartford.Max} {
		x, y := p.Project(pt)
		assert.GreaterOrEqual(t, x, 0.0)
		assert.LessOrEqual(t, x, float64(vp.Width*2))
		assert.GreaterOrEqual(t, y, 0.0)
		assert.LessOrEqual(t, y, float64(vp.Height*4))
	}

	// north is up
	_, yMin := p.Project(hartford.Min)
	_, yMax := p.Project(hartford.Max)
	assert.Less(t, yMax, yMin)

	cx, cy := p.Project(orb.Point{hartford.Center()[0], hartford.Center()[1]})
	assert.InDelta(t, float64(vp.Width), cx, 0.5)
	assert.InDelta(t, float64(vp.Height*2), cy, 0.5)
}

func TestProjectorZoomAndPan(t *testing.T) {
	base := Viewport{Width: 40, Height: 10, Zoom: 1}
	p1 := NewMercatorProjector(hartford, base)

	zoomed := base
	zoomed.Zoom = 2
	p2 := NewMercatorProjector(hartford, zoomed)

	x1, _ := p1.Project(hartford.Max)
	x2, _ := p2.Project(hartford.Max)
	assert.InDelta(t, 2*(x1-40), x2-40, 1e-6)

	panned := base
	panned.OffsetX, panned.OffsetY = 3, -1
	p3 := NewMercatorProjector(hartford, panned)
	x3, y3 := p3.Project(hartford.Max)
	_, y1 := p1.Project(hartford.Max)
	assert.InDelta(t, x1+6, x3, 1e-9)
	assert.InDelta(t, y1-4, y3, 1e-9)
}

func TestViewportZoomClamp(t *testing.T) {
	assert.Equal(t, 1.0, Viewport{}.zoom())
	assert.Equal(t, MinZoom, Viewport{Zoom: 0.001}.zoom())
	assert.Equal(t, MaxZoom, Viewport{Zoom: 1000}.zoom())
	assert.Equal(t, 2.5, Viewport{Zoom: 2.5}.zoom())
}

func TestProjectorDegenerateBound(t *testing.T) {
	pt := orb.Point{-72.7, 41.7}
	p := NewMercatorProjector(orb.Bound{Min: pt, Max: pt}, Viewport{Width: 10, Height: 4})
	x, y := p.Project(pt)
	assert.InDelta(t, 10.0, x, 1e-9)
	assert.InDelta(t, 8.0, y, 1e-9)
}

func TestCellCenterInsideCellBound(t *testing.T) {
	p := NewMercatorProjector(hartford, Viewport{Width: 20, Height: 6, Zoom: 1})
	c := p.CellCenter(7, 3)
	assert.True(t, p.CellBound(7, 3).Contains(c))
	assert.False(t, p.CellBound(8, 3).Contains(c))
}
