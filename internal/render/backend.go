package render

import (
	"context"

	"github.com/paulmach/orb"

	"choromap/internal/scale"
)

// Backend names, as accepted by the map.backend setting.
const (
	BackendVector = "vector"
	BackendTiles  = "tiles"
)

// Basemap is a per-cell background drawn under the regions. The zero value
// and nil are blank.
type Basemap struct {
	Width, Height int
	cells         []scale.Color
}

// NewBasemap allocates a blank w x h basemap.
func NewBasemap(w, h int) *Basemap {
	return &Basemap{Width: w, Height: h, cells: make([]scale.Color, w*h)}
}

// At returns the background of cell (x, y), or "" when there is none.
func (b *Basemap) At(x, y int) scale.Color {
	if b == nil || x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return ""
	}
	return b.cells[y*b.Width+x]
}

// Set colors cell (x, y).
func (b *Basemap) Set(x, y int, c scale.Color) {
	if b == nil || x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	b.cells[y*b.Width+x] = c
}

// Blank reports whether no cell has a background.
func (b *Basemap) Blank() bool {
	if b == nil {
		return true
	}
	for _, c := range b.cells {
		if c != "" {
			return false
		}
	}
	return true
}

// Backend is one rendering strategy. Both strategies share the projection
// contract so hover hit-testing and tooltip anchoring do not depend on which
// one is active.
type Backend interface {
	Name() string
	// Projector fits bound (lon/lat) into vp.
	Projector(bound orb.Bound, vp Viewport) *Projector
	// Basemap produces the background for vp. It may block on I/O and is
	// called off the UI loop.
	Basemap(ctx context.Context, proj *Projector, vp Viewport) (*Basemap, error)
}

// VectorBackend draws regions straight onto the terminal surface with no
// background.
type VectorBackend struct{}

// Name implements Backend.
func (VectorBackend) Name() string { return BackendVector }

// Projector implements Backend.
func (VectorBackend) Projector(bound orb.Bound, vp Viewport) *Projector {
	return NewMercatorProjector(bound, vp)
}

// Basemap implements Backend; the vector surface has none.
func (VectorBackend) Basemap(context.Context, *Projector, Viewport) (*Basemap, error) {
	return nil, nil
}
