// Package render draws a neighborhood FeatureSet onto the terminal: cells are
// filled with their neighborhood's color, borders are drawn with braille
// strokes, and every cell remembers which neighborhood it shows so pointer
// events can be resolved to a region.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"choromap/internal/featureid"
	"choromap/internal/scale"
	"choromap/internal/topo"
)

// Stroke colors.
const (
	BorderColor  scale.Color = "#777777"
	MeshColor    scale.Color = "#e6e6e6"
	OutlineColor scale.Color = "#e6e6e6"
	ActiveColor  scale.Color = "#ffa500"
)

// fillOpacity is how much of a region's color covers a tile basemap.
const fillOpacity = 0.7

// Scene is what a frame shows.
type Scene struct {
	Set    *topo.FeatureSet
	Fill   func(*topo.Region) scale.Color
	Active featureid.ID
	// ShowMesh draws the town boundaries and the outline over region borders.
	ShowMesh bool
}

// Renderer draws scenes through one Backend.
type Renderer struct {
	backend Backend
}

// New returns a renderer for backend, VectorBackend when nil.
func New(backend Backend) *Renderer {
	if backend == nil {
		backend = VectorBackend{}
	}
	return &Renderer{backend: backend}
}

// Backend returns the active backend.
func (r *Renderer) Backend() Backend { return r.backend }

// Projector fits set into vp with the backend's projection.
func (r *Renderer) Projector(set *topo.FeatureSet, vp Viewport) *Projector {
	return r.backend.Projector(set.Bound, vp)
}

// Draw renders scene into a vp-sized frame over basemap, which may be nil.
func (r *Renderer) Draw(scene Scene, vp Viewport, basemap *Basemap) *Frame {
	f := newFrame(vp.Width, vp.Height)
	if !vp.Valid() || scene.Set == nil {
		return f
	}
	proj := r.Projector(scene.Set, vp)
	f.proj = proj

	// Cell ownership: the region containing the cell center.
	for y := 0; y < f.h; y++ {
		for x := 0; x < f.w; x++ {
			f.cells[y][x].bg = basemap.At(x, y)
			reg := regionAt(scene.Set, proj.CellCenter(x, y))
			if reg == nil {
				continue
			}
			f.cells[y][x].owner = reg
			fill := scale.Color("")
			if scene.Fill != nil {
				fill = scene.Fill(reg)
			}
			if fill == "" {
				continue
			}
			if bg := f.cells[y][x].bg; bg != "" {
				fill = scale.Blend(bg, fill, fillOpacity)
			}
			f.cells[y][x].bg = fill
		}
	}

	cv := newCanvas(f.w, f.h)
	var active *topo.Region
	for _, reg := range scene.Set.Regions {
		if reg.ID == scene.Active {
			active = reg
			continue
		}
		strokePolygons(cv, proj, reg.Geometry, layerBorder)
	}
	if scene.ShowMesh {
		strokeLines(cv, proj, scene.Set.InnerBoundary, layerMesh)
		strokePolygons(cv, proj, scene.Set.OuterBoundary, layerOutline)
	}
	if active != nil {
		strokePolygons(cv, proj, active.Geometry, layerActive)
	}

	for y := 0; y < f.h; y++ {
		for x := 0; x < f.w; x++ {
			c := &f.cells[y][x]
			c.glyph = cv.glyph(x, y)
			c.fg = layerColor(cv.layer[y][x])
		}
	}
	f.index()
	return f
}

func regionAt(set *topo.FeatureSet, pt orb.Point) *topo.Region {
	if !set.Bound.Contains(pt) {
		return nil
	}
	for _, reg := range set.Regions {
		if reg.Bound.Contains(pt) && planar.MultiPolygonContains(reg.Geometry, pt) {
			return reg
		}
	}
	return nil
}

func strokePolygons(cv *canvas, proj *Projector, mp orb.MultiPolygon, l layer) {
	for _, poly := range mp {
		for _, ring := range poly {
			strokePath(cv, proj, orb.LineString(ring), true, l)
		}
	}
}

func strokeLines(cv *canvas, proj *Projector, mls orb.MultiLineString, l layer) {
	for _, ls := range mls {
		strokePath(cv, proj, ls, false, l)
	}
}

func strokePath(cv *canvas, proj *Projector, ls orb.LineString, closed bool, l layer) {
	if len(ls) == 0 {
		return
	}
	px, py := proj.Micro(ls[0])
	first := [2]int{px, py}
	for _, p := range ls[1:] {
		x, y := proj.Micro(p)
		cv.line(px, py, x, y, l)
		px, py = x, y
	}
	if closed && (px != first[0] || py != first[1]) {
		cv.line(px, py, first[0], first[1], l)
	}
	if len(ls) == 1 {
		cv.setPixel(px, py, l)
	}
}

func layerColor(l layer) scale.Color {
	switch l {
	case layerBorder:
		return BorderColor
	case layerMesh:
		return MeshColor
	case layerOutline:
		return OutlineColor
	case layerActive:
		return ActiveColor
	}
	return ""
}

type cell struct {
	glyph rune
	fg    scale.Color
	bg    scale.Color
	owner *topo.Region
}

// Frame is one rendered map. It keeps per-cell ownership for hit testing.
type Frame struct {
	w, h    int
	cells   [][]cell
	proj    *Projector
	anchors map[featureid.ID][2]int
}

func newFrame(w, h int) *Frame {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	cells := make([][]cell, h)
	for i := range cells {
		cells[i] = make([]cell, w)
		for j := range cells[i] {
			cells[i][j].glyph = ' '
		}
	}
	return &Frame{w: w, h: h, cells: cells, anchors: map[featureid.ID][2]int{}}
}

// index computes a tooltip anchor per region: the top row it owns, at the
// middle of its columns on that row.
func (f *Frame) index() {
	for y := 0; y < f.h; y++ {
		for x := 0; x < f.w; x++ {
			reg := f.cells[y][x].owner
			if reg == nil {
				continue
			}
			if _, ok := f.anchors[reg.ID]; ok {
				continue
			}
			end := x
			for end+1 < f.w && f.cells[y][end+1].owner == reg {
				end++
			}
			f.anchors[reg.ID] = [2]int{(x + end) / 2, y}
		}
	}
}

// Size returns the frame dimensions in cells.
func (f *Frame) Size() (int, int) { return f.w, f.h }

// Projector returns the projection the frame was drawn with, nil for an
// empty frame.
func (f *Frame) Projector() *Projector { return f.proj }

// Hit returns the region drawn at cell (x, y), or nil.
func (f *Frame) Hit(x, y int) *topo.Region {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return nil
	}
	return f.cells[y][x].owner
}

// Anchor returns the cell a tooltip for id points at.
func (f *Frame) Anchor(id featureid.ID) (x, y int, ok bool) {
	a, ok := f.anchors[id]
	return a[0], a[1], ok
}

// Fill returns the background color of cell (x, y).
func (f *Frame) Fill(x, y int) scale.Color {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return ""
	}
	return f.cells[y][x].bg
}

// Stroke returns the glyph and stroke color of cell (x, y).
func (f *Frame) Stroke(x, y int) (rune, scale.Color) {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return ' ', ""
	}
	c := f.cells[y][x]
	return c.glyph, c.fg
}

// Overlay writes text into row y starting at column x, clipped to the frame.
// Cell ownership is left untouched so hit testing sees through it.
func (f *Frame) Overlay(x, y int, text string, fg, bg scale.Color) {
	if y < 0 || y >= f.h {
		return
	}
	for _, r := range text {
		if x >= f.w {
			return
		}
		if x >= 0 {
			c := &f.cells[y][x]
			c.glyph, c.fg, c.bg = r, fg, bg
		}
		x++
	}
}

// Plain returns the glyphs without colors.
func (f *Frame) Plain() []string {
	out := make([]string, f.h)
	for y, row := range f.cells {
		rs := make([]rune, len(row))
		for x, c := range row {
			rs[x] = c.glyph
		}
		out[y] = string(rs)
	}
	return out
}

// Lines renders the frame with colors, one string per row. Runs of cells
// with the same colors share one style.
func (f *Frame) Lines() []string {
	out := make([]string, f.h)
	for y, row := range f.cells {
		var b strings.Builder
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].fg == row[start].fg && row[x].bg == row[start].bg {
				continue
			}
			var run strings.Builder
			for _, c := range row[start:x] {
				run.WriteRune(c.glyph)
			}
			b.WriteString(cellStyle(row[start].fg, row[start].bg).Render(run.String()))
			start = x
		}
		out[y] = b.String()
	}
	return out
}

// String is Lines joined by newlines.
func (f *Frame) String() string { return strings.Join(f.Lines(), "\n") }

func cellStyle(fg, bg scale.Color) lipgloss.Style {
	s := lipgloss.NewStyle()
	if fg != "" {
		s = s.Foreground(lipgloss.Color(fg))
	}
	if bg != "" {
		s = s.Background(lipgloss.Color(bg))
	}
	return s
}
