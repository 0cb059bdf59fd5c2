package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"choromap/internal/hover"
	"choromap/internal/present"
	"choromap/internal/render"
	"choromap/internal/topo"
)

const (
	sidebarWidth = 28
	legendWidth  = 24
	headerHeight = 1
	footerHeight = 2

	basemapTimeout = 20 * time.Second
)

// layout is the screen split shared by Update (mouse mapping) and View.
type layout struct {
	contentW, contentH int
	sidebarW           int
	mapX, mapY         int
	mapW, mapH         int
}

func (m Model) layout() layout {
	var lo layout
	lo.contentW = max(10, m.width)
	lo.contentH = max(4, m.height-headerHeight-footerHeight)
	if m.showSidebar {
		lo.sidebarW = sidebarWidth
		lo.mapX = sidebarWidth + 1
	}
	lo.mapY = headerHeight
	lo.mapW = max(10, lo.contentW-lo.mapX-legendWidth-1)
	lo.mapH = lo.contentH
	return lo
}

func (m Model) viewport() render.Viewport {
	lo := m.layout()
	return render.Viewport{Width: lo.mapW, Height: lo.mapH, Zoom: m.zoom, OffsetX: m.offsetX, OffsetY: m.offsetY}
}

// toMap converts a screen position to a map cell.
func (m Model) toMap(x, y int) (int, int, bool) {
	lo := m.layout()
	cx, cy := x-lo.mapX, y-lo.mapY
	if cx < 0 || cy < 0 || cx >= lo.mapW || cy >= lo.mapH {
		return 0, 0, false
	}
	return cx, cy, true
}

// redraw renders the map for the current state and, when the backend has a
// basemap that does not match the viewport yet, returns the command that
// fetches it.
func (m *Model) redraw() tea.Cmd {
	if m.width == 0 || m.height == 0 {
		return nil
	}
	vp := m.viewport()

	var cmd tea.Cmd
	key := m.renderer.Backend().Name() + fmt.Sprintf("|%dx%d|%.4f|%d,%d", vp.Width, vp.Height, vp.Zoom, vp.OffsetX, vp.OffsetY)
	if key != m.basemapKey {
		// a basemap for another viewport would be misaligned
		m.basemap = nil
		m.basemapKey = key
		cmd = fetchBasemap(m.renderer, m.set, vp, key)
	}

	st := m.machine.State()
	m.frame = m.renderer.Draw(render.Scene{
		Set:      m.set,
		Fill:     m.fill,
		Active:   st.Active(),
		ShowMesh: m.showMesh,
	}, vp, m.basemap)
	m.placeTooltip(st)
	return cmd
}

// placeTooltip writes the tooltip one row above the active region's anchor,
// or below it when the anchor is on the top row.
func (m *Model) placeTooltip(st hover.State) {
	if !st.Visible || m.frame == nil {
		return
	}
	x, y, ok := m.frame.Anchor(st.ActiveID)
	if !ok {
		return
	}
	label := " " + st.Text + " "
	w, _ := m.frame.Size()
	tx := x - len([]rune(label))/2
	tx = max(0, min(tx, w-len([]rune(label))))
	ty := y - 1
	if ty < 0 {
		ty = y + 1
	}
	m.frame.Overlay(tx, ty, label, tooltipFg, tooltipBg)
}

type basemapMsg struct {
	key     string
	basemap *render.Basemap
	err     error
}

func fetchBasemap(r *render.Renderer, set *topo.FeatureSet, vp render.Viewport, key string) tea.Cmd {
	backend := r.Backend()
	proj := r.Projector(set, vp)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), basemapTimeout)
		defer cancel()
		bm, err := backend.Basemap(ctx, proj, vp)
		return basemapMsg{key: key, basemap: bm, err: err}
	}
}

// detail is the click popup for r.
func (m Model) detail(r *topo.Region) string {
	value := present.NotAvailable
	if p, ok := m.ds.Lookup(r.Name); ok {
		value = fmt.Sprintf("%s (%g)", p.Display, p.Value)
	}
	lines := []string{
		titleStyle.Render(r.Name),
		fmt.Sprintf("town:   %s", r.Town),
		fmt.Sprintf("%s: %s", orDefault(m.metricName(), "value"), value),
		fmt.Sprintf("color:  %s", m.fill(r)),
		fmt.Sprintf("id:     %s", r.ID),
	}
	return strings.Join(lines, "\n")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func logBasemapError(backend string, err error) {
	zap.L().Warn("basemap unavailable, drawing without it",
		zap.String("backend", backend),
		zap.Error(err),
	)
}
