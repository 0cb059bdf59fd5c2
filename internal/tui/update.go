package tui

import (
	"fmt"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"choromap/internal/hover"
	"choromap/internal/render"
	"choromap/internal/topo"
)

const zoomStep = 1.2

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeSidebar()
		return m, m.redraw()
	case basemapMsg:
		if msg.key != m.basemapKey {
			// stale: the viewport or backend moved on
			return m, nil
		}
		if msg.err != nil {
			logBasemapError(m.renderer.Backend().Name(), msg.err)
			m.status = "basemap unavailable"
			m.basemap = nil
		} else {
			m.basemap = msg.basemap
		}
		return m, m.redraw()
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tea.MouseMsg:
		return m.updateMouse(msg)
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// If list is visible and filtering, send keys to list and ignore global commands
	if m.showSidebar && m.l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, tea.Batch(cmd, m.focusSelected())
	}
	if m.showAttrs {
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "a", "esc":
			m.showAttrs = false
			return m, m.redraw()
		}
		var cmd tea.Cmd
		m.tbl, cmd = m.tbl.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "+", "=":
		if m.zoom < render.MaxZoom {
			m.zoom = min(m.zoom*zoomStep, render.MaxZoom)
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case "-", "_":
		if m.zoom > render.MinZoom {
			m.zoom = max(m.zoom/zoomStep, render.MinZoom)
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case "0":
		m.zoom, m.offsetX, m.offsetY = 1, 0, 0
		m.status = "view reset"
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.l.SetItems(m.neighborhoodItems())
			m.resizeSidebar()
		}
	case "[":
		m.switchMetric(-1)
	case "]":
		m.switchMetric(1)
	case "b":
		m.switchBackend()
	case "m":
		m.showMesh = !m.showMesh
		m.status = fmt.Sprintf("town boundaries: %v", m.showMesh)
	case "h":
		m.helpVisible = !m.helpVisible
	case "a":
		m.showAttrs = true
		m.refreshAttrs()
		return m, nil
	case "esc":
		m.popup = ""
	case "enter":
		if m.showSidebar {
			if r := m.selectedRegion(); r != nil {
				m.dispatch(hover.Enter{Region: r})
				m.dispatch(hover.Click{Region: r})
			}
		}
	case "up", "down", "pgup", "pgdown", "home", "end", "/":
		if m.showSidebar {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, tea.Batch(cmd, m.focusSelected())
		}
		switch msg.String() {
		case "up":
			m.offsetY -= 1
		case "down":
			m.offsetY += 1
		}
	case "left":
		m.offsetX -= 2
	case "right":
		m.offsetX += 2
	}
	return m, m.redraw()
}

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showAttrs {
		return m, nil
	}
	cx, cy, inMap := m.toMap(msg.X, msg.Y)

	if inMap && msg.Action == tea.MouseActionPress {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.zoom = min(m.zoom*zoomStep, render.MaxZoom)
			return m, m.redraw()
		case tea.MouseButtonWheelDown:
			m.zoom = max(m.zoom/zoomStep, render.MinZoom)
			return m, m.redraw()
		}
	}

	var hit *topo.Region
	m.hoverHasGeo = false
	if inMap && m.frame != nil {
		hit = m.frame.Hit(cx, cy)
		if p := m.frame.Projector(); p != nil {
			ll := p.CellCenter(cx, cy)
			m.hoverHasGeo, m.hoverLon, m.hoverLat = true, ll[0], ll[1]
		}
	}

	before := m.machine.State()
	switch {
	case hit != nil && before.Active() != hit.ID:
		m.dispatch(hover.Enter{Region: hit})
	case hit == nil && before.Visible:
		m.dispatch(hover.Leave{})
	}
	if hit != nil && msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		m.dispatch(hover.Click{Region: hit})
	}

	if m.machine.State() != before {
		return m, m.redraw()
	}
	return m, nil
}

// dispatch feeds the hover machine and picks up a click the handler saw.
func (m *Model) dispatch(e hover.Event) {
	m.machine.Dispatch(e)
	if r := m.clicks.region; r != nil {
		m.clicks.region = nil
		m.popup = m.detail(r)
		m.status = "selected: " + r.Name
		zap.L().Debug("neighborhood clicked", zap.String("id", r.ID.String()), zap.String("name", r.Name))
	}
}

// focusSelected moves hover to the list's highlighted neighborhood, the
// keyboard equivalent of pointing at it.
func (m *Model) focusSelected() tea.Cmd {
	r := m.selectedRegion()
	if r == nil || m.machine.State().Active() == r.ID {
		return nil
	}
	m.dispatch(hover.Enter{Region: r})
	return m.redraw()
}

func (m *Model) switchMetric(delta int) {
	n := len(m.data.Metrics)
	if n < 2 {
		m.status = "no other metric in dataset"
		return
	}
	m.metric = (m.metric + delta + n) % n
	m.ds = m.currentDataset()
	m.machine.Retext(tooltips(m.ds))
	m.legend.SetScale(m.mapper.Scale())
	m.l.SetItems(m.neighborhoodItems())
	m.refreshAttrs()
	m.popup = ""
	m.status = "metric: " + m.metricName()
	zap.L().Info("metric switched",
		zap.String("metric", m.metricName()),
		zap.Int("neighborhoods", len(m.ds)),
	)
}

func (m *Model) switchBackend() {
	if len(m.backends) < 2 {
		m.status = "only the " + m.renderer.Backend().Name() + " backend is configured"
		return
	}
	m.backendIdx = (m.backendIdx + 1) % len(m.backends)
	m.renderer = render.New(m.backends[m.backendIdx])
	m.basemap = nil
	m.basemapKey = ""
	m.status = "backend: " + m.renderer.Backend().Name()
}

func (m *Model) resizeSidebar() {
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
	}
}
