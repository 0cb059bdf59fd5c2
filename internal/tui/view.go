package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"choromap/internal/colormap"
	"choromap/internal/present"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	lo := m.layout()

	// Header
	title := " choromap ─ " + orDefault(m.metricName(), "neighborhoods") + " "
	header := titleStyle.Render(title) + dimStyle.Render(" ["+m.renderer.Backend().Name()+"]")
	header = lipgloss.NewStyle().Width(lo.contentW).Render(header)

	// Sidebar
	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(lo.sidebarW).Height(lo.contentH).Render(m.l.View())
	}

	var mapView string
	if m.showAttrs {
		// Render the data table centered in the map area
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(lo.mapW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(lo.mapH-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(lo.mapW, lo.mapH, lipgloss.Center, lipgloss.Center, attrsBox)
	} else {
		var canvas string
		if m.frame != nil {
			canvas = m.frame.String()
		}
		mapView = lipgloss.NewStyle().Width(lo.mapW).Height(lo.mapH).MaxHeight(lo.mapH).Render(canvas)
	}

	// Click detail replaces the legend column while open
	side := m.renderLegend(lo.contentH)
	if m.popup != "" {
		side = boxStyle.Width(legendWidth - 2).Render(m.popup + "\n\n" + dimStyle.Render("esc close"))
	}
	side = lipgloss.NewStyle().Width(legendWidth).Height(lo.contentH).Render(side)

	// Body row
	cols := []string{}
	if m.showSidebar {
		cols = append(cols, sidebar, " ")
	}
	cols = append(cols, mapView, " ", side)
	body := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	// Footer / help
	help := m.renderHelp()
	status := dimStyle.Render(" " + m.status + " ")
	coords := ""
	if m.hoverHasGeo {
		coords = dimStyle.Render(fmt.Sprintf("  lon=%.5f lat=%.5f  ", m.hoverLon, m.hoverLat))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, help)
	spacerW := max(0, lo.contentW-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.NewStyle().Width(lo.contentW).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(lo.contentW).Height(m.height).MaxHeight(m.height).Render(ui)
}

// renderLegend lists one swatch per scale bucket, then the no-data swatch.
func (m Model) renderLegend(height int) string {
	lines := []string{titleStyle.Render("Legend")}
	for _, e := range m.legend.Entries() {
		lines = append(lines, swatch(e.Color)+" "+e.Label)
	}
	lines = append(lines, swatch(colormap.FallbackColor)+" "+present.NotAvailable)

	st := m.machine.State()
	if st.Visible {
		lines = append(lines, "", dimStyle.Render(st.Text))
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"Tab list",
		"[ ] metric",
		"b backend",
		"m towns",
		"a data",
		"esc close",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
