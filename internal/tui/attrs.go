package tui

import (
	"strconv"

	table "github.com/charmbracelet/bubbles/table"

	"choromap/internal/present"
)

// refreshAttrs rebuilds the data table for the current metric: one row per
// neighborhood, N/A where the dataset has no point.
func (m *Model) refreshAttrs() {
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Neighborhood", Width: 12},
		{Title: "Town", Width: 6},
		{Title: "Value", Width: 8},
		{Title: "Display", Width: 8},
	}
	maxColW := 24
	var rows []table.Row
	for i, r := range m.sortedRegions() {
		value, display := present.NotAvailable, present.NotAvailable
		if p, ok := m.ds.Lookup(r.Name); ok {
			value = strconv.FormatFloat(p.Value, 'g', 6, 64)
			display = p.Display
		}
		row := table.Row{strconv.Itoa(i + 1), r.Name, r.Town, value, display}
		for c, cell := range row {
			if w := len(cell) + 2; w > cols[c].Width {
				cols[c].Width = min(w, maxColW)
			}
		}
		rows = append(rows, row)
	}
	if name := m.metricName(); name != "" {
		cols[3].Title = name
		cols[3].Width = min(max(cols[3].Width, len(name)+2), maxColW)
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
}
