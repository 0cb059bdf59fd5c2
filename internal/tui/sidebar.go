package tui

import (
	"sort"

	list "github.com/charmbracelet/bubbles/list"

	"choromap/internal/present"
	"choromap/internal/topo"
)

type regionItem struct {
	region *topo.Region
	desc   string
}

func (r regionItem) Title() string       { return r.region.Name }
func (r regionItem) Description() string { return r.desc }
func (r regionItem) FilterValue() string { return r.region.Name + " " + r.region.Town }

// neighborhoodItems lists regions by name with the current metric's display
// value as the description.
func (m Model) neighborhoodItems() []list.Item {
	items := make([]list.Item, 0, len(m.set.Regions))
	for _, r := range m.sortedRegions() {
		desc := present.NotAvailable
		if p, ok := m.ds.Lookup(r.Name); ok {
			desc = p.Display
		}
		if r.Town != "" {
			desc = r.Town + " · " + desc
		}
		items = append(items, regionItem{region: r, desc: desc})
	}
	return items
}

func (m Model) sortedRegions() []*topo.Region {
	out := append([]*topo.Region(nil), m.set.Regions...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// selectedRegion is the list's highlighted neighborhood, nil when the list
// is empty or filtered down to nothing.
func (m Model) selectedRegion() *topo.Region {
	if it, ok := m.l.SelectedItem().(regionItem); ok {
		return it.region
	}
	return nil
}
