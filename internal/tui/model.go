package tui

import (
	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rotisserie/eris"

	"choromap/internal/colormap"
	"choromap/internal/dataset"
	"choromap/internal/hover"
	"choromap/internal/present"
	"choromap/internal/render"
	"choromap/internal/scale"
	"choromap/internal/topo"
)

// Options wires the model to its data.
type Options struct {
	Set    *topo.FeatureSet
	Data   *dataset.Collection
	Metric string // initial metric; first in Data when empty
	Scale  scale.Scale

	// Backends are cycled with "b"; the first one is active at start.
	Backends []render.Backend
	Zoom     float64

	// OnClick is called once per click on a neighborhood, after the detail
	// popup is prepared.
	OnClick hover.ClickHandler
}

// clickBox carries the region of the latest click out of the machine's
// handler and back into Update.
type clickBox struct {
	region *topo.Region
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool
	showAttrs   bool
	showMesh    bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	// Geometry and data
	set     *topo.FeatureSet
	data    *dataset.Collection
	metric  int
	ds      dataset.Dataset
	mapper  *colormap.Mapper
	legend  *present.Legend
	machine *hover.Machine
	clicks  *clickBox

	// Rendering
	backends   []render.Backend
	backendIdx int
	renderer   *render.Renderer
	frame      *render.Frame
	basemap    *render.Basemap
	basemapKey string

	// Sidebar: neighborhoods
	l list.Model

	// detail popup
	popup string

	// pointer position for the footer
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64

	// data table
	tbl table.Model
}

// New builds the model. It fails when the scale cannot be told apart from
// the no-data color.
func New(opts Options) (Model, error) {
	if opts.Set == nil {
		return Model{}, eris.New("tui: feature set is required")
	}
	if opts.Scale == nil {
		return Model{}, eris.New("tui: color scale is required")
	}
	mapper, err := colormap.New(opts.Scale)
	if err != nil {
		return Model{}, eris.Wrap(err, "tui: color scale")
	}
	if len(opts.Backends) == 0 {
		opts.Backends = []render.Backend{render.VectorBackend{}}
	}
	if opts.Data == nil {
		opts.Data = &dataset.Collection{ByMetric: map[string]dataset.Dataset{}}
	}
	zoom := opts.Zoom
	if zoom <= 0 {
		zoom = 1
	}

	m := Model{
		helpVisible: true,
		showMesh:    true,
		zoom:        zoom,
		set:         opts.Set,
		data:        opts.Data,
		mapper:      mapper,
		legend:      &present.Legend{},
		clicks:      &clickBox{},
		backends:    opts.Backends,
		renderer:    render.New(opts.Backends[0]),
	}
	m.legend.SetScale(mapper.Scale())

	if i := opts.Data.Index(opts.Metric); i >= 0 {
		m.metric = i
	} else if opts.Metric != "" {
		return Model{}, eris.Errorf("tui: metric %q not in dataset (have %v)", opts.Metric, opts.Data.Metrics)
	}
	m.ds = m.currentDataset()

	clicks, external := m.clicks, opts.OnClick
	m.machine = hover.NewMachine(tooltips(m.ds), func(r *topo.Region) {
		clicks.region = r
		if external != nil {
			external(r)
		}
	})

	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = true
	m.l = list.New(m.neighborhoodItems(), d, 0, 0)
	m.l.Title = "Neighborhoods"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)

	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshAttrs()

	m.status = "choromap ready"
	if name := m.metricName(); name != "" {
		m.status = "metric: " + name
	}
	return m, nil
}

func (m Model) Init() tea.Cmd { return nil }

// tooltips binds the tooltip text to one dataset; the machine is handed a
// new one on every metric switch.
func tooltips(ds dataset.Dataset) hover.TextFunc {
	return func(name string) string { return present.TooltipText(name, ds) }
}

func (m Model) currentDataset() dataset.Dataset {
	if len(m.data.Metrics) == 0 {
		return nil
	}
	ds, _ := m.data.Metric(m.data.Metrics[m.metric])
	return ds
}

func (m Model) metricName() string {
	if len(m.data.Metrics) == 0 {
		return ""
	}
	return m.data.Metrics[m.metric]
}

func (m Model) fill(r *topo.Region) scale.Color {
	return m.mapper.ColorFor(r.Name, m.ds)
}

// HoverState exposes the machine state, mostly for tests.
func (m Model) HoverState() hover.State { return m.machine.State() }

// Run starts the full-screen program with mouse motion tracking.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
