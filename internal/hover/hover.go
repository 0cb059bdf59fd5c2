// Package hover tracks which neighborhood is active under the pointer and
// what the tooltip says about it.
//
// Events are dispatched one at a time from the UI event loop; the Machine
// does no locking.
package hover

import (
	"choromap/internal/featureid"
	"choromap/internal/topo"
)

// Phase is the coarse state of the machine.
type Phase int

const (
	Idle Phase = iota
	Hovering
)

func (p Phase) String() string {
	if p == Hovering {
		return "hovering"
	}
	return "idle"
}

// State is the tooltip-facing hover state. After a Leave the last ActiveID
// and Text are kept so a fading tooltip does not change content; only
// Visible flips.
type State struct {
	ActiveID featureid.ID
	Visible  bool
	Text     string
}

// Phase reports Hovering while the tooltip is visible.
func (s State) Phase() Phase {
	if s.Visible {
		return Hovering
	}
	return Idle
}

// Active returns the hovered id, or "" when Idle.
func (s State) Active() featureid.ID {
	if !s.Visible {
		return ""
	}
	return s.ActiveID
}

// Event is an interaction delivered by the renderer.
type Event interface{ event() }

// Enter is sent when the pointer (or keyboard focus) moves onto a region.
type Enter struct{ Region *topo.Region }

// Leave is sent when the pointer leaves the active region.
type Leave struct{}

// Click is sent for a primary click on a region.
type Click struct{ Region *topo.Region }

func (Enter) event() {}
func (Leave) event() {}
func (Click) event() {}

// TextFunc produces the tooltip for a neighborhood name.
type TextFunc func(name string) string

// Next is the pure transition function. Enter replaces the whole state in one
// step, so no two regions are ever active together. Click never changes the
// state.
func Next(s State, e Event, text TextFunc) State {
	switch e := e.(type) {
	case Enter:
		if e.Region == nil {
			return s
		}
		return State{
			ActiveID: featureid.For(e.Region.Name),
			Visible:  true,
			Text:     text(e.Region.Name),
		}
	case Leave:
		s.Visible = false
		return s
	}
	return s
}

// ClickHandler receives clicked regions.
type ClickHandler func(*topo.Region)

// Machine owns the hover state and applies events to it.
type Machine struct {
	state   State
	text    TextFunc
	onClick ClickHandler
	names   map[featureid.ID]string
}

// NewMachine starts Idle. onClick may be nil.
func NewMachine(text TextFunc, onClick ClickHandler) *Machine {
	return &Machine{text: text, onClick: onClick, names: make(map[featureid.ID]string)}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Dispatch applies e. A Click calls the handler exactly once, synchronously,
// before returning.
func (m *Machine) Dispatch(e Event) State {
	switch e := e.(type) {
	case Click:
		if e.Region != nil && m.onClick != nil {
			m.onClick(e.Region)
		}
		return m.state
	case Enter:
		if e.Region != nil {
			m.names[featureid.For(e.Region.Name)] = e.Region.Name
		}
	}
	m.state = Next(m.state, e, m.text)
	return m.state
}

// Retext swaps the tooltip source, e.g. after the dataset is replaced, and
// recomputes the text of the retained feature so no stale value survives.
func (m *Machine) Retext(text TextFunc) {
	m.text = text
	if m.state.ActiveID == "" {
		return
	}
	if name, ok := m.names[m.state.ActiveID]; ok {
		m.state.Text = text(name)
	}
}
