package topo

import "github.com/paulmach/orb"

type fragment struct {
	refs       []int
	start, end orb.Point
	dead       bool
}

func (f *fragment) closed() bool { return f.start == f.end }

// stitch joins arc references that meet end-to-start into maximal chains.
// Chains whose ends coincide are closed rings. Output order follows the
// first appearance of each chain in refs.
func (t *Topology) stitch(refs []int) [][]int {
	var frags []*fragment
	byStart := make(map[orb.Point]*fragment)
	byEnd := make(map[orb.Point]*fragment)

	open := func(m map[orb.Point]*fragment, p orb.Point, atStart bool) *fragment {
		f, ok := m[p]
		if !ok || f.dead || f.closed() {
			return nil
		}
		if (atStart && f.start != p) || (!atStart && f.end != p) {
			return nil
		}
		return f
	}

	for _, ref := range refs {
		s, e := t.arcEnds(ref)
		if s == e {
			frags = append(frags, &fragment{refs: []int{ref}, start: s, end: e})
			continue
		}
		if f := open(byEnd, s, false); f != nil {
			f.refs = append(f.refs, ref)
			f.end = e
			if g := open(byStart, e, true); g != nil && g != f {
				f.refs = append(f.refs, g.refs...)
				f.end = g.end
				g.dead = true
			}
			byEnd[f.end] = f
			continue
		}
		if f := open(byStart, e, true); f != nil {
			f.refs = append([]int{ref}, f.refs...)
			f.start = s
			if g := open(byEnd, s, false); g != nil && g != f {
				g.refs = append(g.refs, f.refs...)
				g.end = f.end
				f.dead = true
				byEnd[g.end] = g
				continue
			}
			byStart[f.start] = f
			continue
		}
		f := &fragment{refs: []int{ref}, start: s, end: e}
		frags = append(frags, f)
		byStart[s] = f
		byEnd[e] = f
	}

	out := make([][]int, 0, len(frags))
	for _, f := range frags {
		if !f.dead {
			out = append(out, f.refs)
		}
	}
	return out
}
