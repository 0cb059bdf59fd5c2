// Package topo decodes TopoJSON planar topologies and derives the geometry
// sets the map draws: one polygon per region, a filtered internal boundary
// mesh and the merged outer outline.
package topo

import (
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/rotisserie/eris"
)

// Transform is the quantization transform of a TopoJSON document.
type Transform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

// Object is a named geometry collection.
type Object struct {
	Type       string      `json:"type"`
	Geometries []*Geometry `json:"geometries"`
}

// Geometry is a single TopoJSON geometry. Only Polygon and MultiPolygon carry
// area; other types are kept but contribute no rings.
type Geometry struct {
	Type       string          `json:"type"`
	ID         any             `json:"id,omitempty"`
	Properties Properties      `json:"properties"`
	RawArcs    json.RawMessage `json:"arcs"`

	// polygons holds arc references normalized to MultiPolygon nesting:
	// polygon -> ring -> arc ref. A negative ref ~i means arc i reversed.
	polygons [][][]int
}

// Topology is a decoded TopoJSON document. It is read-only after Decode.
type Topology struct {
	Type      string             `json:"type"`
	RawBBox   []float64          `json:"bbox,omitempty"`
	Transform *Transform         `json:"transform,omitempty"`
	RawArcs   [][][]float64      `json:"arcs"`
	Objects   map[string]*Object `json:"objects"`

	arcs [][]orb.Point
	bbox BBox
}

// Load reads a TopoJSON file from disk.
func Load(path string) (*Topology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &TopologyError{Reason: "open " + path, Err: err}
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a TopoJSON document and resolves its arcs into absolute
// coordinates.
func Decode(r io.Reader) (*Topology, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &TopologyError{Reason: "read", Err: eris.Wrap(err, "topo: read topology")}
	}
	var t Topology
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, &TopologyError{Reason: "invalid json", Err: err}
	}
	if t.Type != "Topology" {
		return nil, topologyErrorf("", "unexpected type %q", t.Type)
	}
	t.decodeArcs()
	for name, obj := range t.Objects {
		if obj == nil {
			return nil, topologyErrorf(name, "null object")
		}
		for i, g := range obj.Geometries {
			if g == nil {
				return nil, topologyErrorf(name, "geometry %d is null", i)
			}
			if err := t.parseGeometry(g); err != nil {
				return nil, &TopologyError{Object: name, Reason: "geometry " + strconv.Itoa(i), Err: err}
			}
		}
	}
	t.computeBBox()
	return &t, nil
}

func (t *Topology) decodeArcs() {
	t.arcs = make([][]orb.Point, len(t.RawArcs))
	for i, raw := range t.RawArcs {
		pts := make([]orb.Point, 0, len(raw))
		var x, y float64
		for _, pos := range raw {
			if len(pos) < 2 {
				continue
			}
			if t.Transform != nil {
				// quantized arcs are delta-encoded
				x += pos[0]
				y += pos[1]
				pts = append(pts, orb.Point{
					x*t.Transform.Scale[0] + t.Transform.Translate[0],
					y*t.Transform.Scale[1] + t.Transform.Translate[1],
				})
				continue
			}
			pts = append(pts, orb.Point{pos[0], pos[1]})
		}
		t.arcs[i] = pts
	}
}

func (t *Topology) parseGeometry(g *Geometry) error {
	if len(g.RawArcs) == 0 || string(g.RawArcs) == "null" {
		return nil
	}
	switch g.Type {
	case "Polygon":
		var rings [][]int
		if err := json.Unmarshal(g.RawArcs, &rings); err != nil {
			return eris.Wrap(err, "polygon arcs")
		}
		g.polygons = [][][]int{rings}
	case "MultiPolygon":
		if err := json.Unmarshal(g.RawArcs, &g.polygons); err != nil {
			return eris.Wrap(err, "multipolygon arcs")
		}
	default:
		return nil
	}
	for _, poly := range g.polygons {
		for _, ring := range poly {
			if len(ring) == 0 {
				return eris.New("empty ring")
			}
			for _, ref := range ring {
				if idx := arcIndex(ref); idx < 0 || idx >= len(t.arcs) || len(t.arcs[idx]) < 2 {
					return eris.Errorf("arc reference %d out of range", ref)
				}
			}
		}
	}
	return nil
}

func (t *Topology) computeBBox() {
	if len(t.RawBBox) >= 4 {
		t.bbox = BBox{MinX: t.RawBBox[0], MinY: t.RawBBox[1], MaxX: t.RawBBox[2], MaxY: t.RawBBox[3]}
		return
	}
	var acc bboxAccumulator
	for _, arc := range t.arcs {
		for _, p := range arc {
			acc.add(p)
		}
	}
	t.bbox = acc.bbox
}

// BBox returns the topology extent, taken from the document when present and
// otherwise computed once from the decoded arcs.
func (t *Topology) BBox() BBox { return t.bbox }

// Object returns the named collection or a *TopologyError when it is absent
// or empty.
func (t *Topology) Object(name string) (*Object, error) {
	obj, ok := t.Objects[name]
	if !ok {
		return nil, topologyErrorf(name, "object collection not found")
	}
	if len(obj.Geometries) == 0 {
		return nil, topologyErrorf(name, "object collection has no geometries")
	}
	return obj, nil
}

func arcIndex(ref int) int {
	if ref < 0 {
		return ^ref
	}
	return ref
}

// arcPoints returns the coordinates of an arc reference, reversed for
// negative references. The returned slice must not be modified.
func (t *Topology) arcPoints(ref int) []orb.Point {
	if ref >= 0 {
		return t.arcs[ref]
	}
	src := t.arcs[^ref]
	out := make([]orb.Point, len(src))
	for i, p := range src {
		out[len(src)-1-i] = p
	}
	return out
}

func (t *Topology) arcEnds(ref int) (start, end orb.Point) {
	arc := t.arcs[arcIndex(ref)]
	start, end = arc[0], arc[len(arc)-1]
	if ref < 0 {
		start, end = end, start
	}
	return start, end
}

// line concatenates arc references into one coordinate sequence, dropping
// the shared vertex between consecutive arcs.
func (t *Topology) line(refs []int) []orb.Point {
	var pts []orb.Point
	for k, ref := range refs {
		arc := t.arcPoints(ref)
		if k > 0 {
			arc = arc[1:]
		}
		pts = append(pts, arc...)
	}
	return pts
}

func (t *Topology) ring(refs []int) orb.Ring {
	pts := t.line(refs)
	if len(pts) > 0 && pts[0] != pts[len(pts)-1] {
		pts = append(pts, pts[0])
	}
	return orb.Ring(pts)
}
