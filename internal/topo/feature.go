package topo

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Shape is one decoded geometry of an object collection.
type Shape struct {
	Properties Properties
	Geometry   orb.MultiPolygon
}

// Feature converts every geometry of the named collection into a
// MultiPolygon. Geometries without area decode to an empty MultiPolygon.
func (t *Topology) Feature(name string) ([]Shape, error) {
	obj, err := t.Object(name)
	if err != nil {
		return nil, err
	}
	shapes := make([]Shape, 0, len(obj.Geometries))
	for _, g := range obj.Geometries {
		mp := make(orb.MultiPolygon, 0, len(g.polygons))
		for _, poly := range g.polygons {
			p := make(orb.Polygon, 0, len(poly))
			for _, refs := range poly {
				p = append(p, t.ring(refs))
			}
			mp = append(mp, p)
		}
		props := g.Properties
		if props == nil {
			props = Properties{}
		}
		shapes = append(shapes, Shape{Properties: props, Geometry: mp})
	}
	return shapes, nil
}

// Filter decides whether an arc shared by geometries a and b belongs to a
// mesh. Arcs on the exterior have a single owner and are passed as (a, a).
type Filter func(a, b *Geometry) bool

// Mesh returns the arcs of the named collection accepted by filter, stitched
// into continuous lines. A nil filter keeps every arc once.
func (t *Topology) Mesh(name string, filter Filter) (orb.MultiLineString, error) {
	obj, err := t.Object(name)
	if err != nil {
		return nil, err
	}

	type owner struct {
		ref  int
		geom *Geometry
	}
	owners := make(map[int][]owner)
	var order []int
	for _, g := range obj.Geometries {
		for _, poly := range g.polygons {
			for _, ring := range poly {
				for _, ref := range ring {
					idx := arcIndex(ref)
					if _, seen := owners[idx]; !seen {
						order = append(order, idx)
					}
					owners[idx] = append(owners[idx], owner{ref: ref, geom: g})
				}
			}
		}
	}
	sort.Ints(order)

	var refs []int
	for _, idx := range order {
		own := owners[idx]
		a, b := own[0].geom, own[len(own)-1].geom
		if filter == nil || filter(a, b) {
			refs = append(refs, own[0].ref)
		}
	}

	mesh := make(orb.MultiLineString, 0)
	for _, chain := range t.stitch(refs) {
		mesh = append(mesh, orb.LineString(t.line(chain)))
	}
	return mesh, nil
}

// Merge dissolves every polygon of the named collection into a single
// outline: arcs used by exactly one ring survive and are stitched into
// closed rings, and rings enclosed by another ring become holes.
func (t *Topology) Merge(name string) (orb.MultiPolygon, error) {
	obj, err := t.Object(name)
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int)
	first := make(map[int]int)
	var order []int
	for _, g := range obj.Geometries {
		for _, poly := range g.polygons {
			for _, ring := range poly {
				for _, ref := range ring {
					idx := arcIndex(ref)
					if counts[idx] == 0 {
						first[idx] = ref
						order = append(order, idx)
					}
					counts[idx]++
				}
			}
		}
	}

	var refs []int
	for _, idx := range order {
		if counts[idx] == 1 {
			refs = append(refs, first[idx])
		}
	}

	var rings []orb.Ring
	for _, chain := range t.stitch(refs) {
		r := t.ring(chain)
		if len(r) >= 4 {
			rings = append(rings, r)
		}
	}
	return assembleRings(rings), nil
}

// assembleRings nests rings by containment: even depth rings are exteriors,
// odd depth rings are holes of their smallest enclosing exterior.
func assembleRings(rings []orb.Ring) orb.MultiPolygon {
	depth := make([]int, len(rings))
	for i, r := range rings {
		for j, other := range rings {
			if i != j && ringInside(r, other) {
				depth[i]++
			}
		}
	}

	var out orb.MultiPolygon
	exterior := make(map[int]int) // ring index -> polygon index
	for i, r := range rings {
		if depth[i]%2 == 0 {
			exterior[i] = len(out)
			out = append(out, orb.Polygon{r})
		}
	}
	for i, r := range rings {
		if depth[i]%2 == 0 {
			continue
		}
		best, bestArea := -1, math.Inf(1)
		for j, pi := range exterior {
			if !ringInside(r, rings[j]) {
				continue
			}
			if a := math.Abs(planar.Area(rings[j])); a < bestArea {
				best, bestArea = pi, a
			}
		}
		if best >= 0 {
			out[best] = append(out[best], r)
		}
	}
	return out
}

// ringInside reports whether inner lies within outer, judged by the first
// vertex of inner that is not also a vertex of outer.
func ringInside(inner, outer orb.Ring) bool {
	shared := make(map[orb.Point]struct{}, len(outer))
	for _, p := range outer {
		shared[p] = struct{}{}
	}
	for _, p := range inner {
		if _, ok := shared[p]; ok {
			continue
		}
		return planar.RingContains(outer, p)
	}
	return false
}
