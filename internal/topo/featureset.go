package topo

import (
	"errors"
	"sort"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"choromap/internal/featureid"
)

// Property keys carried by every neighborhood geometry.
const (
	NeighborhoodKey = "Neighborhood"
	TownKey         = "Town"
)

// Region is one neighborhood polygon tagged with its properties.
type Region struct {
	ID         featureid.ID
	Name       string
	Town       string
	Properties Properties
	Geometry   orb.MultiPolygon
	Bound      orb.Bound
}

// FeatureSet is the immutable geometry the renderer draws.
type FeatureSet struct {
	Object        string
	Regions       []*Region
	InnerBoundary orb.MultiLineString
	OuterBoundary orb.MultiPolygon
	Bound         orb.Bound

	byID map[featureid.ID]*Region
}

// BoundaryPredicate decides whether the edge shared by two neighborhoods is
// part of the internal boundary mesh.
type BoundaryPredicate func(a, b Properties) bool

// DifferentTown keeps edges whose two sides belong to different towns.
func DifferentTown(a, b Properties) bool {
	return a.String(TownKey) != b.String(TownKey)
}

// Build derives the FeatureSet of the named collection. It fails with a
// *TopologyError when the collection is missing or empty, when a geometry
// has no Neighborhood name, or when a name is listed twice. Two distinct
// names that normalize to the same id fail with a *featureid.CollisionError.
func Build(t *Topology, object string, keep BoundaryPredicate) (*FeatureSet, error) {
	shapes, err := t.Feature(object)
	if err != nil {
		return nil, err
	}

	fs := &FeatureSet{
		Object: object,
		Bound:  t.BBox().Bound(),
		byID:   make(map[featureid.ID]*Region, len(shapes)),
	}
	names := make([]string, 0, len(shapes))
	first := make(map[string]int, len(shapes))
	for i, s := range shapes {
		name := s.Properties.String(NeighborhoodKey)
		if name == "" {
			return nil, topologyErrorf(object, "geometry %d has no %s property", i, NeighborhoodKey)
		}
		if j, ok := first[name]; ok {
			return nil, topologyErrorf(object, "neighborhood %q appears in geometries %d and %d", name, j, i)
		}
		first[name] = i
		if len(s.Geometry) == 0 {
			return nil, topologyErrorf(object, "neighborhood %q has no polygon rings", name)
		}
		names = append(names, name)
		fs.Regions = append(fs.Regions, &Region{
			ID:         featureid.For(name),
			Name:       name,
			Town:       s.Properties.String(TownKey),
			Properties: s.Properties,
			Geometry:   s.Geometry,
			Bound:      s.Geometry.Bound(),
		})
	}

	if _, err := featureid.Validate(names); err != nil {
		var ce *featureid.CollisionError
		if errors.As(err, &ce) {
			zap.L().Error("topo: duplicate neighborhood id",
				zap.String("id", ce.ID.String()),
				zap.String("first", ce.First),
				zap.String("second", ce.Second))
		}
		return nil, err
	}
	for _, r := range fs.Regions {
		fs.byID[r.ID] = r
	}

	var filter Filter
	if keep != nil {
		filter = func(a, b *Geometry) bool { return keep(a.Properties, b.Properties) }
	}
	if fs.InnerBoundary, err = t.Mesh(object, filter); err != nil {
		return nil, err
	}
	if fs.OuterBoundary, err = t.Merge(object); err != nil {
		return nil, err
	}
	if !t.BBox().Valid() {
		fs.Bound = fs.OuterBoundary.Bound()
	}

	zap.L().Debug("topo: feature set built",
		zap.String("object", object),
		zap.Int("regions", len(fs.Regions)),
		zap.Int("inner_lines", len(fs.InnerBoundary)),
		zap.Int("outline_polygons", len(fs.OuterBoundary)))
	return fs, nil
}

// Region looks up a neighborhood by id.
func (fs *FeatureSet) Region(id featureid.ID) (*Region, bool) {
	r, ok := fs.byID[id]
	return r, ok
}

// Names returns the neighborhood names in sorted order.
func (fs *FeatureSet) Names() []string {
	names := make([]string, 0, len(fs.Regions))
	for _, r := range fs.Regions {
		names = append(names, r.Name)
	}
	sort.Strings(names)
	return names
}
