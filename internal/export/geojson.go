// Package export writes a rendered FeatureSet as GeoJSON so the choropleth
// can be reused by other map tools.
package export

import (
	"encoding/json"
	"io"

	"github.com/paulmach/orb"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"choromap/internal/dataset"
	"choromap/internal/present"
	"choromap/internal/scale"
	"choromap/internal/topo"
)

// Feature ids of the two boundary layers.
const (
	InnerBoundaryID = "inner-boundary"
	OuterBoundaryID = "outer-boundary"
)

// Options selects what goes into the collection.
type Options struct {
	Dataset    dataset.Dataset
	Fill       func(*topo.Region) scale.Color
	Boundaries bool
}

// FeatureCollection converts every region to a MultiPolygon feature carrying
// its name, town, id, fill and value. With Boundaries set the town mesh and
// the merged outline are appended as two more features.
func FeatureCollection(set *topo.FeatureSet, opts Options) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{}
	for _, r := range set.Regions {
		props := map[string]interface{}{
			topo.NeighborhoodKey: r.Name,
			topo.TownKey:         r.Town,
			"id":                 r.ID.String(),
			"display":            present.NotAvailable,
			"value":              nil,
		}
		if p, ok := opts.Dataset.Lookup(r.Name); ok {
			props["display"] = p.Display
			props["value"] = p.Value
		}
		if opts.Fill != nil {
			props["fill"] = string(opts.Fill(r))
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         r.ID.String(),
			Geometry:   multiPolygon(r.Geometry),
			Properties: props,
		})
	}
	if opts.Boundaries {
		fc.Features = append(fc.Features,
			&geojson.Feature{
				ID:         InnerBoundaryID,
				Geometry:   multiLineString(set.InnerBoundary),
				Properties: map[string]interface{}{"layer": "inner"},
			},
			&geojson.Feature{
				ID:         OuterBoundaryID,
				Geometry:   multiPolygon(set.OuterBoundary),
				Properties: map[string]interface{}{"layer": "outer"},
			},
		)
	}
	return fc
}

// Write encodes fc as indented JSON.
func Write(w io.Writer, fc *geojson.FeatureCollection) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fc); err != nil {
		return eris.Wrap(err, "export: encode geojson")
	}
	return nil
}

func multiPolygon(mp orb.MultiPolygon) *geom.MultiPolygon {
	out := geom.NewMultiPolygon(geom.XY).SetSRID(4326)
	for i, p := range mp {
		poly := geom.NewPolygon(geom.XY)
		for _, ring := range p {
			if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flatCoords(ring))); err != nil {
				zap.L().Debug("export: skipping malformed ring", zap.Int("polygon", i), zap.Error(err))
			}
		}
		if err := out.Push(poly); err != nil {
			zap.L().Debug("export: skipping malformed polygon", zap.Int("polygon", i), zap.Error(err))
		}
	}
	return out
}

func multiLineString(mls orb.MultiLineString) *geom.MultiLineString {
	out := geom.NewMultiLineString(geom.XY).SetSRID(4326)
	for i, ls := range mls {
		if err := out.Push(geom.NewLineStringFlat(geom.XY, flatCoords(ls))); err != nil {
			zap.L().Debug("export: skipping malformed line", zap.Int("line", i), zap.Error(err))
		}
	}
	return out
}

// flatCoords converts orb points to flat coordinate pairs for go-geom.
func flatCoords[P ~[]orb.Point](pts P) []float64 {
	flat := make([]float64, 0, len(pts)*2)
	for _, p := range pts {
		flat = append(flat, p[0], p[1])
	}
	return flat
}
