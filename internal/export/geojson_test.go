package export

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"choromap/internal/dataset"
	"choromap/internal/scale"
	"choromap/internal/topo"
)

func loadSet(t *testing.T) *topo.FeatureSet {
	t.Helper()
	tp, err := topo.Load("../topo/testdata/three.json")
	require.NoError(t, err)
	fs, err := topo.Build(tp, "hoods", topo.DifferentTown)
	require.NoError(t, err)
	return fs
}

func TestFeatureCollection(t *testing.T) {
	ds := dataset.Dataset{"Asylum Hill": {Value: 0.42, Display: "42%"}}
	fc := FeatureCollection(loadSet(t), Options{
		Dataset: ds,
		Fill:    func(r *topo.Region) scale.Color { return "#123456" },
	})

	require.Len(t, fc.Features, 3)
	f := fc.Features[0]
	assert.Equal(t, "path-asylumhill", f.ID)
	assert.Equal(t, "Asylum Hill", f.Properties["Neighborhood"])
	assert.Equal(t, "Hartford", f.Properties["Town"])
	assert.Equal(t, 0.42, f.Properties["value"])
	assert.Equal(t, "42%", f.Properties["display"])
	assert.Equal(t, "#123456", f.Properties["fill"])

	mp, ok := f.Geometry.(*geom.MultiPolygon)
	require.True(t, ok)
	assert.Equal(t, 1, mp.NumPolygons())
	assert.InDelta(t, 1.0, math.Abs(mp.Area()), 1e-9)

	missing := fc.Features[1]
	assert.Equal(t, "N/A", missing.Properties["display"])
	assert.Nil(t, missing.Properties["value"])
}

func TestFeatureCollectionBoundaries(t *testing.T) {
	fc := FeatureCollection(loadSet(t), Options{Boundaries: true})
	require.Len(t, fc.Features, 5)

	inner := fc.Features[3]
	assert.Equal(t, InnerBoundaryID, inner.ID)
	mls, ok := inner.Geometry.(*geom.MultiLineString)
	require.True(t, ok)
	assert.Equal(t, 1, mls.NumLineStrings())

	outer := fc.Features[4]
	assert.Equal(t, OuterBoundaryID, outer.ID)
	mp, ok := outer.Geometry.(*geom.MultiPolygon)
	require.True(t, ok)
	assert.InDelta(t, 3.0, math.Abs(mp.Area()), 1e-9)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FeatureCollection(loadSet(t), Options{})))

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Type     string `json:"type"`
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 3)
	assert.Equal(t, "MultiPolygon", doc.Features[0].Geometry.Type)
}
