package main

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"choromap/internal/config"
	"choromap/internal/dataset"
	"choromap/internal/render"
	"choromap/internal/scale"
	"choromap/internal/topo"
)

// scene is everything loaded from config before drawing.
type scene struct {
	set   *topo.FeatureSet
	data  *dataset.Collection
	scale scale.Scale
}

func loadScene(c *config.Config) (*scene, error) {
	t, err := topo.Load(c.Topology.Path)
	if err != nil {
		return nil, err
	}
	set, err := topo.Build(t, c.Topology.Object, topo.DifferentTown)
	if err != nil {
		return nil, err
	}

	data := &dataset.Collection{ByMetric: map[string]dataset.Dataset{}}
	if c.Data.Path != "" {
		if data, err = dataset.LoadCSV(c.Data.Path); err != nil {
			return nil, err
		}
	}
	if c.Data.Metric != "" && data.Index(c.Data.Metric) < 0 {
		return nil, eris.Errorf("metric %q not found in %s (have %v)", c.Data.Metric, c.Data.Path, data.Metrics)
	}

	s, err := buildScale(c.Scale)
	if err != nil {
		return nil, err
	}
	return &scene{set: set, data: data, scale: s}, nil
}

// buildScale uses explicit colors when configured, otherwise a Lab ramp.
func buildScale(c config.ScaleConfig) (scale.Scale, error) {
	if len(c.Colors) > 0 {
		colors := make([]scale.Color, len(c.Colors))
		for i, hex := range c.Colors {
			colors[i] = scale.Color(hex)
		}
		t, err := scale.NewThreshold(c.Thresholds, colors)
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	t, err := scale.NewRampThreshold(c.Thresholds, c.From, c.To)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// buildBackends returns the configured backend first, then the other one.
func buildBackends(c *config.Config) []render.Backend {
	tiles := render.NewTileBackend(render.NewTileSource(render.TileOptions{
		URL:          c.Tiles.URL,
		Format:       c.Tiles.Format,
		UserAgent:    c.Tiles.UserAgent,
		Timeout:      time.Duration(c.Tiles.TimeoutSecs) * time.Second,
		RatePerSec:   c.Tiles.RatePerSec,
		Concurrency:  c.Tiles.Concurrency,
		CacheEntries: c.Tiles.CacheEntries,
		CacheTTL:     time.Duration(c.Tiles.CacheTTLMins) * time.Minute,
	}))
	if c.Map.Backend == render.BackendTiles {
		return []render.Backend{tiles, render.VectorBackend{}}
	}
	return []render.Backend{render.VectorBackend{}, tiles}
}

func logScene(s *scene) {
	zap.L().Info("scene loaded",
		zap.String("object", s.set.Object),
		zap.Int("regions", len(s.set.Regions)),
		zap.Int("inner_lines", len(s.set.InnerBoundary)),
		zap.Int("metrics", len(s.data.Metrics)),
	)
}
