package colormap

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"choromap/internal/dataset"
	"choromap/internal/scale"
)

func testScale(t *testing.T) *scale.Threshold {
	t.Helper()
	s, err := scale.NewRampThreshold([]float64{0.1, 0.2, 0.3, 0.4, 0.5}, "#f2f0f7", "#54278f")
	require.NoError(t, err)
	return s
}

func TestColorForPresent(t *testing.T) {
	s := testScale(t)
	ds := dataset.Dataset{
		"Asylum Hill": {Value: 0.42, Display: "42%"},
		"Blue Hills":  {Value: 0.05, Display: "5%"},
	}
	for name, p := range ds {
		assert.Equal(t, s.Color(p.Value), ColorFor(name, ds, s), name)
	}
}

func TestColorForMissingUsesFallback(t *testing.T) {
	s := testScale(t)
	ds := dataset.Dataset{"Asylum Hill": {Value: 0.42, Display: "42%"}}

	assert.Equal(t, FallbackColor, ColorFor("Frog Hollow", ds, s))
	assert.Equal(t, FallbackColor, ColorFor("Frog Hollow", nil, s))
}

func TestFallbackNeverProducedByScale(t *testing.T) {
	s := testScale(t)
	for v := -0.5; v <= 1.5; v += 0.01 {
		assert.NotEqual(t, FallbackColor, s.Color(v))
	}
	_, err := New(s)
	require.NoError(t, err)
}

func TestNewRejectsFallbackLookalike(t *testing.T) {
	s, err := scale.NewThreshold([]float64{0.5}, []scale.Color{"#ffffff", "#cdcdcd"})
	require.NoError(t, err)

	_, err = New(s)
	var se *scale.Error
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Error(), "no-data")
}

func TestMapperColorFor(t *testing.T) {
	s := testScale(t)
	m, err := New(s)
	require.NoError(t, err)
	assert.Same(t, s, m.Scale())

	ds := dataset.Dataset{"West End": {Value: 0.33, Display: "33%"}}
	assert.Equal(t, s.Color(0.33), m.ColorFor("West End", ds))
	assert.Equal(t, FallbackColor, m.ColorFor("South End", ds))
}

func TestLegendLabel(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, ""},
		{math.NaN(), ""},
		{0.5, "50%"},
		{0.1, "10%"},
		{0.125, "13%"},
		{1, "100%"},
		{1.5, "150%"},
		{-0.2, "-20%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LegendLabel(tt.in), "threshold %v", tt.in)
	}
}
