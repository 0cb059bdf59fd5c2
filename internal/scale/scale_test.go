package scale

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func purples(t *testing.T) *Threshold {
	t.Helper()
	s, err := NewThreshold(
		[]float64{0.1, 0.2, 0.3},
		[]Color{"#f2f0f7", "#cbc9e2", "#9e9ac8", "#54278f"},
	)
	require.NoError(t, err)
	return s
}

func TestThresholdColor(t *testing.T) {
	s := purples(t)
	tests := []struct {
		v    float64
		want Color
	}{
		{-5, "#f2f0f7"},
		{0, "#f2f0f7"},
		{0.0999, "#f2f0f7"},
		{0.1, "#cbc9e2"},
		{0.15, "#cbc9e2"},
		{0.2, "#9e9ac8"},
		{0.3, "#54278f"},
		{42, "#54278f"},
		{math.Inf(1), "#54278f"},
		{math.NaN(), "#f2f0f7"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Color(tt.v), "value %v", tt.v)
	}
}

func TestThresholdAccessorsCopy(t *testing.T) {
	s := purples(t)
	d := s.Thresholds()
	d[0] = 99
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, s.Thresholds())

	c := s.Colors()
	c[0] = "#000000"
	assert.Equal(t, Color("#f2f0f7"), s.Colors()[0])
}

func TestNewThresholdNormalizesHex(t *testing.T) {
	s, err := NewThreshold([]float64{1}, []Color{"#ABCDEF", "#fff"})
	require.NoError(t, err)
	assert.Equal(t, []Color{"#abcdef", "#ffffff"}, s.Colors())
}

func TestNewThresholdErrors(t *testing.T) {
	tests := []struct {
		name   string
		domain []float64
		colors []Color
	}{
		{"too few colors", []float64{0.1, 0.2}, []Color{"#000000", "#ffffff"}},
		{"too many colors", []float64{0.1}, []Color{"#000000", "#777777", "#ffffff"}},
		{"descending", []float64{0.2, 0.1}, []Color{"#000000", "#777777", "#ffffff"}},
		{"duplicate", []float64{0.2, 0.2}, []Color{"#000000", "#777777", "#ffffff"}},
		{"nan", []float64{math.NaN()}, []Color{"#000000", "#ffffff"}},
		{"bad hex", []float64{0.5}, []Color{"purple", "#ffffff"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewThreshold(tt.domain, tt.colors)
			var se *Error
			require.True(t, errors.As(err, &se), "got %v", err)
		})
	}
}

func TestExtent(t *testing.T) {
	s := purples(t)

	lo, hi := Extent(s, 0)
	assert.True(t, math.IsNaN(lo))
	assert.InDelta(t, 0.1, hi, 1e-12)

	lo, hi = Extent(s, 2)
	assert.InDelta(t, 0.2, lo, 1e-12)
	assert.InDelta(t, 0.3, hi, 1e-12)

	lo, hi = Extent(s, 3)
	assert.InDelta(t, 0.3, lo, 1e-12)
	assert.True(t, math.IsNaN(hi))
}

func TestRamp(t *testing.T) {
	colors, err := Ramp(5, "#ffffff", "#000000")
	require.NoError(t, err)
	require.Len(t, colors, 5)
	assert.Equal(t, Color("#ffffff"), colors[0])
	assert.Equal(t, Color("#000000"), colors[4])
	for i := 1; i < len(colors); i++ {
		assert.Greater(t, Distance(colors[i-1], colors[i]), 0.01)
	}

	one, err := Ramp(1, "#123456", "#000000")
	require.NoError(t, err)
	assert.Equal(t, []Color{"#123456"}, one)

	_, err = Ramp(0, "#ffffff", "#000000")
	assert.Error(t, err)
	_, err = Ramp(3, "nope", "#000000")
	assert.Error(t, err)
}

func TestNewRampThreshold(t *testing.T) {
	s, err := NewRampThreshold([]float64{0.25, 0.5, 0.75}, "#f2f0f7", "#54278f")
	require.NoError(t, err)
	assert.Len(t, s.Colors(), 4)
	assert.Equal(t, Color("#f2f0f7"), s.Color(0))
	assert.Equal(t, Color("#54278f"), s.Color(1))
}

func TestDistanceAndBlend(t *testing.T) {
	assert.InDelta(t, 0, Distance("#cccccc", "#cccccc"), 1e-9)
	assert.True(t, math.IsInf(Distance("bogus", "#cccccc"), 1))
	assert.Equal(t, Color("#ffffff"), Blend("#ffffff", "#000000", 0))
	assert.Equal(t, Color("#000000"), Blend("#ffffff", "#000000", 1))
}
