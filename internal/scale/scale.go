// Package scale provides the threshold color scale consumed by the color
// mapper and the legend.
package scale

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a "#rrggbb" hex color.
type Color string

// Scale maps a value to a color and exposes its breakpoints so a legend can
// be derived from the same object.
type Scale interface {
	Color(v float64) Color
	Thresholds() []float64
	Colors() []Color
}

// Error reports an invalid scale definition.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return "scale: " + e.Reason }

// Threshold partitions the number line at ascending breakpoints. Values below
// the first breakpoint take the first color, values at or above breakpoint i
// take color i+1.
type Threshold struct {
	domain []float64
	colors []Color
}

// NewThreshold builds a threshold scale. colors must have exactly one more
// entry than domain, domain must be strictly ascending, and every color must
// be a valid hex triplet.
func NewThreshold(domain []float64, colors []Color) (*Threshold, error) {
	if len(colors) != len(domain)+1 {
		return nil, &Error{Reason: fmt.Sprintf("%d thresholds need %d colors, got %d", len(domain), len(domain)+1, len(colors))}
	}
	for i, d := range domain {
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return nil, &Error{Reason: fmt.Sprintf("threshold %d is not finite", i)}
		}
		if i > 0 && d <= domain[i-1] {
			return nil, &Error{Reason: fmt.Sprintf("thresholds must be strictly ascending at index %d", i)}
		}
	}
	norm := make([]Color, len(colors))
	for i, c := range colors {
		parsed, err := colorful.Hex(string(c))
		if err != nil {
			return nil, &Error{Reason: fmt.Sprintf("color %d %q: %v", i, c, err)}
		}
		norm[i] = Color(parsed.Hex())
	}
	return &Threshold{
		domain: append([]float64(nil), domain...),
		colors: norm,
	}, nil
}

// Color returns the bucket color of v. NaN falls into the first bucket.
func (t *Threshold) Color(v float64) Color {
	if math.IsNaN(v) {
		return t.colors[0]
	}
	// bisect right: number of thresholds <= v
	i := sort.Search(len(t.domain), func(i int) bool { return t.domain[i] > v })
	return t.colors[i]
}

// Thresholds returns a copy of the breakpoints.
func (t *Threshold) Thresholds() []float64 { return append([]float64(nil), t.domain...) }

// Colors returns a copy of the bucket colors.
func (t *Threshold) Colors() []Color { return append([]Color(nil), t.colors...) }

// Extent returns the half-open value interval [lo, hi) mapped to bucket i.
// Unbounded ends are NaN.
func Extent(s Scale, i int) (lo, hi float64) {
	d := s.Thresholds()
	lo, hi = math.NaN(), math.NaN()
	if i > 0 && i-1 < len(d) {
		lo = d[i-1]
	}
	if i < len(d) {
		hi = d[i]
	}
	return lo, hi
}

// String describes the scale for logs.
func (t *Threshold) String() string {
	parts := make([]string, 0, len(t.domain))
	for _, d := range t.domain {
		parts = append(parts, fmt.Sprintf("%g", d))
	}
	return fmt.Sprintf("threshold[%s]", strings.Join(parts, " "))
}
