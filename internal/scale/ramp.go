package scale

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Ramp interpolates n colors from "from" to "to" in CIE L*a*b*, which keeps
// perceived lightness steps even across the sequence.
func Ramp(n int, from, to string) ([]Color, error) {
	if n < 1 {
		return nil, &Error{Reason: fmt.Sprintf("ramp needs at least one color, got %d", n)}
	}
	a, err := colorful.Hex(from)
	if err != nil {
		return nil, &Error{Reason: fmt.Sprintf("ramp start %q: %v", from, err)}
	}
	b, err := colorful.Hex(to)
	if err != nil {
		return nil, &Error{Reason: fmt.Sprintf("ramp end %q: %v", to, err)}
	}
	out := make([]Color, n)
	if n == 1 {
		out[0] = Color(a.Hex())
		return out, nil
	}
	for i := range out {
		t := float64(i) / float64(n-1)
		out[i] = Color(a.BlendLab(b, t).Clamped().Hex())
	}
	return out, nil
}

// NewRampThreshold builds a threshold scale whose colors are a Lab ramp.
func NewRampThreshold(domain []float64, from, to string) (*Threshold, error) {
	colors, err := Ramp(len(domain)+1, from, to)
	if err != nil {
		return nil, err
	}
	return NewThreshold(domain, colors)
}

// Distance is the CIEDE2000 perceptual distance between two hex colors. An
// unparsable color is infinitely far from everything.
func Distance(a, b Color) float64 {
	ca, err := colorful.Hex(string(a))
	if err != nil {
		return math.Inf(1)
	}
	cb, err := colorful.Hex(string(b))
	if err != nil {
		return math.Inf(1)
	}
	return ca.DistanceCIEDE2000(cb)
}

// Blend mixes a toward b by t in Lab space.
func Blend(a, b Color, t float64) Color {
	ca, err := colorful.Hex(string(a))
	if err != nil {
		return b
	}
	cb, err := colorful.Hex(string(b))
	if err != nil {
		return a
	}
	return Color(ca.BlendLab(cb, t).Clamped().Hex())
}
