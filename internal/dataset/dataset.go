// Package dataset generates small two-dimensional binary classification
// problems for exercising networks end to end.
//
// Every generator takes an explicit random source, so the same seed always
// yields the same points.
package dataset

import (
	"math"
	"math/rand/v2"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownKind is returned by ParseKind for names it does not know.
var ErrUnknownKind = errors.New("unknown dataset")

// Kind selects a generator.
type Kind uint8

// Supported datasets.
const (
	// XOR places points around the four corners of the unit square;
	// opposite corners share a label.
	XOR Kind = iota
	// Moons draws two interleaving half circles.
	Moons
	// Circles draws a small circle inside a larger one.
	Circles
)

// String returns the name accepted by ParseKind.
func (k Kind) String() string {
	switch k {
	case XOR:
		return "xor"
	case Moons:
		return "moons"
	case Circles:
		return "circles"
	default:
		return "unknown"
	}
}

// ParseKind maps "xor", "moons" or "circles" to a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "xor":
		return XOR, nil
	case "moons":
		return Moons, nil
	case "circles":
		return Circles, nil
	default:
		return XOR, errors.Wrapf(ErrUnknownKind, "%q", name)
	}
}

// Dataset holds samples and their labels.
type Dataset struct {
	X [][]float64 // [num_samples][2]
	Y []float64   // [num_samples], each 0 or 1
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Y)
}

// SignedLabels returns the labels mapped from {0, 1} to {-1, +1}, the form
// HingeLoss expects.
func (d *Dataset) SignedLabels() []float64 {
	out := make([]float64, len(d.Y))
	for i, y := range d.Y {
		out[i] = 2*y - 1
	}
	return out
}

// Generate draws n samples of kind with Gaussian noise of the given
// standard deviation. n must be positive.
func Generate(kind Kind, n int, noise float64, rng *rand.Rand) (*Dataset, error) {
	if n <= 0 {
		return nil, errors.Errorf("dataset: sample count must be positive, got %d", n)
	}
	if noise < 0 {
		return nil, errors.Errorf("dataset: noise must be non-negative, got %g", noise)
	}

	d := &Dataset{
		X: make([][]float64, n),
		Y: make([]float64, n),
	}

	for i := range n {
		var x, y, label float64
		switch kind {
		case XOR:
			cx, cy := float64(i%2), float64((i/2)%2)
			x, y = 2*cx-1, 2*cy-1
			if cx != cy {
				label = 1
			}
		case Moons:
			// Alternate between the upper and lower moon.
			t := math.Pi * rng.Float64()
			if i%2 == 0 {
				x, y = math.Cos(t), math.Sin(t)
			} else {
				x, y = 1-math.Cos(t), 0.5-math.Sin(t)
				label = 1
			}
		case Circles:
			t := 2 * math.Pi * rng.Float64()
			r := 1.0
			if i%2 == 1 {
				r = 0.5
				label = 1
			}
			x, y = r*math.Cos(t), r*math.Sin(t)
		default:
			return nil, errors.Wrapf(ErrUnknownKind, "kind %d", kind)
		}

		d.X[i] = []float64{x + noise*rng.NormFloat64(), y + noise*rng.NormFloat64()}
		d.Y[i] = label
	}

	return d, nil
}
