package nn

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/retrograd-ml/retrograd/internal/autodiff"
)

// Activation selects the non-linearity applied to a neuron's weighted sum.
type Activation uint8

// Supported activations.
const (
	// Identity leaves the weighted sum unchanged. Usually the right choice
	// for the last layer, so losses see raw scores.
	Identity Activation = iota
	// Tanh squashes values to (-1, 1).
	Tanh
	// Sigmoid squashes values to (0, 1).
	Sigmoid
	// ReLU clamps negative values to 0.
	ReLU
)

// String returns the name accepted by ParseActivation.
func (a Activation) String() string {
	switch a {
	case Identity:
		return "none"
	case Tanh:
		return "tanh"
	case Sigmoid:
		return "sigmoid"
	case ReLU:
		return "relu"
	default:
		return "unknown"
	}
}

// ParseActivation maps "tanh", "sigmoid", "relu" and "none" (or "identity",
// "linear") to an Activation. Matching ignores case.
func ParseActivation(name string) (Activation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "tanh":
		return Tanh, nil
	case "sigmoid":
		return Sigmoid, nil
	case "relu":
		return ReLU, nil
	case "none", "identity", "linear", "":
		return Identity, nil
	default:
		return Identity, errors.Wrapf(ErrUnknownActivation, "%q", name)
	}
}

// Apply returns the activation of v, extending v's graph.
func (a Activation) Apply(v autodiff.Value) autodiff.Value {
	switch a {
	case Tanh:
		return v.Tanh()
	case Sigmoid:
		return v.Sigmoid()
	case ReLU:
		return v.ReLU()
	default:
		return v
	}
}
