package nn

import (
	"fmt"

	"github.com/pkg/errors"
)

// Common errors.
var (
	ErrShape             = errors.New("input width mismatch")
	ErrUnknownActivation = errors.New("unknown activation")
)

// ShapeError reports an input sequence whose length disagrees with the
// configured width of a component.
type ShapeError struct {
	Component string // Component that rejected the input (e.g., "neuron", "layer")
	Want      int    // Configured width
	Got       int    // Width received
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: expected %d inputs, got %d", e.Component, e.Want, e.Got)
}

// Unwrap lets errors.Is match ErrShape.
func (e *ShapeError) Unwrap() error {
	return ErrShape
}
