package autodiff

import (
	"fmt"

	"github.com/pkg/errors"
)

// Common errors.
var (
	ErrDomain          = errors.New("input outside operation domain")
	ErrInvalidExponent = errors.New("exponent must be a finite real constant")
	ErrNotLeaf         = errors.New("value is not a leaf")
)

// DomainError reports an operation applied to an input it is not defined for,
// such as the log of a non-positive number or a division by zero.
type DomainError struct {
	Op     string  // Operation name (e.g., "log", "div")
	Input  float64 // Offending input value
	Reason string  // Additional details
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	return fmt.Sprintf("%s(%g): %s", e.Op, e.Input, e.Reason)
}

// Unwrap lets errors.Is match ErrDomain.
func (e *DomainError) Unwrap() error {
	return ErrDomain
}
