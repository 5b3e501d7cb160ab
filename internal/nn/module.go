// Package nn implements neural network modules on top of the scalar autodiff engine.
//
// This package provides building blocks for constructing small networks:
//   - Module interface: Base interface for all NN components
//   - Neuron: weighted sum plus bias followed by an activation
//   - Layer: a row of neurons sharing the same inputs
//   - MLP: layers chained so each output feeds the next layer
//   - Activations: Tanh, Sigmoid, ReLU, Identity
//   - Loss functions: MSE, binary cross-entropy, hinge
//
// Every parameter is a leaf autodiff.Value owned by the Graph the module
// was built in. Modules never reset gradients on their own; call ZeroGrad
// between independent optimization steps.
package nn

import (
	"github.com/retrograd-ml/retrograd/internal/autodiff"
)

// Module is the base interface for all neural network components.
//
// Every NN module must implement:
//   - Parameters: Return all trainable parameters in a stable order
//   - ZeroGrad: Reset the gradient of every parameter
type Module interface {
	// Parameters returns the weights and biases of this module and of any
	// nested modules, flattened. The same module always returns the same
	// order, so optimizers may index into it positionally.
	Parameters() []autodiff.Value

	// ZeroGrad sets the gradient of every parameter to 0. Intermediate
	// and output nodes are left alone.
	ZeroGrad()
}

// zeroGrad resets the gradients of params.
func zeroGrad(params []autodiff.Value) {
	for _, p := range params {
		p.ZeroGrad()
	}
}

// Inputs converts plain numbers into operands for Forward.
//
//	out, err := mlp.Forward(nn.Inputs(2.0, 3.0, -1.0), nn.Tanh)
func Inputs(xs ...float64) []autodiff.Operand {
	out := make([]autodiff.Operand, len(xs))
	for i, x := range xs {
		out[i] = autodiff.Scalar(x)
	}
	return out
}

// Operands converts Values into operands for Forward.
func Operands(vs []autodiff.Value) []autodiff.Operand {
	out := make([]autodiff.Operand, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}
