package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/retrograd-ml/retrograd/internal/autodiff"
)

// Neuron computes act(Σ wᵢ·xᵢ + b).
//
// Weights and bias are leaf Values in the graph the neuron was created in.
//
// Example:
//
//	g := autodiff.NewGraph()
//	n := nn.NewNeuron(g, 3, nn.NewRand(42))
//	out, err := n.Forward(nn.Inputs(1, 2, 3), nn.Tanh)
type Neuron struct {
	weights []autodiff.Value
	bias    autodiff.Value
}

// NewNeuron creates a neuron with nInputs weights and one bias, all drawn
// from U(-1, 1) using rng.
func NewNeuron(g *autodiff.Graph, nInputs int, rng *rand.Rand) *Neuron {
	return NewNeuronWithInit(g, nInputs, Uniform(-1, 1, rng))
}

// NewNeuronWithInit creates a neuron whose weights and bias come from init,
// weights first.
func NewNeuronWithInit(g *autodiff.Graph, nInputs int, init Initializer) *Neuron {
	if nInputs < 1 {
		panic(fmt.Sprintf("NewNeuron: expected at least 1 input, got %d", nInputs))
	}

	weights := make([]autodiff.Value, nInputs)
	for i := range weights {
		weights[i] = g.LeafLabeled(init(), fmt.Sprintf("w%d", i))
	}
	bias := g.LeafLabeled(init(), "b")

	return &Neuron{
		weights: weights,
		bias:    bias,
	}
}

// Forward computes act(Σ wᵢ·xᵢ + b), folding the products onto the bias
// from left to right.
//
// Returns a *ShapeError, without building any node, when len(x) differs
// from the number of weights.
func (n *Neuron) Forward(x []autodiff.Operand, act Activation) (autodiff.Value, error) {
	if len(x) != len(n.weights) {
		return autodiff.Value{}, &ShapeError{Component: "neuron", Want: len(n.weights), Got: len(x)}
	}

	sum := n.bias
	for i, w := range n.weights {
		sum = sum.Add(w.Mul(x[i]))
	}

	return act.Apply(sum), nil
}

// Parameters returns the weights followed by the bias.
func (n *Neuron) Parameters() []autodiff.Value {
	params := make([]autodiff.Value, 0, len(n.weights)+1)
	params = append(params, n.weights...)
	return append(params, n.bias)
}

// ZeroGrad resets the gradients of the weights and the bias.
func (n *Neuron) ZeroGrad() {
	zeroGrad(n.Parameters())
}

// Weights returns the weight parameters.
func (n *Neuron) Weights() []autodiff.Value {
	return n.weights
}

// Bias returns the bias parameter.
func (n *Neuron) Bias() autodiff.Value {
	return n.bias
}

// NumInputs returns the number of inputs Forward expects.
func (n *Neuron) NumInputs() int {
	return len(n.weights)
}

// String implements fmt.Stringer.
func (n *Neuron) String() string {
	return fmt.Sprintf("Neuron(%d)", len(n.weights))
}
