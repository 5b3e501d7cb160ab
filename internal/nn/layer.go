package nn

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/retrograd-ml/retrograd/internal/autodiff"
	"github.com/samber/lo"
)

// Layer is a fully connected row of neurons that all read the same inputs.
//
// Example:
//
//	g := autodiff.NewGraph()
//	layer := nn.NewLayer(g, 3, 4, nn.NewRand(42))
//	outs, err := layer.Forward(nn.Inputs(1, 2, 3), nn.ReLU) // 4 values
type Layer struct {
	nInputs int
	neurons []*Neuron
}

// NewLayer creates nOutputs neurons with nInputs weights each, drawing
// parameters from U(-1, 1) using rng.
func NewLayer(g *autodiff.Graph, nInputs, nOutputs int, rng *rand.Rand) *Layer {
	return NewLayerWithInit(g, nInputs, nOutputs, Uniform(-1, 1, rng))
}

// NewLayerWithInit creates a layer whose parameters come from init, neuron by neuron.
func NewLayerWithInit(g *autodiff.Graph, nInputs, nOutputs int, init Initializer) *Layer {
	if nOutputs < 1 {
		panic(fmt.Sprintf("NewLayer: expected at least 1 output, got %d", nOutputs))
	}

	neurons := make([]*Neuron, nOutputs)
	for i := range neurons {
		neurons[i] = NewNeuronWithInit(g, nInputs, init)
	}

	return &Layer{
		nInputs: nInputs,
		neurons: neurons,
	}
}

// Forward applies every neuron to x and returns one Value per neuron.
//
// Returns a *ShapeError, without building any node, when len(x) differs
// from the layer's input width.
func (l *Layer) Forward(x []autodiff.Operand, act Activation) ([]autodiff.Value, error) {
	if len(x) != l.nInputs {
		return nil, &ShapeError{Component: "layer", Want: l.nInputs, Got: len(x)}
	}

	outs := make([]autodiff.Value, len(l.neurons))
	for i, n := range l.neurons {
		out, err := n.Forward(x, act)
		if err != nil {
			return nil, err
		}
		outs[i] = out
	}
	return outs, nil
}

// ForwardScalar is Forward for a single-neuron layer, returning the one
// output unwrapped. Returns a *ShapeError if the layer is wider than one.
func (l *Layer) ForwardScalar(x []autodiff.Operand, act Activation) (autodiff.Value, error) {
	if len(l.neurons) != 1 {
		return autodiff.Value{}, &ShapeError{Component: "layer output", Want: 1, Got: len(l.neurons)}
	}
	outs, err := l.Forward(x, act)
	if err != nil {
		return autodiff.Value{}, err
	}
	return outs[0], nil
}

// Parameters returns the parameters of every neuron, neuron by neuron.
func (l *Layer) Parameters() []autodiff.Value {
	return lo.FlatMap(l.neurons, func(n *Neuron, _ int) []autodiff.Value {
		return n.Parameters()
	})
}

// ZeroGrad resets the gradients of every neuron.
func (l *Layer) ZeroGrad() {
	for _, n := range l.neurons {
		n.ZeroGrad()
	}
}

// Neurons returns the neurons of the layer.
func (l *Layer) Neurons() []*Neuron {
	return l.neurons
}

// NumInputs returns the input width.
func (l *Layer) NumInputs() int {
	return l.nInputs
}

// NumOutputs returns the number of neurons.
func (l *Layer) NumOutputs() int {
	return len(l.neurons)
}

// String implements fmt.Stringer.
func (l *Layer) String() string {
	names := lo.Map(l.neurons, func(n *Neuron, _ int) string { return n.String() })
	return "Layer of [" + strings.Join(names, ", ") + "]"
}
