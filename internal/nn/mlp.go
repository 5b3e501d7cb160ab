package nn

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/pkg/errors"
	"github.com/retrograd-ml/retrograd/internal/autodiff"
	"github.com/samber/lo"
)

// MLP is a multi-layer perceptron: layers chained so that each layer's
// outputs are the next layer's inputs.
//
// Example:
//
//	g := autodiff.NewGraph()
//	mlp := nn.NewMLP(g, 3, []int{4, 4, 1}, nn.NewRand(42))
//	score, err := mlp.ForwardScalarWith(nn.Inputs(2, 3, -1), nn.Tanh, nn.Identity)
//
// NewMLP(g, 3, []int{4, 4, 1}) owns (3·4+4) + (4·4+4) + (4·1+1) = 41 parameters.
type MLP struct {
	nInputs int
	layers  []*Layer
}

// NewMLP creates layers nInputs → layerSizes[0] → layerSizes[1] → ...,
// drawing parameters from U(-1, 1) using rng.
func NewMLP(g *autodiff.Graph, nInputs int, layerSizes []int, rng *rand.Rand) *MLP {
	return NewMLPWithInit(g, nInputs, layerSizes, func(int, int) Initializer {
		return Uniform(-1, 1, rng)
	})
}

// NewMLPWithInit creates an MLP; init is called once per layer with the
// layer's fan-in and fan-out, e.g. to build Xavier initializers.
func NewMLPWithInit(g *autodiff.Graph, nInputs int, layerSizes []int, init func(fanIn, fanOut int) Initializer) *MLP {
	if len(layerSizes) == 0 {
		panic("NewMLP: expected at least one layer")
	}

	sizes := append([]int{nInputs}, layerSizes...)
	layers := make([]*Layer, len(layerSizes))
	for i := range layers {
		layers[i] = NewLayerWithInit(g, sizes[i], sizes[i+1], init(sizes[i], sizes[i+1]))
	}

	return &MLP{
		nInputs: nInputs,
		layers:  layers,
	}
}

// Forward feeds x through every layer, applying act in all of them.
func (m *MLP) Forward(x []autodiff.Operand, act Activation) ([]autodiff.Value, error) {
	return m.ForwardWith(x, act, act)
}

// ForwardWith feeds x through every layer, applying hidden to all layers
// but the last and output to the last one. Passing Identity as output
// leaves raw scores for the loss.
func (m *MLP) ForwardWith(x []autodiff.Operand, hidden, output Activation) ([]autodiff.Value, error) {
	if len(x) != m.nInputs {
		return nil, &ShapeError{Component: "mlp", Want: m.nInputs, Got: len(x)}
	}

	in := x
	var outs []autodiff.Value
	for i, layer := range m.layers {
		act := hidden
		if i == len(m.layers)-1 {
			act = output
		}

		var err error
		outs, err = layer.Forward(in, act)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d", i)
		}
		in = Operands(outs)
	}
	return outs, nil
}

// ForwardScalar is Forward for a network whose last layer has one neuron.
func (m *MLP) ForwardScalar(x []autodiff.Operand, act Activation) (autodiff.Value, error) {
	return m.ForwardScalarWith(x, act, act)
}

// ForwardScalarWith is ForwardWith for a network whose last layer has one
// neuron, returning that output unwrapped. Returns a *ShapeError otherwise.
func (m *MLP) ForwardScalarWith(x []autodiff.Operand, hidden, output Activation) (autodiff.Value, error) {
	if w := m.NumOutputs(); w != 1 {
		return autodiff.Value{}, &ShapeError{Component: "mlp output", Want: 1, Got: w}
	}
	outs, err := m.ForwardWith(x, hidden, output)
	if err != nil {
		return autodiff.Value{}, err
	}
	return outs[0], nil
}

// Parameters returns the parameters of every layer, layer by layer.
func (m *MLP) Parameters() []autodiff.Value {
	return lo.FlatMap(m.layers, func(l *Layer, _ int) []autodiff.Value {
		return l.Parameters()
	})
}

// ZeroGrad resets the gradients of every layer.
func (m *MLP) ZeroGrad() {
	for _, l := range m.layers {
		l.ZeroGrad()
	}
}

// Layers returns the layers in order.
func (m *MLP) Layers() []*Layer {
	return m.layers
}

// NumInputs returns the input width.
func (m *MLP) NumInputs() int {
	return m.nInputs
}

// NumOutputs returns the width of the last layer.
func (m *MLP) NumOutputs() int {
	return m.layers[len(m.layers)-1].NumOutputs()
}

// String implements fmt.Stringer.
func (m *MLP) String() string {
	names := lo.Map(m.layers, func(l *Layer, _ int) string { return l.String() })
	return fmt.Sprintf("MLP of [%s]", strings.Join(names, ", "))
}
