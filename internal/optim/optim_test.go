package optim_test

import (
	"testing"

	"github.com/retrograd-ml/retrograd/internal/autodiff"
	"github.com/retrograd-ml/retrograd/internal/nn"
	"github.com/retrograd-ml/retrograd/internal/optim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSGD_SimpleUpdate tests SGD without momentum.
func TestSGD_SimpleUpdate(t *testing.T) {
	g := autodiff.NewGraph()
	x := g.Leaf(2)
	x.SetGrad(1)

	opt := optim.NewSGD([]autodiff.Value{x}, optim.SGDConfig{LR: 0.1})
	opt.Step()

	// x_new = x_old - lr * grad = 2.0 - 0.1 * 1.0
	assert.InDelta(t, 1.9, x.Data(), 1e-12)
	// Step does not clear gradients.
	assert.Equal(t, 1.0, x.Grad())
}

// TestSGD_WithMomentum tests SGD with momentum over two steps.
func TestSGD_WithMomentum(t *testing.T) {
	g := autodiff.NewGraph()
	x := g.Leaf(2)

	opt := optim.NewSGD([]autodiff.Value{x}, optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	x.SetGrad(1)
	opt.Step() // v = 1, x = 1.9
	opt.Step() // v = 1.9, x = 1.71

	assert.InDelta(t, 1.71, x.Data(), 1e-12)
}

// TestSGD_Defaults tests the default learning rate and SetLR.
func TestSGD_Defaults(t *testing.T) {
	opt := optim.NewSGD(nil, optim.SGDConfig{})
	assert.Equal(t, 0.01, opt.GetLR())

	opt.SetLR(0.5)
	assert.Equal(t, 0.5, opt.GetLR())
}

// TestAdam_FirstStep tests that the first step moves by lr·sign(grad).
func TestAdam_FirstStep(t *testing.T) {
	g := autodiff.NewGraph()
	x, y := g.Leaf(1), g.Leaf(1)
	x.SetGrad(4)
	y.SetGrad(-0.01)

	opt := optim.NewAdam([]autodiff.Value{x, y}, optim.AdamConfig{LR: 0.1})
	opt.Step()

	assert.InDelta(t, 0.9, x.Data(), 1e-6)
	assert.InDelta(t, 1.1, y.Data(), 1e-6)
	assert.Equal(t, 1, opt.GetTimestep())
}

// TestAdam_Defaults tests default hyperparameters.
func TestAdam_Defaults(t *testing.T) {
	opt := optim.NewAdam(nil, optim.AdamConfig{})
	assert.Equal(t, 0.001, opt.GetLR())
}

// TestOptimizers_ZeroGrad tests that ZeroGrad clears every parameter.
func TestOptimizers_ZeroGrad(t *testing.T) {
	g := autodiff.NewGraph()
	params := g.Leaves(1, 2, 3)

	for _, opt := range []optim.Optimizer{
		optim.NewSGD(params, optim.SGDConfig{}),
		optim.NewAdam(params, optim.AdamConfig{}),
	} {
		for _, p := range params {
			p.SetGrad(5)
		}
		opt.ZeroGrad()
		for _, p := range params {
			assert.Equal(t, 0.0, p.Grad())
		}
	}
}

// TestOptimizers_ConvexDescent tests that both optimizers minimize (x-3)² + (y+1)².
func TestOptimizers_ConvexDescent(t *testing.T) {
	tests := []struct {
		name string
		make func([]autodiff.Value) optim.Optimizer
	}{
		{"sgd", func(p []autodiff.Value) optim.Optimizer {
			return optim.NewSGD(p, optim.SGDConfig{LR: 0.1})
		}},
		{"sgd-momentum", func(p []autodiff.Value) optim.Optimizer {
			return optim.NewSGD(p, optim.SGDConfig{LR: 0.05, Momentum: 0.5})
		}},
		{"adam", func(p []autodiff.Value) optim.Optimizer {
			return optim.NewAdam(p, optim.AdamConfig{LR: 0.1})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := autodiff.NewGraph()
			params := g.Leaves(0, 0)
			opt := tt.make(params)
			mark := g.Mark()

			loss := func() autodiff.Value {
				dx := params[0].Sub(autodiff.Scalar(3))
				dy := params[1].Add(autodiff.Scalar(1))
				return dx.Mul(dx).Add(dy.Mul(dy))
			}

			initial := loss().Data()
			g.Release(mark)
			for range 300 {
				opt.ZeroGrad()
				l := loss()
				l.Backward()
				opt.Step()
				g.Release(mark)
			}

			assert.Less(t, loss().Data(), initial*1e-3)
			assert.InDelta(t, 3.0, params[0].Data(), 0.05)
			assert.InDelta(t, -1.0, params[1].Data(), 0.05)
		})
	}
}

// TestSGD_TrainsNeuron tests a full forward/backward/step loop on a neuron.
func TestSGD_TrainsNeuron(t *testing.T) {
	g := autodiff.NewGraph()
	n := nn.NewNeuron(g, 2, nn.NewRand(3))
	opt := optim.NewSGD(n.Parameters(), optim.SGDConfig{LR: 0.1})
	mark := g.Mark()

	xs := [][]float64{{1, 0}, {0, 1}, {1, 1}, {0, 0}}
	ys := []float64{1, -1, 0, 0}

	step := func() float64 {
		preds := make([]autodiff.Value, len(xs))
		for i, x := range xs {
			out, err := n.Forward(nn.Inputs(x...), nn.Identity)
			require.NoError(t, err)
			preds[i] = out
		}
		loss, err := nn.MSELoss(g, preds, ys)
		require.NoError(t, err)
		opt.ZeroGrad()
		loss.Backward()
		opt.Step()
		data := loss.Data()
		g.Release(mark)
		return data
	}

	first := step()
	var last float64
	for range 500 {
		last = step()
	}

	assert.Less(t, last, first)
	assert.Less(t, last, 1e-3)
}
