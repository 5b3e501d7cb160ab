package autodiff_test

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/retrograd-ml/retrograd/internal/autodiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestForward_MulAdd tests e = a*b + c with a=2, b=-3, c=10.
func TestForward_MulAdd(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.LeafLabeled(2, "a")
	b := g.LeafLabeled(-3, "b")
	c := g.LeafLabeled(10, "c")

	e := a.Mul(b).Add(c)

	assert.Equal(t, 4.0, e.Data())
	assert.Equal(t, autodiff.OpAdd, e.Op())
	assert.Equal(t, 0.0, e.Grad())
}

// TestBackward_ChainRule tests the gradients of e = a*b + c.
func TestBackward_ChainRule(t *testing.T) {
	g := autodiff.NewGraph()
	a, b, c := g.Leaf(2), g.Leaf(-3), g.Leaf(10)

	e := a.Mul(b).Add(c)
	e.Backward()

	assert.Equal(t, 1.0, e.Grad())
	assert.Equal(t, -3.0, a.Grad())
	assert.Equal(t, 2.0, b.Grad())
	assert.Equal(t, 1.0, c.Grad())
}

// TestBackward_FanOut tests that y = x + x accumulates both uses of x.
func TestBackward_FanOut(t *testing.T) {
	g := autodiff.NewGraph()
	x := g.Leaf(3)

	y := x.Add(x)
	y.Backward()

	assert.Equal(t, 6.0, y.Data())
	assert.Equal(t, 2.0, x.Grad())
}

// TestBackward_FanOutThroughIntermediate tests accumulation when an
// intermediate node feeds two consumers.
func TestBackward_FanOutThroughIntermediate(t *testing.T) {
	g := autodiff.NewGraph()
	a, b := g.Leaf(-2), g.Leaf(3)

	d := a.Mul(b) // -6
	e := a.Add(b) // 1
	f := d.Mul(e) // -6
	f.Backward()

	assert.Equal(t, -6.0, f.Data())
	// ∂f/∂a = b*e + d = 3 - 6 = -3, ∂f/∂b = a*e + d = -2 - 6 = -8
	assert.Equal(t, -3.0, a.Grad())
	assert.Equal(t, -8.0, b.Grad())
}

// TestBackward_Square tests x*x where both operands are the same node.
func TestBackward_Square(t *testing.T) {
	g := autodiff.NewGraph()
	x := g.Leaf(5)

	y := x.Mul(x)
	y.Backward()

	assert.Equal(t, 25.0, y.Data())
	assert.Equal(t, 10.0, x.Grad())
}

// TestBackward_Leaf tests Backward on a node without operands.
func TestBackward_Leaf(t *testing.T) {
	g := autodiff.NewGraph()
	x := g.Leaf(7)
	x.SetGrad(42)

	x.Backward()

	assert.Equal(t, 1.0, x.Grad())
	assert.Equal(t, 7.0, x.Data())
}

// TestBackward_Accumulates tests that two passes without ZeroGrad add up.
func TestBackward_Accumulates(t *testing.T) {
	g := autodiff.NewGraph()
	a, b := g.Leaf(2), g.Leaf(-3)
	e := a.Mul(b)

	e.Backward()
	e.Backward()

	assert.Equal(t, -6.0, a.Grad())
	assert.Equal(t, 4.0, b.Grad())
	// The root is re-seeded, not accumulated.
	assert.Equal(t, 1.0, e.Grad())
}

// TestBackward_Deterministic tests that repeated passes separated by
// ZeroGrad produce identical gradients.
func TestBackward_Deterministic(t *testing.T) {
	g := autodiff.NewGraph()
	xs := g.Leaves(0.5, -1.5, 2.0)
	h := g.Sum(xs[0].Mul(xs[1]), xs[1].Tanh(), xs[2].Sigmoid(), xs[0].Mul(xs[2]).ReLU())
	out := h.Mul(h).Add(xs[0])

	snapshot := func() []float64 {
		out.Backward()
		grads := make([]float64, len(xs))
		for i, x := range xs {
			grads[i] = x.Grad()
		}
		return grads
	}

	first := snapshot()
	for range 5 {
		g.ZeroGrad()
		assert.Equal(t, first, snapshot())
	}
}

// TestTopoOrder tests the post-order shape of the traversal.
func TestTopoOrder(t *testing.T) {
	g := autodiff.NewGraph()
	a, b, c := g.Leaf(2), g.Leaf(-3), g.Leaf(10)
	ab := a.Mul(b)
	e := ab.Add(c)

	order := e.TopoOrder()

	require.Len(t, order, 5)
	assert.Equal(t, []autodiff.Value{a, b, ab, c, e}, order)
}

// TestTopoOrder_VisitsSharedNodeOnce tests the visited set on a diamond.
func TestTopoOrder_VisitsSharedNodeOnce(t *testing.T) {
	g := autodiff.NewGraph()
	x := g.Leaf(1)
	l := x.Exp()
	r := x.Tanh()
	top := l.Add(r)

	order := top.TopoOrder()

	assert.Equal(t, []autodiff.Value{x, l, r, top}, order)
}

// TestTopoOrder_ExcludesUnreachable tests that the order is bounded by the root.
func TestTopoOrder_ExcludesUnreachable(t *testing.T) {
	g := autodiff.NewGraph()
	x, y := g.Leaf(1), g.Leaf(2)
	used := x.Mul(autodiff.Scalar(3))
	unused := y.Add(used)

	used.Backward()

	assert.Len(t, used.TopoOrder(), 3)
	assert.Equal(t, 0.0, y.Grad())
	assert.Equal(t, 0.0, unused.Grad())
	assert.Equal(t, 3.0, x.Grad())
}

// TestBackward_DeepChain tests that a long chain does not overflow the stack.
func TestBackward_DeepChain(t *testing.T) {
	g := autodiff.NewGraph()
	x := g.Leaf(1)
	acc := x
	const depth = 100_000
	for range depth {
		acc = acc.Add(x)
	}

	acc.Backward()

	assert.Equal(t, float64(depth+1), acc.Data())
	assert.Equal(t, float64(depth+1), x.Grad())
}

// TestScalarPromotion tests both operand orders with literals.
func TestScalarPromotion(t *testing.T) {
	g := autodiff.NewGraph()
	x := g.Leaf(4)

	tests := []struct {
		name     string
		build    func() autodiff.Value
		want     float64
		wantGrad float64
	}{
		{"v+s", func() autodiff.Value { return x.Add(autodiff.Scalar(1)) }, 5, 1},
		{"s+v", func() autodiff.Value { return g.Add(autodiff.Scalar(1), x) }, 5, 1},
		{"v*s", func() autodiff.Value { return x.Mul(autodiff.Scalar(3)) }, 12, 3},
		{"s*v", func() autodiff.Value { return g.Mul(autodiff.Scalar(3), x) }, 12, 3},
		{"v-s", func() autodiff.Value { return x.Sub(autodiff.Scalar(1)) }, 3, 1},
		{"s-v", func() autodiff.Value { return x.RSub(autodiff.Scalar(1)) }, -3, -1},
		{"s-v graph", func() autodiff.Value { return g.Sub(autodiff.Scalar(1), x) }, -3, -1},
		{"-v", func() autodiff.Value { return x.Neg() }, -4, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x.ZeroGrad()
			out := tt.build()
			out.Backward()
			assert.InDelta(t, tt.want, out.Data(), 1e-12)
			assert.InDelta(t, tt.wantGrad, x.Grad(), 1e-12)
		})
	}
}

// TestDiv tests v/s, s/v and v/v.
func TestDiv(t *testing.T) {
	g := autodiff.NewGraph()
	x := g.Leaf(4)
	y := g.Leaf(2)

	q, err := x.Div(y)
	require.NoError(t, err)
	q.Backward()
	assert.InDelta(t, 2.0, q.Data(), 1e-12)
	assert.InDelta(t, 0.5, x.Grad(), 1e-12)
	assert.InDelta(t, -1.0, y.Grad(), 1e-12) // -x/y²

	g.ZeroGrad()
	r, err := x.RDiv(autodiff.Scalar(8))
	require.NoError(t, err)
	r.Backward()
	assert.InDelta(t, 2.0, r.Data(), 1e-12)
	assert.InDelta(t, -0.5, x.Grad(), 1e-12) // -8/x²

	s, err := x.Div(autodiff.Scalar(8))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, s.Data(), 1e-12)
}

// TestActivations tests forward values and derivatives at known points.
func TestActivations(t *testing.T) {
	tests := []struct {
		name     string
		x        float64
		apply    func(autodiff.Value) autodiff.Value
		want     float64
		wantGrad float64
	}{
		{"tanh(0)", 0, autodiff.Value.Tanh, 0, 1},
		{"tanh(1)", 1, autodiff.Value.Tanh, math.Tanh(1), 1 - math.Tanh(1)*math.Tanh(1)},
		{"tanh(400)", 400, autodiff.Value.Tanh, 1, 0},
		{"tanh(-400)", -400, autodiff.Value.Tanh, -1, 0},
		{"relu(2)", 2, autodiff.Value.ReLU, 2, 1},
		{"relu(-2)", -2, autodiff.Value.ReLU, 0, 0},
		{"relu(0)", 0, autodiff.Value.ReLU, 0, 0},
		{"sigmoid(0)", 0, autodiff.Value.Sigmoid, 0.5, 0.25},
		{"sigmoid(-800)", -800, autodiff.Value.Sigmoid, 0, 0},
		{"exp(0)", 0, autodiff.Value.Exp, 1, 1},
		{"exp(2)", 2, autodiff.Value.Exp, math.Exp(2), math.Exp(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := autodiff.NewGraph()
			x := g.Leaf(tt.x)
			out := tt.apply(x)
			out.Backward()
			assert.InDelta(t, tt.want, out.Data(), 1e-12)
			assert.InDelta(t, tt.wantGrad, x.Grad(), 1e-12)
		})
	}
}

// TestPow tests forward and backward of constant powers.
func TestPow(t *testing.T) {
	g := autodiff.NewGraph()
	x := g.Leaf(3)

	y, err := x.Pow(2)
	require.NoError(t, err)
	y.Backward()

	assert.Equal(t, 9.0, y.Data())
	assert.Equal(t, 6.0, x.Grad())
	assert.Equal(t, autodiff.OpPow, y.Op())
	assert.Equal(t, 2.0, y.Exponent())

	n := g.Leaf(-2)
	cube, err := n.Pow(3)
	require.NoError(t, err)
	assert.Equal(t, -8.0, cube.Data())
}

// TestLog tests forward and backward of the natural log.
func TestLog(t *testing.T) {
	g := autodiff.NewGraph()
	x := g.Leaf(math.E)

	y, err := x.Log()
	require.NoError(t, err)
	y.Backward()

	assert.InDelta(t, 1.0, y.Data(), 1e-12)
	assert.InDelta(t, 1/math.E, x.Grad(), 1e-12)
}

// TestDomainErrors tests that invalid inputs fail without touching the graph.
func TestDomainErrors(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		run  func(g *autodiff.Graph, x autodiff.Value) (autodiff.Value, error)
		want error
	}{
		{"log(0)", 0, func(_ *autodiff.Graph, x autodiff.Value) (autodiff.Value, error) { return x.Log() }, autodiff.ErrDomain},
		{"log(-1)", -1, func(_ *autodiff.Graph, x autodiff.Value) (autodiff.Value, error) { return x.Log() }, autodiff.ErrDomain},
		{"log(NaN)", math.NaN(), func(_ *autodiff.Graph, x autodiff.Value) (autodiff.Value, error) { return x.Log() }, autodiff.ErrDomain},
		{"log(s0)", 5, func(g *autodiff.Graph, _ autodiff.Value) (autodiff.Value, error) { return g.Log(autodiff.Scalar(0)) }, autodiff.ErrDomain},
		{"1/0", 0, func(_ *autodiff.Graph, x autodiff.Value) (autodiff.Value, error) { return x.RDiv(autodiff.Scalar(1)) }, autodiff.ErrDomain},
		{"x/s0", 5, func(_ *autodiff.Graph, x autodiff.Value) (autodiff.Value, error) { return x.Div(autodiff.Scalar(0)) }, autodiff.ErrDomain},
		{"0^-1", 0, func(_ *autodiff.Graph, x autodiff.Value) (autodiff.Value, error) { return x.Pow(-1) }, autodiff.ErrDomain},
		{"(-2)^0.5", -2, func(_ *autodiff.Graph, x autodiff.Value) (autodiff.Value, error) { return x.Pow(0.5) }, autodiff.ErrDomain},
		{"x^NaN", 2, func(_ *autodiff.Graph, x autodiff.Value) (autodiff.Value, error) { return x.Pow(math.NaN()) }, autodiff.ErrInvalidExponent},
		{"x^Inf", 2, func(_ *autodiff.Graph, x autodiff.Value) (autodiff.Value, error) { return x.Pow(math.Inf(1)) }, autodiff.ErrInvalidExponent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := autodiff.NewGraph()
			x := g.Leaf(tt.x)
			x.SetGrad(0.25)
			before := g.Len()

			_, err := tt.run(g, x)

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, before, g.Len(), "failed op must not grow the graph")
			assert.Equal(t, 0.25, x.Grad())
		})
	}
}

// TestDomainError_As tests that the typed error carries its details.
func TestDomainError_As(t *testing.T) {
	g := autodiff.NewGraph()
	_, err := g.Leaf(-4).Log()

	var de *autodiff.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "log", de.Op)
	assert.Equal(t, -4.0, de.Input)
	assert.Contains(t, err.Error(), "log(-4)")
}

// TestSetData tests that only leaves accept new values.
func TestSetData(t *testing.T) {
	g := autodiff.NewGraph()
	x := g.Leaf(1)
	y := x.Exp()

	require.NoError(t, x.SetData(2))
	assert.Equal(t, 2.0, x.Data())

	err := y.SetData(5)
	assert.True(t, errors.Is(err, autodiff.ErrNotLeaf))
	assert.InDelta(t, math.E, y.Data(), 1e-12)
}

// TestGraph_MarkRelease tests dropping transient nodes.
func TestGraph_MarkRelease(t *testing.T) {
	g := autodiff.NewGraph()
	w := g.Leaf(0.5)
	m := g.Mark()

	loss := w.Mul(autodiff.Scalar(4)).Add(autodiff.Scalar(1))
	loss.Backward()
	assert.Equal(t, 4.0, w.Grad())
	assert.Equal(t, 5, g.Len())

	g.Release(m)

	assert.Equal(t, 1, g.Len())
	assert.Equal(t, 0.5, w.Data())
	assert.Equal(t, 4.0, w.Grad())
	assert.Panics(t, func() { _ = loss.Data() })
	assert.Panics(t, func() { g.Release(autodiff.Mark(7)) })
}

// TestGraph_Mismatch tests that mixing graphs is rejected.
func TestGraph_Mismatch(t *testing.T) {
	a := autodiff.NewGraph().Leaf(1)
	b := autodiff.NewGraph().Leaf(2)

	assert.Panics(t, func() { a.Add(b) })
}

// TestOperands tests the recorded structure of composite operations.
func TestOperands(t *testing.T) {
	g := autodiff.NewGraph()
	a, b := g.Leaf(1), g.Leaf(2)

	sum := a.Add(b)
	assert.Equal(t, []autodiff.Value{a, b}, sum.Operands())
	assert.True(t, a.IsLeaf())
	assert.False(t, sum.IsLeaf())
	assert.Empty(t, a.Operands())

	// Sub is a + (b * -1).
	diff := a.Sub(b)
	ops := diff.Operands()
	require.Len(t, ops, 2)
	assert.Equal(t, a, ops[0])
	assert.Equal(t, autodiff.OpMul, ops[1].Op())
}

// TestString tests the textual form of a Value.
func TestString(t *testing.T) {
	g := autodiff.NewGraph()
	x := g.LeafLabeled(2.5, "x")
	x.SetGrad(1)

	assert.Equal(t, "Value(x | Data=2.5, Grad=1)", x.String())
	assert.Equal(t, "y", x.Tanh().SetLabel("y").Label())
	assert.Equal(t, "sigmoid", autodiff.OpSigmoid.String())
	assert.Equal(t, "+", autodiff.OpAdd.String())
}

// TestSum tests the left fold used by neurons and losses.
func TestSum(t *testing.T) {
	g := autodiff.NewGraph()
	xs := g.Leaves(1, 2, 3)

	s := g.Sum(autodiff.Scalar(10), xs[0], xs[1], xs[2], autodiff.Scalar(4))
	s.Backward()

	assert.Equal(t, 20.0, s.Data())
	for _, x := range xs {
		assert.Equal(t, 1.0, x.Grad())
	}
	assert.Equal(t, 10.0, g.Sum(autodiff.Scalar(10)).Data())
}
