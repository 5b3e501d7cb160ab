package autodiff

import (
	"fmt"

	"github.com/pkg/errors"
)

// Value is a handle to a node in a Graph.
//
// Values are small and meant to be passed by value. Two Values are the same
// node when they compare equal with ==.
type Value struct {
	g  *Graph
	id NodeID
}

// Operand is anything an operation accepts as an input: a Value, or a
// Scalar literal that is promoted to a fresh leaf when the operation runs.
type Operand interface {
	resolve(g *Graph) Value
	scalar() float64
}

// Scalar is a plain number used as an operand.
//
//	y := x.Mul(autodiff.Scalar(2)).Add(autodiff.Scalar(1))
type Scalar float64

func (s Scalar) resolve(g *Graph) Value {
	return g.Leaf(float64(s))
}

func (s Scalar) scalar() float64 {
	return float64(s)
}

func (v Value) scalar() float64 {
	return v.Data()
}

func (v Value) resolve(g *Graph) Value {
	if v.g != g {
		panic("autodiff: operands belong to different graphs")
	}
	return v
}

// Graph returns the graph that owns v.
func (v Value) Graph() *Graph {
	return v.g
}

// ID returns the arena index of v.
func (v Value) ID() NodeID {
	return v.id
}

// Data returns the forward value.
func (v Value) Data() float64 {
	return v.g.at(v.id).data
}

// Grad returns the accumulated gradient.
func (v Value) Grad() float64 {
	return v.g.at(v.id).grad
}

// SetGrad overwrites the accumulated gradient.
func (v Value) SetGrad(grad float64) {
	v.g.at(v.id).grad = grad
}

// ZeroGrad resets the accumulated gradient to 0.
func (v Value) ZeroGrad() {
	v.g.at(v.id).grad = 0
}

// SetData replaces the value of a leaf. Optimizers use it to apply updates
// to parameters. Results of operations are immutable and return ErrNotLeaf.
func (v Value) SetData(data float64) error {
	n := v.g.at(v.id)
	if n.op != OpLeaf {
		return errors.Wrapf(ErrNotLeaf, "set data on %s node %d", n.op, v.id)
	}
	n.data = data
	return nil
}

// Op returns the operation that produced v.
func (v Value) Op() Op {
	return v.g.at(v.id).op
}

// IsLeaf reports whether v has no operands.
func (v Value) IsLeaf() bool {
	return v.g.at(v.id).arity == 0
}

// Exponent returns the constant exponent of an OpPow node and 0 otherwise.
func (v Value) Exponent() float64 {
	return v.g.at(v.id).exponent
}

// Operands returns the direct inputs of v, in the order they were given.
func (v Value) Operands() []Value {
	n := v.g.at(v.id)
	out := make([]Value, n.arity)
	for i := range out {
		out[i] = Value{g: v.g, id: n.operands[i]}
	}
	return out
}

// Label returns the cosmetic label of v.
func (v Value) Label() string {
	return v.g.at(v.id).label
}

// SetLabel sets the cosmetic label and returns v for chaining.
func (v Value) SetLabel(label string) Value {
	v.g.at(v.id).label = label
	return v
}

// String implements fmt.Stringer.
func (v Value) String() string {
	n := v.g.at(v.id)
	return fmt.Sprintf("Value(%s | Data=%g, Grad=%g)", n.label, n.data, n.grad)
}
