package autodiff

import (
	"math"

	"github.com/pkg/errors"
)

// Op identifies the local derivative rule of a node.
type Op uint8

// Supported operations. Negation, subtraction and division are composed
// from these and have no tag of their own.
const (
	OpLeaf Op = iota
	OpAdd
	OpMul
	OpPow
	OpExp
	OpLog
	OpTanh
	OpReLU
	OpSigmoid
)

var opNames = [...]string{
	OpLeaf:    "leaf",
	OpAdd:     "+",
	OpMul:     "*",
	OpPow:     "pow",
	OpExp:     "exp",
	OpLog:     "log",
	OpTanh:    "tanh",
	OpReLU:    "relu",
	OpSigmoid: "sigmoid",
}

// String returns the short operation name.
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "op(?)"
}

// Add returns a + b.
//
// Backward: ∂out/∂a = 1, ∂out/∂b = 1.
func (g *Graph) Add(a, b Operand) Value {
	x, y := a.resolve(g), b.resolve(g)
	return g.binary(OpAdd, x, y, x.Data()+y.Data())
}

// Mul returns a · b.
//
// Backward: ∂out/∂a = b, ∂out/∂b = a.
func (g *Graph) Mul(a, b Operand) Value {
	x, y := a.resolve(g), b.resolve(g)
	return g.binary(OpMul, x, y, x.Data()*y.Data())
}

// Neg returns -a, built as a · (-1).
func (g *Graph) Neg(a Operand) Value {
	return g.Mul(a, Scalar(-1))
}

// Sub returns a - b, built as a + (-b).
func (g *Graph) Sub(a, b Operand) Value {
	y := b.resolve(g)
	return g.Add(a, g.Neg(y))
}

// Sum returns start + terms[0] + terms[1] + ..., folded left to right.
func (g *Graph) Sum(start Operand, terms ...Operand) Value {
	acc := start.resolve(g)
	for _, t := range terms {
		acc = g.Add(acc, t)
	}
	return acc
}

// Pow returns a^p for a constant exponent p.
//
// Backward: ∂out/∂a = p · a^(p-1).
//
// Returns ErrInvalidExponent when p is NaN or infinite, and a *DomainError
// when a is zero with a negative exponent, or negative with a non-integer
// exponent. On error no node is created.
func (g *Graph) Pow(a Operand, p float64) (Value, error) {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return Value{}, errors.Wrapf(ErrInvalidExponent, "pow(%g)", p)
	}
	base := a.scalar()
	if base == 0 && p < 0 {
		return Value{}, &DomainError{Op: "pow", Input: base, Reason: "zero base with negative exponent"}
	}
	if base < 0 && p != math.Trunc(p) {
		return Value{}, &DomainError{Op: "pow", Input: base, Reason: "negative base with non-integer exponent"}
	}

	x := a.resolve(g)
	out := g.unary(OpPow, x, math.Pow(base, p))
	g.at(out.id).exponent = p
	return out, nil
}

// Div returns a / b, built as a · b^(-1).
//
// Returns a *DomainError when b is zero. On error no node is created.
func (g *Graph) Div(a, b Operand) (Value, error) {
	if b.scalar() == 0 {
		return Value{}, &DomainError{Op: "div", Input: 0, Reason: "division by zero"}
	}
	x := a.resolve(g)
	inv, err := g.Pow(b, -1)
	if err != nil {
		return Value{}, err
	}
	return g.Mul(x, inv), nil
}

// Exp returns e^a.
//
// Backward: ∂out/∂a = out.
func (g *Graph) Exp(a Operand) Value {
	x := a.resolve(g)
	return g.unary(OpExp, x, math.Exp(x.Data()))
}

// Log returns the natural logarithm of a.
//
// Backward: ∂out/∂a = 1/a.
//
// Returns a *DomainError when a is not positive. On error no node is created.
func (g *Graph) Log(a Operand) (Value, error) {
	in := a.scalar()
	if !(in > 0) {
		return Value{}, &DomainError{Op: "log", Input: in, Reason: "input must be positive"}
	}
	x := a.resolve(g)
	return g.unary(OpLog, x, math.Log(in)), nil
}

// Tanh returns the hyperbolic tangent of a, computed as (e^2x - 1)/(e^2x + 1).
//
// Backward: ∂out/∂a = 1 - out².
func (g *Graph) Tanh(a Operand) Value {
	x := a.resolve(g)
	return g.unary(OpTanh, x, tanh(x.Data()))
}

// ReLU returns max(0, a).
//
// Backward: ∂out/∂a = 1 if out > 0, else 0.
func (g *Graph) ReLU(a Operand) Value {
	x := a.resolve(g)
	return g.unary(OpReLU, x, math.Max(0, x.Data()))
}

// Sigmoid returns 1 / (1 + e^-a).
//
// Backward: ∂out/∂a = out · (1 - out).
func (g *Graph) Sigmoid(a Operand) Value {
	x := a.resolve(g)
	return g.unary(OpSigmoid, x, sigmoid(x.Data()))
}

func (g *Graph) unary(op Op, x Value, data float64) Value {
	return g.push(node{
		data:     data,
		op:       op,
		arity:    1,
		operands: [2]NodeID{x.id},
	})
}

func (g *Graph) binary(op Op, x, y Value, data float64) Value {
	return g.push(node{
		data:     data,
		op:       op,
		arity:    2,
		operands: [2]NodeID{x.id, y.id},
	})
}

// tanh saturates to ±1 where e^2x overflows and the ratio would be Inf/Inf.
func tanh(x float64) float64 {
	e2 := math.Exp(2 * x)
	if math.IsInf(e2, 1) {
		return 1
	}
	return (e2 - 1) / (e2 + 1)
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// Method forms. Each one forwards to the Graph that owns v.

// Add returns v + o.
func (v Value) Add(o Operand) Value { return v.g.Add(v, o) }

// Mul returns v · o.
func (v Value) Mul(o Operand) Value { return v.g.Mul(v, o) }

// Sub returns v - o.
func (v Value) Sub(o Operand) Value { return v.g.Sub(v, o) }

// RSub returns o - v.
func (v Value) RSub(o Operand) Value { return v.g.Sub(o, v) }

// Neg returns -v.
func (v Value) Neg() Value { return v.g.Neg(v) }

// Pow returns v^p.
func (v Value) Pow(p float64) (Value, error) { return v.g.Pow(v, p) }

// Div returns v / o.
func (v Value) Div(o Operand) (Value, error) { return v.g.Div(v, o) }

// RDiv returns o / v.
func (v Value) RDiv(o Operand) (Value, error) { return v.g.Div(o, v) }

// Exp returns e^v.
func (v Value) Exp() Value { return v.g.Exp(v) }

// Log returns ln(v).
func (v Value) Log() (Value, error) { return v.g.Log(v) }

// Tanh returns tanh(v).
func (v Value) Tanh() Value { return v.g.Tanh(v) }

// ReLU returns max(0, v).
func (v Value) ReLU() Value { return v.g.ReLU(v) }

// Sigmoid returns 1 / (1 + e^-v).
func (v Value) Sigmoid() Value { return v.g.Sigmoid(v) }
