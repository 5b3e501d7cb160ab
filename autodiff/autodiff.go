// Copyright 2025 Retrograd Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides scalar reverse-mode automatic differentiation.
//
// Every Value lives in a Graph. Operations record a new node holding the
// result together with the op tag and operand handles; Backward then walks
// the graph in reverse topological order and accumulates d(root)/d(node)
// into each node's gradient.
//
// Example:
//
//	import "github.com/retrograd-ml/retrograd/autodiff"
//
//	func main() {
//	    g := autodiff.NewGraph()
//	    a, b := g.Leaf(2), g.Leaf(-3)
//	    c := a.Mul(b).Add(autodiff.Scalar(10)) // 4
//	    c.Backward()
//	    fmt.Println(a.Grad(), b.Grad())       // -3 2
//	}
//
// Backward only seeds the root; every other gradient is added to, never
// reset, so call Graph.ZeroGrad between independent passes. Use Graph.Mark
// and Graph.Release to drop the nodes a training step creates once its
// update has been applied.
package autodiff

import (
	"github.com/retrograd-ml/retrograd/internal/autodiff"
)

// Graph is an arena of nodes.
type Graph = autodiff.Graph

// Value is a handle to a node in a Graph.
type Value = autodiff.Value

// Operand is accepted by every operation: a Value or a Scalar constant.
type Operand = autodiff.Operand

// Scalar is a constant operand, promoted to a fresh leaf when used.
type Scalar = autodiff.Scalar

// Mark records the graph length for a later Release.
type Mark = autodiff.Mark

// NodeID is the arena index of a node.
type NodeID = autodiff.NodeID

// Op tags the operation that produced a node.
type Op = autodiff.Op

// Operation tags.
const (
	OpLeaf    = autodiff.OpLeaf
	OpAdd     = autodiff.OpAdd
	OpMul     = autodiff.OpMul
	OpPow     = autodiff.OpPow
	OpExp     = autodiff.OpExp
	OpLog     = autodiff.OpLog
	OpTanh    = autodiff.OpTanh
	OpReLU    = autodiff.OpReLU
	OpSigmoid = autodiff.OpSigmoid
)

// DomainError reports an input outside an operation's domain.
type DomainError = autodiff.DomainError

// Errors.
var (
	ErrDomain          = autodiff.ErrDomain
	ErrInvalidExponent = autodiff.ErrInvalidExponent
	ErrNotLeaf         = autodiff.ErrNotLeaf
)

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return autodiff.NewGraph()
}
