// Package autodiff implements scalar reverse-mode automatic differentiation.
//
// Every scalar lives as a node in a Graph arena and is addressed through a
// Value handle. Operations on Values compute the forward result immediately
// and append a new node that remembers its operands and operation tag.
// Backward walks the reachable subgraph in reverse topological order and
// accumulates gradients into every contributing node.
//
// Architecture:
//   - Graph: append-only arena of nodes, indexed by NodeID
//   - Value: (graph, id) handle, the public face of a node
//   - Op: tag selecting the local derivative rule applied during Backward
//   - Operand: a Value or a Scalar literal promoted to a leaf on use
//
// Usage:
//
//	g := autodiff.NewGraph()
//	a := g.Leaf(2)
//	b := g.Leaf(-3)
//	c := g.Leaf(10)
//	e := a.Mul(b).Add(c) // e = a*b + c = 4
//
//	e.Backward()
//	fmt.Println(a.Grad(), b.Grad(), c.Grad()) // -3 2 1
package autodiff

// NodeID is the stable index of a node inside its Graph.
type NodeID int32

// node is one arena slot. Operands always have smaller ids than the node
// that uses them, so the operand relation cannot form a cycle.
type node struct {
	data     float64
	grad     float64
	op       Op
	arity    uint8
	operands [2]NodeID
	exponent float64 // OpPow only
	label    string
}

// Graph owns every node built by a computation.
//
// A Graph is not safe for concurrent use. Callers that need parallelism
// build one Graph per goroutine and combine gradients themselves.
type Graph struct {
	nodes []node
}

// Mark is a position in a Graph's arena returned by Graph.Mark.
type Mark int

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make([]node, 0, 64), // Pre-allocate for common case
	}
}

// Leaf creates a node with no operands holding data.
func (g *Graph) Leaf(data float64) Value {
	return g.push(node{data: data, op: OpLeaf})
}

// LeafLabeled creates a leaf node with a cosmetic label.
func (g *Graph) LeafLabeled(data float64, label string) Value {
	return g.push(node{data: data, op: OpLeaf, label: label})
}

// Leaves creates one leaf per element of data, in order.
func (g *Graph) Leaves(data ...float64) []Value {
	out := make([]Value, len(data))
	for i, d := range data {
		out[i] = g.Leaf(d)
	}
	return out
}

// Len returns the number of nodes in the arena.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Mark returns the current end of the arena.
//
// Nodes created before the mark survive a later Release(mark). A training
// loop creates its parameters, takes a mark, and releases back to it after
// every step so that transient nodes do not pile up.
func (g *Graph) Mark() Mark {
	return Mark(len(g.nodes))
}

// Release drops every node created after m. Handles to dropped nodes become
// invalid and panic on use.
func (g *Graph) Release(m Mark) {
	if int(m) < 0 || int(m) > len(g.nodes) {
		panic("autodiff: release mark out of range")
	}
	clear(g.nodes[m:])
	g.nodes = g.nodes[:m]
}

// ZeroGrad resets the gradient of every node in the arena.
func (g *Graph) ZeroGrad() {
	for i := range g.nodes {
		g.nodes[i].grad = 0
	}
}

func (g *Graph) push(n node) Value {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	return Value{g: g, id: id}
}

func (g *Graph) at(id NodeID) *node {
	return &g.nodes[id]
}
