package autodiff

import "math"

// Backward computes ∂v/∂n for every node n reachable from v.
//
// Algorithm:
//  1. Build the depth-first post-order of the subgraph reachable from v
//     (operands before the node that uses them, v last)
//  2. Seed v's gradient with 1
//  3. Walk the order in reverse, applying each node's local rule, so a
//     node's gradient is complete before it is pushed to its operands
//
// Gradients are accumulated, never overwritten: a node used by several
// downstream nodes receives the sum of their contributions, and calling
// Backward twice without a ZeroGrad in between adds onto the first pass.
func (v Value) Backward() {
	order := v.g.topo(v.id)

	v.g.at(v.id).grad = 1
	for i := len(order) - 1; i >= 0; i-- {
		v.g.propagate(order[i])
	}
}

// TopoOrder returns the depth-first post-order of the subgraph reachable
// from v. Operands are visited in the order they were given, so the result
// is the same for the same graph on every call.
func (v Value) TopoOrder() []Value {
	ids := v.g.topo(v.id)
	out := make([]Value, len(ids))
	for i, id := range ids {
		out[i] = Value{g: v.g, id: id}
	}
	return out
}

// topo is an iterative post-order DFS. An explicit stack keeps long
// chains (e.g. a sum over thousands of terms) off the goroutine stack.
func (g *Graph) topo(root NodeID) []NodeID {
	type frame struct {
		id   NodeID
		next uint8 // index of the next operand to visit
	}

	// Operands always precede their users in the arena, so root+1 slots
	// cover every reachable node.
	visited := make([]bool, root+1)
	order := make([]NodeID, 0, root+1)
	stack := []frame{{id: root}}
	visited[root] = true

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		n := g.at(top.id)
		if top.next < n.arity {
			child := n.operands[top.next]
			top.next++
			if !visited[child] {
				visited[child] = true
				stack = append(stack, frame{id: child})
			}
			continue
		}
		order = append(order, top.id)
		stack = stack[:len(stack)-1]
	}
	return order
}

// propagate applies the local derivative rule of node id to its operands.
func (g *Graph) propagate(id NodeID) {
	n := g.at(id)
	switch n.op {
	case OpLeaf:
		// Nothing to push.

	case OpAdd:
		g.at(n.operands[0]).grad += n.grad
		g.at(n.operands[1]).grad += n.grad

	case OpMul:
		a, b := g.at(n.operands[0]), g.at(n.operands[1])
		// Read both values before writing: a and b may be the same node.
		ad, bd := a.data, b.data
		a.grad += bd * n.grad
		b.grad += ad * n.grad

	case OpPow:
		a := g.at(n.operands[0])
		a.grad += n.exponent * math.Pow(a.data, n.exponent-1) * n.grad

	case OpExp:
		g.at(n.operands[0]).grad += n.data * n.grad

	case OpLog:
		a := g.at(n.operands[0])
		a.grad += n.grad / a.data

	case OpTanh:
		g.at(n.operands[0]).grad += (1 - n.data*n.data) * n.grad

	case OpReLU:
		if n.data > 0 {
			g.at(n.operands[0]).grad += n.grad
		}

	case OpSigmoid:
		g.at(n.operands[0]).grad += n.data * (1 - n.data) * n.grad

	default:
		panic("autodiff: unknown op " + n.op.String())
	}
}
