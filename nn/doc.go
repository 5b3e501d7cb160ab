// Copyright 2025 Retrograd Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neurons, layers and multi-layer perceptrons built on
// scalar autodiff values.
//
// # Overview
//
// This package contains:
//   - Neuron: act(w·x + b) over any number of inputs
//   - Layer: neurons sharing the same inputs
//   - MLP: layers chained output to input
//   - Losses: MSE, binary cross-entropy, hinge and an L2 penalty
//
// Every component implements Module, so optimizers can collect parameters
// with Parameters() and reset gradients with ZeroGrad().
//
// # Basic Usage
//
//	import (
//	    "github.com/retrograd-ml/retrograd/autodiff"
//	    "github.com/retrograd-ml/retrograd/nn"
//	    "github.com/retrograd-ml/retrograd/optim"
//	)
//
//	func main() {
//	    g := autodiff.NewGraph()
//	    model := nn.NewMLP(g, 2, []int{16, 16, 1}, nn.NewRand(42))
//	    opt := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.01})
//	    mark := g.Mark()
//
//	    for epoch := range 100 {
//	        scores := make([]autodiff.Value, len(xs))
//	        for i, x := range xs {
//	            scores[i], _ = model.ForwardScalarWith(nn.Inputs(x...), nn.ReLU, nn.Identity)
//	        }
//	        loss, _ := nn.HingeLoss(g, scores, ys)
//
//	        opt.ZeroGrad()
//	        loss.Backward()
//	        opt.Step()
//	        g.Release(mark)
//	    }
//	}
//
// # Parameter order
//
// Parameters are listed layer by layer, neuron by neuron, weights before
// bias, which is also their creation order in the graph.
//
// # Shapes
//
// Forward returns a *ShapeError (matching ErrShape) when the input width
// does not match, before recording any node.
package nn
