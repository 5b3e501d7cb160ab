// Copyright 2025 Retrograd Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training neural networks.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// Optimizers hold the parameter handles they were built with and read each
// parameter's gradient directly, so Step takes no arguments.
//
// # Training Loop Pattern
//
//	g := autodiff.NewGraph()
//	model := nn.NewMLP(g, 2, []int{16, 16, 1}, nn.NewRand(42))
//	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.01})
//	mark := g.Mark()
//
//	for epoch := range numEpochs {
//	    // 1. Forward pass
//	    loss := lossFn(model)
//
//	    // 2. Zero gradients
//	    optimizer.ZeroGrad()
//
//	    // 3. Backward pass
//	    loss.Backward()
//
//	    // 4. Update parameters
//	    optimizer.Step()
//
//	    // 5. Drop the step's intermediate nodes
//	    g.Release(mark)
//	}
package optim
