// Copyright 2025 Retrograd Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand/v2"

	"github.com/retrograd-ml/retrograd/autodiff"
	"github.com/retrograd-ml/retrograd/internal/nn"
)

// Module is implemented by every component that owns parameters.
type Module = nn.Module

// Activation selects the nonlinearity applied to a neuron's output.
type Activation = nn.Activation

// Activations.
const (
	Identity = nn.Identity
	Tanh     = nn.Tanh
	Sigmoid  = nn.Sigmoid
	ReLU     = nn.ReLU
)

// ParseActivation maps a name ("tanh", "sigmoid", "relu", "none") to an Activation.
func ParseActivation(name string) (Activation, error) {
	return nn.ParseActivation(name)
}

// ShapeError reports an input slice of the wrong width.
type ShapeError = nn.ShapeError

// Errors.
var (
	ErrShape             = nn.ErrShape
	ErrUnknownActivation = nn.ErrUnknownActivation
)

// Inputs converts raw numbers into operands for Forward.
func Inputs(xs ...float64) []autodiff.Operand {
	return nn.Inputs(xs...)
}

// Operands converts values into operands for Forward.
func Operands(vs []autodiff.Value) []autodiff.Operand {
	return nn.Operands(vs)
}

// Initialization

// Initializer returns the starting value of the next parameter.
type Initializer = nn.Initializer

// Uniform draws values from U(lo, hi) using rng.
func Uniform(lo, hi float64, rng *rand.Rand) Initializer {
	return nn.Uniform(lo, hi, rng)
}

// Xavier draws values from the Glorot uniform range for a layer.
func Xavier(fanIn, fanOut int, rng *rand.Rand) Initializer {
	return nn.Xavier(fanIn, fanOut, rng)
}

// Constant returns c for every parameter.
func Constant(c float64) Initializer {
	return nn.Constant(c)
}

// NewRand returns a deterministic generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return nn.NewRand(seed)
}

// Components

// Neuron computes act(w·x + b).
type Neuron = nn.Neuron

// NewNeuron creates a neuron with parameters drawn from U(-1, 1).
//
// Example:
//
//	g := autodiff.NewGraph()
//	n := nn.NewNeuron(g, 3, nn.NewRand(1))
//	out, err := n.Forward(nn.Inputs(1, 2, 3), nn.Tanh)
func NewNeuron(g *autodiff.Graph, nInputs int, rng *rand.Rand) *Neuron {
	return nn.NewNeuron(g, nInputs, rng)
}

// NewNeuronWithInit creates a neuron whose parameters come from init.
func NewNeuronWithInit(g *autodiff.Graph, nInputs int, init Initializer) *Neuron {
	return nn.NewNeuronWithInit(g, nInputs, init)
}

// Layer is a row of neurons sharing the same inputs.
type Layer = nn.Layer

// NewLayer creates nOutputs neurons with nInputs inputs each.
func NewLayer(g *autodiff.Graph, nInputs, nOutputs int, rng *rand.Rand) *Layer {
	return nn.NewLayer(g, nInputs, nOutputs, rng)
}

// NewLayerWithInit creates a layer whose parameters come from init.
func NewLayerWithInit(g *autodiff.Graph, nInputs, nOutputs int, init Initializer) *Layer {
	return nn.NewLayerWithInit(g, nInputs, nOutputs, init)
}

// MLP is a stack of layers.
type MLP = nn.MLP

// NewMLP creates layers nInputs → layerSizes[0] → ... → layerSizes[n-1].
//
// Example:
//
//	g := autodiff.NewGraph()
//	mlp := nn.NewMLP(g, 3, []int{4, 4, 1}, nn.NewRand(42))
//	score, err := mlp.ForwardScalarWith(nn.Inputs(2, 3, -1), nn.Tanh, nn.Identity)
func NewMLP(g *autodiff.Graph, nInputs int, layerSizes []int, rng *rand.Rand) *MLP {
	return nn.NewMLP(g, nInputs, layerSizes, rng)
}

// NewMLPWithInit creates an MLP; init is called once per layer with its fan-in and fan-out.
func NewMLPWithInit(g *autodiff.Graph, nInputs int, layerSizes []int, init func(fanIn, fanOut int) Initializer) *MLP {
	return nn.NewMLPWithInit(g, nInputs, layerSizes, init)
}

// Losses

// MSELoss returns mean((pred - target)²).
func MSELoss(g *autodiff.Graph, predictions []autodiff.Value, targets []float64) (autodiff.Value, error) {
	return nn.MSELoss(g, predictions, targets)
}

// BCELoss returns the binary cross-entropy of probabilities against 0/1 targets.
func BCELoss(g *autodiff.Graph, probabilities []autodiff.Value, targets []float64) (autodiff.Value, error) {
	return nn.BCELoss(g, probabilities, targets)
}

// HingeLoss returns mean(relu(1 - target·score)) for ±1 targets.
func HingeLoss(g *autodiff.Graph, scores []autodiff.Value, targets []float64) (autodiff.Value, error) {
	return nn.HingeLoss(g, scores, targets)
}

// L2Penalty returns alpha·Σp².
func L2Penalty(g *autodiff.Graph, params []autodiff.Value, alpha float64) autodiff.Value {
	return nn.L2Penalty(g, params, alpha)
}
