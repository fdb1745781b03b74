// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the neural network building blocks of the
// classifier: Linear, activations, Flatten, Softmax and Sequential.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/quickstart/backend/cpu"
//	    "github.com/born-ml/quickstart/nn"
//	    "github.com/born-ml/quickstart/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    model := nn.NewSequential[*cpu.Backend](
//	        nn.NewFlatten[*cpu.Backend](),
//	        nn.NewLinear(784, 512, backend),
//	        nn.NewReLU[*cpu.Backend](),
//	        nn.NewLinear(512, 10, backend),
//	    )
//
//	    x := tensor.Zeros[float32](tensor.Shape{1, 28, 28}, backend)
//	    logits, err := nn.Run(model, x)
//	}
//
// # Parameters
//
// NamedParameters lists every weight and bias with its dotted name
// ("1.weight", "1.bias", ...). StateDict returns the same tensors keyed by
// name, and LoadStateDict copies values back in after checking shapes.
package nn

import (
	"github.com/born-ml/quickstart/internal/nn"
	"github.com/born-ml/quickstart/tensor"
)

// Module is the interface implemented by every layer.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter is a named weight or bias tensor.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NamedParameter pairs a parameter with its dotted path.
type NamedParameter[B tensor.Backend] = nn.NamedParameter[B]

// Layer types.
type (
	Linear[B tensor.Backend]     = nn.Linear[B]
	ReLU[B tensor.Backend]       = nn.ReLU[B]
	Sigmoid[B tensor.Backend]    = nn.Sigmoid[B]
	Tanh[B tensor.Backend]       = nn.Tanh[B]
	Softmax[B tensor.Backend]    = nn.Softmax[B]
	Flatten[B tensor.Backend]    = nn.Flatten[B]
	Sequential[B tensor.Backend] = nn.Sequential[B]
)

// NewLinear creates a fully connected layer computing x @ W.T + b.
// Weights use Xavier initialization and biases start at zero.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// NewLinearNoBias creates a fully connected layer without bias.
func NewLinearNoBias[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinearNoBias(inFeatures, outFeatures, backend)
}

// NewReLU creates a ReLU activation.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// NewSigmoid creates a Sigmoid activation.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return nn.NewSigmoid[B]()
}

// NewTanh creates a Tanh activation.
func NewTanh[B tensor.Backend]() *Tanh[B] {
	return nn.NewTanh[B]()
}

// NewSoftmax creates a softmax over dim.
func NewSoftmax[B tensor.Backend](dim int) *Softmax[B] {
	return nn.NewSoftmax[B](dim)
}

// NewFlatten creates a Flatten over dims 1..-1.
func NewFlatten[B tensor.Backend]() *Flatten[B] {
	return nn.NewFlatten[B]()
}

// NewFlattenRange creates a Flatten over dims start..end inclusive.
func NewFlattenRange[B tensor.Backend](start, end int) *Flatten[B] {
	return nn.NewFlattenRange[B](start, end)
}

// NewSequential chains modules in order.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Run evaluates module on input, returning shape mismatches as errors
// wrapping tensor.ErrShapeMismatch.
func Run[B tensor.Backend](module Module[B], input *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	return nn.Run(module, input)
}

// NamedParameters returns module's parameters with dotted names in
// forward order.
func NamedParameters[B tensor.Backend](module Module[B]) []NamedParameter[B] {
	return nn.NamedParameters(module)
}

// CountParameters returns the number of scalar parameters in module.
func CountParameters[B tensor.Backend](module Module[B]) int {
	return nn.CountParameters(module)
}

// Seed makes weight initialization reproducible.
func Seed(seed int64) {
	nn.Seed(seed)
}
