// Package nn implements the neural network modules of the classifier.
//
// This package provides:
//   - Module interface: Base interface for all NN components
//   - Parameter: Named weight or bias tensor owned by a layer
//   - Linear: Fully connected layer
//   - Activations: ReLU, Sigmoid, Tanh
//   - Flatten: Collapses trailing dimensions into one
//   - Softmax: Normalizes logits into probabilities
//   - Sequential: Ordered container threading an input through its modules
//
// Modules are composed explicitly; there is no reflection-based discovery
// of sub-layers. Parameters are reached through Parameters, StateDict and
// NamedParameters.
package nn

import (
	"github.com/born-ml/quickstart/internal/tensor"
)

// Module is the interface implemented by every layer.
//
// Modules can be composed to build complex architectures:
//
//	model := nn.NewSequential[B](
//	    nn.NewFlatten[B](),
//	    nn.NewLinear(784, 512, backend),
//	    nn.NewReLU[B](),
//	    nn.NewLinear(512, 10, backend),
//	)
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module for the given input.
	//
	// Forward never modifies its input. An input with the wrong shape
	// panics with a *tensor.ShapeError; use Run to get an error instead.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module, in a
	// stable order. Parameter-free modules return an empty slice.
	Parameters() []*Parameter[B]

	// StateDict returns a flat map of parameter names to raw tensors.
	// The tensors are shared with the module, not copied.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict copies parameters from a state dictionary.
	//
	// Returns an error if a required parameter is missing or has the
	// wrong shape or dtype.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error

	// String describes the module in one line, e.g.
	// "Linear(in_features=784, out_features=512, bias=true)".
	String() string
}

// Run evaluates module on input and reports shape mismatches as an error
// wrapping tensor.ErrShapeMismatch instead of panicking.
func Run[B tensor.Backend](module Module[B], input *tensor.Tensor[float32, B]) (out *tensor.Tensor[float32, B], err error) {
	defer func() { err = tensor.Recover(recover(), err) }()
	return module.Forward(input), nil
}
