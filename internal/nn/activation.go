package nn

import (
	"fmt"

	"github.com/born-ml/quickstart/internal/tensor"
)

// stateless carries the Module methods shared by parameter-free layers.
type stateless[B tensor.Backend] struct{}

// Parameters returns an empty slice.
func (stateless[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{}
}

// StateDict returns an empty map.
func (stateless[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

// LoadStateDict is a no-op.
func (stateless[B]) LoadStateDict(map[string]*tensor.RawTensor) error {
	return nil
}

// ReLU applies max(0, x) element-wise.
//
// Example:
//
//	relu := nn.NewReLU[cpu.Backend]()
//	output := relu.Forward(input)
type ReLU[B tensor.Backend] struct {
	stateless[B]
}

// NewReLU creates a new ReLU activation.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies ReLU. Output shape equals input shape.
func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.ReLU()
}

func (r *ReLU[B]) String() string { return "ReLU()" }

// Sigmoid applies 1 / (1 + exp(-x)) element-wise.
type Sigmoid[B tensor.Backend] struct {
	stateless[B]
}

// NewSigmoid creates a new Sigmoid activation.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return &Sigmoid[B]{}
}

// Forward applies the logistic function.
func (s *Sigmoid[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.Sigmoid()
}

func (s *Sigmoid[B]) String() string { return "Sigmoid()" }

// Tanh applies the hyperbolic tangent element-wise.
type Tanh[B tensor.Backend] struct {
	stateless[B]
}

// NewTanh creates a new Tanh activation.
func NewTanh[B tensor.Backend]() *Tanh[B] {
	return &Tanh[B]{}
}

// Forward applies tanh.
func (t *Tanh[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.Tanh()
}

func (t *Tanh[B]) String() string { return "Tanh()" }

// Softmax normalizes along a dimension so each slice sums to 1.
//
// Example:
//
//	softmax := nn.NewSoftmax[cpu.Backend](1)
//	probs := softmax.Forward(logits) // [batch, classes]
type Softmax[B tensor.Backend] struct {
	stateless[B]
	dim int
}

// NewSoftmax creates a softmax over dim. Negative dim counts from the end.
func NewSoftmax[B tensor.Backend](dim int) *Softmax[B] {
	return &Softmax[B]{dim: dim}
}

// Forward applies softmax along the configured dimension.
func (s *Softmax[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.Softmax(s.dim)
}

// Dim returns the configured dimension. Negative values count from the end.
func (s *Softmax[B]) Dim() int {
	return s.dim
}

func (s *Softmax[B]) String() string { return fmt.Sprintf("Softmax(dim=%d)", s.dim) }
