package nn

import (
	"github.com/born-ml/quickstart/internal/tensor"
)

// Parameter is a named weight or bias tensor owned by a layer.
//
// The forward pass only reads parameters. They change only through
// LoadStateDict or an external training step writing to Tensor().Data().
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[float32, B]
}

// NewParameter creates a new parameter.
//
// Parameters:
//   - name: Local name within the owning layer (e.g., "weight", "bias")
//   - tensor: The initialized parameter tensor
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// Shape returns the shape of the parameter tensor.
func (p *Parameter[B]) Shape() tensor.Shape {
	return p.tensor.Shape()
}

// NumElements returns the number of scalar values in the parameter.
func (p *Parameter[B]) NumElements() int {
	return p.tensor.NumElements()
}
