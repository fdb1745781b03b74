package nn

import (
	"fmt"

	"github.com/born-ml/quickstart/internal/tensor"
)

// Flatten collapses the dimensions start..end (inclusive) into one.
//
// The default range is 1..-1, which keeps the batch dimension and merges
// everything after it: [batch, 28, 28] becomes [batch, 784]. Elements keep
// their row-major order.
type Flatten[B tensor.Backend] struct {
	stateless[B]
	start, end int
}

// NewFlatten creates a Flatten over dims 1..-1.
func NewFlatten[B tensor.Backend]() *Flatten[B] {
	return NewFlattenRange[B](1, -1)
}

// NewFlattenRange creates a Flatten over an arbitrary inclusive range.
// Negative indices count from the end.
func NewFlattenRange[B tensor.Backend](start, end int) *Flatten[B] {
	return &Flatten[B]{start: start, end: end}
}

// Forward flattens input. A tensor without the configured dimensions
// (e.g. rank 1 for the default range) panics with a *tensor.ShapeError.
func (f *Flatten[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.Flatten(f.start, f.end)
}

func (f *Flatten[B]) String() string {
	return fmt.Sprintf("Flatten(start_dim=%d, end_dim=%d)", f.start, f.end)
}
