package cpu

import (
	"fmt"

	"github.com/born-ml/quickstart/internal/tensor"
)

// Reshape returns a copy of t with a different shape.
//
// The copy keeps the no-aliasing contract: the result never shares storage
// with its input, so a caller may hand it to another goroutine freely.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if err := newShape.Validate(); err != nil {
		panic(fmt.Sprintf("reshape: invalid shape: %v", err))
	}

	if t.NumElements() != newShape.NumElements() {
		panic(tensor.NewShapeError("reshape", t.Shape(), "%d elements to reshape into %v", newShape.NumElements(), newShape))
	}

	result := cpu.newResult("reshape", newShape, t.DType())
	copy(result.Data(), t.Data()[:t.ByteSize()])
	return result
}

// Transpose permutes the tensor's dimensions.
// With no axes, all dimensions are reversed.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: axes length %d != ndim %d", len(axes), ndim))
	}

	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: invalid axis %d for %dD tensor", ax, ndim))
		}
		if seen[ax] {
			panic(fmt.Sprintf("transpose: duplicate axis %d", ax))
		}
		seen[ax] = true
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}

	result := cpu.newResult("transpose", newShape, t.DType())

	switch t.DType() {
	case tensor.Float32:
		transpose(result.AsFloat32(), t.AsFloat32(), shape, newShape, axes)
	case tensor.Float64:
		transpose(result.AsFloat64(), t.AsFloat64(), shape, newShape, axes)
	case tensor.Int32:
		transpose(result.AsInt32(), t.AsInt32(), shape, newShape, axes)
	case tensor.Uint8:
		transpose(result.AsUint8(), t.AsUint8(), shape, newShape, axes)
	default:
		panic(fmt.Sprintf("transpose: unsupported dtype %s", t.DType()))
	}

	return result
}

func transpose[T any](dst, src []T, shape, newShape tensor.Shape, axes []int) {
	// 2D swap fast path.
	if len(shape) == 2 && axes[0] == 1 {
		rows, cols := shape[0], shape[1]
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				dst[j*rows+i] = src[i*cols+j]
			}
		}
		return
	}

	srcStrides := shape.ComputeStrides()
	dstStrides := newShape.ComputeStrides()

	for dstIdx := range dst {
		remaining := dstIdx
		srcIdx := 0
		for i, ax := range axes {
			coord := remaining / dstStrides[i]
			remaining %= dstStrides[i]
			srcIdx += coord * srcStrides[ax]
		}
		dst[dstIdx] = src[srcIdx]
	}
}
