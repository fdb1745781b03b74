package cpu

import (
	"fmt"

	"github.com/born-ml/quickstart/internal/tensor"
)

// SumDim sums along dim. With keepDim the reduced dimension stays as size 1.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	dim = normalizeDim("sumdim", shape, dim)

	result := cpu.newResult("sumdim", reducedShape(shape, dim, keepDim), x.DType())
	l := newLanes(shape, dim)

	switch x.DType() {
	case tensor.Float32:
		sumLanes(result.AsFloat32(), x.AsFloat32(), l)
	case tensor.Float64:
		sumLanes(result.AsFloat64(), x.AsFloat64(), l)
	case tensor.Int32:
		sumLanes(result.AsInt32(), x.AsInt32(), l)
	default:
		panic(fmt.Sprintf("sumdim: unsupported dtype %s", x.DType()))
	}

	return result
}

// Argmax returns the int32 index of the maximum value along dim.
// Ties resolve to the lowest index.
func (cpu *CPUBackend) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	dim = normalizeDim("argmax", shape, dim)

	result := cpu.newResult("argmax", reducedShape(shape, dim, false), tensor.Int32)
	l := newLanes(shape, dim)

	switch x.DType() {
	case tensor.Float32:
		argmaxLanes(result.AsInt32(), x.AsFloat32(), l)
	case tensor.Float64:
		argmaxLanes(result.AsInt32(), x.AsFloat64(), l)
	case tensor.Int32:
		argmaxLanes(result.AsInt32(), x.AsInt32(), l)
	default:
		panic(fmt.Sprintf("argmax: unsupported dtype %s", x.DType()))
	}

	return result
}

// reducedShape drops (or keeps as 1) dimension dim. Reducing a 1-D tensor
// without keepDim yields shape [1].
func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	out := make(tensor.Shape, 0, len(shape))
	for i, d := range shape {
		switch {
		case i != dim:
			out = append(out, d)
		case keepDim:
			out = append(out, 1)
		}
	}
	if len(out) == 0 {
		out = tensor.Shape{1}
	}
	return out
}

func sumLanes[T number](dst, src []T, l lanes) {
	for lane := 0; lane < l.count; lane++ {
		base := l.base(lane)
		var sum T
		for i := 0; i < l.size; i++ {
			sum += src[base+i*l.stride]
		}
		dst[lane] = sum
	}
}

func argmaxLanes[T number](dst []int32, src []T, l lanes) {
	for lane := 0; lane < l.count; lane++ {
		base := l.base(lane)
		best := 0
		for i := 1; i < l.size; i++ {
			if src[base+i*l.stride] > src[base+best*l.stride] {
				best = i
			}
		}
		dst[lane] = int32(best) //nolint:gosec // G115: bounded by the dimension size
	}
}
