package cpu

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/quickstart/internal/tensor"
)

// ReLU applies max(0, x) element-wise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("relu", x,
		func(v float32) float32 { return math32.Max(v, 0) },
		func(v float64) float64 { return math.Max(v, 0) },
	)
}

// Sigmoid applies 1 / (1 + exp(-x)) element-wise.
func (cpu *CPUBackend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("sigmoid", x,
		func(v float32) float32 { return 1 / (1 + math32.Exp(-v)) },
		func(v float64) float64 { return 1 / (1 + math.Exp(-v)) },
	)
}

// Tanh applies the hyperbolic tangent element-wise.
func (cpu *CPUBackend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("tanh", x, math32.Tanh, math.Tanh)
}

func (cpu *CPUBackend) unary(op string, x *tensor.RawTensor, f32 func(float32) float32, f64 func(float64) float64) *tensor.RawTensor {
	result := cpu.newResult(op, x.Shape(), x.DType())

	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), result.AsFloat32()
		for i, v := range src {
			dst[i] = f32(v)
		}
	case tensor.Float64:
		src, dst := x.AsFloat64(), result.AsFloat64()
		for i, v := range src {
			dst[i] = f64(v)
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s (only float32/float64 supported)", op, x.DType()))
	}

	return result
}

// Softmax computes exp(x_i - max) / sum_j exp(x_j - max) along dim.
//
// Subtracting the per-slice maximum keeps every exponent <= 0, so large
// logits cannot overflow. Negative dim counts from the end.
func (cpu *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	dim = normalizeDim("softmax", shape, dim)

	result := cpu.newResult("softmax", shape, x.DType())
	l := newLanes(shape, dim)

	switch x.DType() {
	case tensor.Float32:
		softmaxFloat32(result.AsFloat32(), x.AsFloat32(), l)
	case tensor.Float64:
		softmaxFloat64(result.AsFloat64(), x.AsFloat64(), l)
	default:
		panic(fmt.Sprintf("softmax: unsupported dtype %s (only float32/float64 supported)", x.DType()))
	}

	return result
}

func softmaxFloat32(dst, src []float32, l lanes) {
	for lane := 0; lane < l.count; lane++ {
		base := l.base(lane)

		maxVal := math32.Inf(-1)
		for i := 0; i < l.size; i++ {
			maxVal = math32.Max(maxVal, src[base+i*l.stride])
		}

		// float64 accumulator
		var sum float64
		for i := 0; i < l.size; i++ {
			idx := base + i*l.stride
			e := math32.Exp(src[idx] - maxVal)
			dst[idx] = e
			sum += float64(e)
		}

		inv := float32(1 / sum)
		for i := 0; i < l.size; i++ {
			dst[base+i*l.stride] *= inv
		}
	}
}

func softmaxFloat64(dst, src []float64, l lanes) {
	if l.stride == 1 {
		// Contiguous lanes: use gonum's vector kernels.
		for lane := 0; lane < l.count; lane++ {
			base := l.base(lane)
			in, out := src[base:base+l.size], dst[base:base+l.size]
			maxVal := floats.Max(in)
			for i, v := range in {
				out[i] = math.Exp(v - maxVal)
			}
			floats.Scale(1/floats.Sum(out), out)
		}
		return
	}

	for lane := 0; lane < l.count; lane++ {
		base := l.base(lane)

		maxVal := math.Inf(-1)
		for i := 0; i < l.size; i++ {
			maxVal = math.Max(maxVal, src[base+i*l.stride])
		}

		var sum float64
		for i := 0; i < l.size; i++ {
			idx := base + i*l.stride
			e := math.Exp(src[idx] - maxVal)
			dst[idx] = e
			sum += e
		}

		for i := 0; i < l.size; i++ {
			dst[base+i*l.stride] /= sum
		}
	}
}

// lanes enumerates the 1-D slices of a tensor along one dimension.
type lanes struct {
	size   int // length of each lane
	stride int // distance between consecutive lane elements
	count  int // number of lanes
}

func newLanes(shape tensor.Shape, dim int) lanes {
	strides := shape.ComputeStrides()
	return lanes{
		size:   shape[dim],
		stride: strides[dim],
		count:  shape.NumElements() / shape[dim],
	}
}

// base returns the flat index of the first element of the given lane.
func (l lanes) base(lane int) int {
	return (lane/l.stride)*l.size*l.stride + lane%l.stride
}
