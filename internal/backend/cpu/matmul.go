package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/born-ml/quickstart/internal/parallel"
	"github.com/born-ml/quickstart/internal/tensor"
)

// MatMul performs matrix multiplication: (M, K) @ (K, N) -> (M, N).
//
// Float types go through gonum's SGEMM/DGEMM. When the output is large the
// rows of A are split into blocks that are multiplied concurrently; each
// block writes a disjoint slice of the result.
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		panic(tensor.NewShapeError("matmul", bShape, "2D operands, got %dD @ %dD", len(aShape), len(bShape)))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("matmul: dtype mismatch %s vs %s", a.DType(), b.DType()))
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]
	if k != kAlt {
		panic(tensor.NewShapeError("matmul", bShape, "[%d, *] to match %v", k, aShape))
	}

	result := cpu.newResult("matmul", tensor.Shape{m, n}, a.DType())

	blocks := 1
	if m*n >= parallelThreshold {
		blocks = min(cpu.workers, m)
	}

	switch a.DType() {
	case tensor.Float32:
		c, av, bv := result.AsFloat32(), a.AsFloat32(), b.AsFloat32()
		cpu.forRowBlocks(m, blocks, func(from, to int) {
			gemmFloat32(c[from*n:to*n], av[from*k:to*k], bv, to-from, k, n)
		})
	case tensor.Float64:
		c, av, bv := result.AsFloat64(), a.AsFloat64(), b.AsFloat64()
		cpu.forRowBlocks(m, blocks, func(from, to int) {
			gemmFloat64(c[from*n:to*n], av[from*k:to*k], bv, to-from, k, n)
		})
	case tensor.Int32:
		matmulInt32(result.AsInt32(), a.AsInt32(), b.AsInt32(), m, k, n)
	default:
		panic(fmt.Sprintf("matmul: unsupported dtype %s", a.DType()))
	}

	return result
}

func (cpu *CPUBackend) forRowBlocks(rows, blocks int, body func(from, to int)) {
	ranges := parallel.Chunks(rows, blocks)
	parallel.ForEach(len(ranges), cpu.workers, func(i int) {
		body(ranges[i][0], ranges[i][1])
	})
}

func gemmFloat32(c, a, b []float32, m, k, n int) {
	blas32.Gemm(blas.NoTrans, blas.NoTrans, 1,
		blas32.General{Rows: m, Cols: k, Stride: k, Data: a},
		blas32.General{Rows: k, Cols: n, Stride: n, Data: b},
		0,
		blas32.General{Rows: m, Cols: n, Stride: n, Data: c},
	)
}

func gemmFloat64(c, a, b []float64, m, k, n int) {
	blas64.Gemm(blas.NoTrans, blas.NoTrans, 1,
		blas64.General{Rows: m, Cols: k, Stride: k, Data: a},
		blas64.General{Rows: k, Cols: n, Stride: n, Data: b},
		0,
		blas64.General{Rows: m, Cols: n, Stride: n, Data: c},
	)
}

func matmulInt32(c, a, b []int32, m, k, n int) {
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum int32
			for kIdx := 0; kIdx < k; kIdx++ {
				sum += a[i*k+kIdx] * b[kIdx*n+j]
			}
			c[i*n+j] = sum
		}
	}
}
