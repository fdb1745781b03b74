// Package cpu implements the CPU backend on top of gonum BLAS kernels.
package cpu

import (
	"fmt"
	"runtime"

	"github.com/born-ml/quickstart/internal/tensor"
)

// parallelThreshold is the minimum number of output elements before an op
// splits its work across goroutines.
const parallelThreshold = 1 << 15

// CPUBackend implements tensor operations on CPU.
//
// It holds no mutable state after construction, so one backend may be
// shared by any number of goroutines. Every op returns a freshly allocated
// tensor and never writes to its inputs.
type CPUBackend struct {
	device  tensor.Device
	workers int
	info    Info
}

// New creates a new CPU backend using one worker per physical core.
func New() *CPUBackend {
	info := detect()
	workers := info.PhysicalCores
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return newBackend(workers, info)
}

// NewWithWorkers creates a CPU backend that splits large ops across at most
// workers goroutines. workers <= 1 runs everything on the calling goroutine.
func NewWithWorkers(workers int) *CPUBackend {
	return newBackend(workers, detect())
}

func newBackend(workers int, info Info) *CPUBackend {
	if workers < 1 {
		workers = 1
	}
	return &CPUBackend{
		device:  tensor.CPU,
		workers: workers,
		info:    info,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Workers returns the maximum number of goroutines a single op may use.
func (cpu *CPUBackend) Workers() int {
	return cpu.workers
}

// Info returns the detected processor description.
func (cpu *CPUBackend) Info() Info {
	return cpu.info
}

// String describes the backend, e.g. "CPU (AMD EPYC 7B13, 8 workers, avx2)".
func (cpu *CPUBackend) String() string {
	return fmt.Sprintf("%s (%s, %d workers, %s)", cpu.Name(), cpu.info.Brand, cpu.workers, cpu.info.SIMD())
}

func (cpu *CPUBackend) newResult(op string, shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}
	return result
}

func normalizeDim(op string, shape tensor.Shape, dim int) int {
	d, err := shape.NormalizeDim(dim)
	if err != nil {
		panic(tensor.NewShapeError(op, shape, "a tensor with dimension %d", dim))
	}
	return d
}
