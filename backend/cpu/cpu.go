// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU backend for tensor operations.
//
// Matrix multiplication runs on gonum's BLAS and large products are split
// across worker goroutines. The worker count defaults to the number of
// physical cores.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/quickstart/backend/cpu"
//	    "github.com/born-ml/quickstart/nn"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    layer := nn.NewLinear(784, 10, backend)
//	}
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each operation allocates
// its result and never writes to its operands.
package cpu

import (
	internalcpu "github.com/born-ml/quickstart/internal/backend/cpu"
	"github.com/born-ml/quickstart/tensor"
)

// Backend is the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Info describes the host CPU as detected at startup.
type Info = internalcpu.Info

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a CPU backend using one worker per physical core.
func New() *Backend {
	return internalcpu.New()
}

// NewWithWorkers creates a CPU backend with a fixed worker count.
// Values below 1 are treated as 1.
func NewWithWorkers(workers int) *Backend {
	return internalcpu.NewWithWorkers(workers)
}
