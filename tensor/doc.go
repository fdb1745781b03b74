// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensor operations for the quickstart
// classifier.
//
// # Overview
//
// This package provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - NumPy-style broadcasting for element-wise operations
//   - Numerically stable Softmax and Argmax along any dimension
//   - A single error class for malformed inputs: ErrShapeMismatch
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/quickstart/backend/cpu"
//	    "github.com/born-ml/quickstart/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	    y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	    z := x.Add(y)
//
//	    probs := z.Softmax(1)
//	    classes := probs.Argmax(1)
//	}
//
// # Thread Safety
//
// Operations never modify their operands, so tensors may be read from
// many goroutines at once. Writing through Data() while another goroutine
// reads the same tensor is a data race.
package tensor
