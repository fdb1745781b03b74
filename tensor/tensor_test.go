// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/quickstart/backend/cpu"
	"github.com/born-ml/quickstart/tensor"
)

func TestPublicTensorOps(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{1, -2, 3, -4, 5, -6}, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)
	assert.Equal(t, tensor.Float32, x.DType())
	assert.Equal(t, tensor.CPU, x.Device())

	relu := x.ReLU()
	assert.Equal(t, []float32{1, 0, 3, 0, 5, 0}, relu.Data())

	sum := x.Add(tensor.Ones[float32](tensor.Shape{1, 3}, backend))
	assert.Equal(t, []float32{2, -1, 4, -3, 6, -5}, sum.Data())

	assert.Equal(t, []int32{2, 1}, x.Softmax(1).Argmax(1).Data())

	flat := tensor.Zeros[float32](tensor.Shape{4, 28, 28}, backend).Flatten(1, -1)
	assert.True(t, flat.Shape().Equal(tensor.Shape{4, 784}))

	joined, err := tensor.Concat([]*tensor.Tensor[float32, *cpu.Backend]{x, x})
	require.NoError(t, err)
	assert.True(t, joined.Shape().Equal(tensor.Shape{4, 3}))
}

func TestPublicShapeError(t *testing.T) {
	backend := cpu.New()
	a := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
	b := tensor.Zeros[float32](tensor.Shape{4, 2}, backend)

	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		var se *tensor.ShapeError
		require.ErrorAs(t, err, &se)
		assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
	}()
	a.MatMul(b)
}
