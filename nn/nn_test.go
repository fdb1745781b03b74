// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/quickstart/backend/cpu"
	"github.com/born-ml/quickstart/nn"
	"github.com/born-ml/quickstart/tensor"
)

type B = *cpu.Backend

func TestPublicPipeline(t *testing.T) {
	backend := cpu.New()
	nn.Seed(1)

	model := nn.NewSequential[B](
		nn.NewFlatten[B](),
		nn.NewLinear(784, 512, backend),
		nn.NewReLU[B](),
		nn.NewLinear(512, 512, backend),
		nn.NewReLU[B](),
		nn.NewLinear(512, 10, backend),
		nn.NewSoftmax[B](1),
	)

	x := tensor.Zeros[float32](tensor.Shape{1, 28, 28}, backend)
	probs, err := nn.Run[B](model, x)
	require.NoError(t, err)
	require.True(t, probs.Shape().Equal(tensor.Shape{1, 10}))

	var sum float32
	for _, p := range probs.Data() {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-5)

	assert.Len(t, nn.NamedParameters[B](model), 6)
	assert.Equal(t, 669706, nn.CountParameters[B](model))

	_, err = nn.Run[B](model, tensor.Zeros[float32](tensor.Shape{1, 28, 27}, backend))
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}
