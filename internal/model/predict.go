package model

import (
	"context"
	"fmt"

	"github.com/born-ml/quickstart/internal/nn"
	"github.com/born-ml/quickstart/internal/parallel"
	"github.com/born-ml/quickstart/internal/tensor"
)

// Prediction is the result of classifying a batch.
type Prediction[B tensor.Backend] struct {
	Logits        *tensor.Tensor[float32, B] // [batch, classes]
	Probabilities *tensor.Tensor[float32, B] // softmax of Logits along dim 1
	Classes       []int32                    // argmax per row
}

// checkInput accepts [batch, ...] where the trailing dimensions hold
// exactly InputSize elements.
func (c *Classifier[B]) checkInput(x *tensor.Tensor[float32, B]) error {
	shape := x.Shape()
	if len(shape) < 2 || shape[1:].NumElements() != c.cfg.InputSize {
		return tensor.NewShapeError("classifier", shape, "[batch, ...] with %d features per sample", c.cfg.InputSize)
	}
	return nil
}

// Forward computes class logits for a batch.
//
// Input: [batch, 28, 28] (or any [batch, ...] with InputSize features).
// Output: [batch, OutputSize].
//
// A mismatched input returns an error wrapping tensor.ErrShapeMismatch.
func (c *Classifier[B]) Forward(x *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	if err := c.checkInput(x); err != nil {
		return nil, err
	}
	return nn.Run[B](c.network, x)
}

// Predict computes logits, probabilities and predicted classes.
func (c *Classifier[B]) Predict(x *tensor.Tensor[float32, B]) (*Prediction[B], error) {
	logits, err := c.Forward(x)
	if err != nil {
		return nil, err
	}
	probs := logits.Softmax(1)
	return &Prediction[B]{
		Logits:        logits,
		Probabilities: probs,
		Classes:       probs.Argmax(1).Data(),
	}, nil
}

// PredictBatch is Predict with the batch split into up to workers
// contiguous chunks evaluated concurrently. Results are reassembled in
// input order and equal those of Predict.
//
// Cancellation of ctx stops chunks that have not started yet.
func (c *Classifier[B]) PredictBatch(ctx context.Context, x *tensor.Tensor[float32, B], workers int) (*Prediction[B], error) {
	if err := c.checkInput(x); err != nil {
		return nil, err
	}

	chunks := parallel.Chunks(x.Shape()[0], workers)
	if len(chunks) == 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return c.Predict(x)
	}

	parts := make([]*Prediction[B], len(chunks))
	err := parallel.ForEachContext(ctx, len(chunks), workers, func(_ context.Context, i int) error {
		part, err := x.Slice(chunks[i][0], chunks[i][1])
		if err != nil {
			return err
		}
		parts[i], err = c.Predict(part)
		if err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return mergePredictions(parts)
}

func mergePredictions[B tensor.Backend](parts []*Prediction[B]) (*Prediction[B], error) {
	logits := make([]*tensor.Tensor[float32, B], len(parts))
	probs := make([]*tensor.Tensor[float32, B], len(parts))
	var classes []int32
	for i, p := range parts {
		logits[i] = p.Logits
		probs[i] = p.Probabilities
		classes = append(classes, p.Classes...)
	}

	mergedLogits, err := tensor.Concat(logits)
	if err != nil {
		return nil, err
	}
	mergedProbs, err := tensor.Concat(probs)
	if err != nil {
		return nil, err
	}

	return &Prediction[B]{
		Logits:        mergedLogits,
		Probabilities: mergedProbs,
		Classes:       classes,
	}, nil
}
