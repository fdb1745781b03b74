package dataset

import (
	"fmt"

	"github.com/born-ml/quickstart/internal/tensor"
)

// ToTensor converts images to a float32 tensor of shape (n, rows, cols)
// with pixel values scaled from [0, 255] to [0, 1].
func ToTensor[B tensor.Backend](images *Images, backend B) (*tensor.Tensor[float32, B], error) {
	shape := tensor.Shape{images.Count, images.Rows, images.Cols}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("to-tensor: %w", err)
	}
	if len(images.Pixels) < shape.NumElements() {
		return nil, fmt.Errorf("to-tensor: %d pixels for shape %v", len(images.Pixels), shape)
	}

	out := tensor.Zeros[float32](shape, backend)
	data := out.Data()
	for i, p := range images.Pixels[:len(data)] {
		data[i] = float32(p) / 255.0
	}
	return out, nil
}

// OneHot encodes labels as a (n, classes) float32 tensor with a single 1
// per row. A label outside [0, classes) is an error.
func OneHot[B tensor.Backend](labels []uint8, classes int, backend B) (*tensor.Tensor[float32, B], error) {
	if classes <= 0 || len(labels) == 0 {
		return nil, fmt.Errorf("one-hot: need labels and positive classes, got %d labels, %d classes", len(labels), classes)
	}
	out := tensor.Zeros[float32](tensor.Shape{len(labels), classes}, backend)
	data := out.Data()
	for i, label := range labels {
		if int(label) >= classes {
			return nil, fmt.Errorf("one-hot: label %d at index %d out of range [0, %d)", label, i, classes)
		}
		data[i*classes+int(label)] = 1
	}
	return out, nil
}

// Accuracy returns the fraction of predictions equal to labels.
func Accuracy(predictions []int32, labels []uint8) (float64, error) {
	if len(predictions) != len(labels) {
		return 0, fmt.Errorf("accuracy: %d predictions for %d labels", len(predictions), len(labels))
	}
	if len(labels) == 0 {
		return 0, nil
	}
	correct := 0
	for i, p := range predictions {
		if p == int32(labels[i]) {
			correct++
		}
	}
	return float64(correct) / float64(len(labels)), nil
}
