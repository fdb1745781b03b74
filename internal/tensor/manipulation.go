package tensor

import "fmt"

// ConcatRows concatenates raw tensors along dimension 0.
//
// All parts must share dtype and trailing dimensions. The result is a new
// contiguous tensor; parts are not modified.
func ConcatRows(parts []*RawTensor) (*RawTensor, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("concat: at least one tensor required")
	}

	first := parts[0]
	if len(first.Shape()) == 0 {
		return nil, fmt.Errorf("concat: cannot concatenate scalars")
	}
	trailing := first.Shape()[1:]

	rows := 0
	for i, p := range parts {
		if p.DType() != first.DType() {
			return nil, fmt.Errorf("concat: part %d has dtype %s, want %s", i, p.DType(), first.DType())
		}
		if len(p.Shape()) == 0 || !p.Shape()[1:].Equal(trailing) {
			return nil, NewShapeError("concat", p.Shape(), "[*, %v]", trailing)
		}
		rows += p.Shape()[0]
	}

	shape := append(Shape{rows}, trailing...)
	out, err := NewRaw(shape, first.DType(), first.Device())
	if err != nil {
		return nil, fmt.Errorf("concat: %w", err)
	}

	dst := out.Data()
	offset := 0
	for _, p := range parts {
		offset += copy(dst[offset:], p.Data()[:p.ByteSize()])
	}
	return out, nil
}

// Concat concatenates tensors along the batch dimension.
func Concat[T DType, B Backend](tensors []*Tensor[T, B]) (*Tensor[T, B], error) {
	if len(tensors) == 0 {
		return nil, fmt.Errorf("concat: at least one tensor required")
	}
	raws := make([]*RawTensor, len(tensors))
	for i, t := range tensors {
		raws[i] = t.raw
	}
	raw, err := ConcatRows(raws)
	if err != nil {
		return nil, err
	}
	return New[T, B](raw, tensors[0].backend), nil
}
