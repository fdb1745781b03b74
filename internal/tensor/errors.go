package tensor

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is wrapped by every ShapeError.
//
// It is the only error class raised by the forward pipeline: a transform
// received an input whose dimensions do not match what it expects.
var ErrShapeMismatch = errors.New("shape mismatch")

// ShapeError describes a shape mismatch detected by an operation.
//
// Backends and layers panic with a *ShapeError; boundaries that return
// errors (see Recover) hand it back to the caller instead.
type ShapeError struct {
	Op   string // operation that rejected the input, e.g. "linear"
	Want string // expectation, e.g. "[batch, 784]"
	Got  Shape  // offending shape
}

// Error implements error.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %v: expected %s, got %v", e.Op, ErrShapeMismatch, e.Want, e.Got)
}

// Unwrap lets errors.Is match ErrShapeMismatch.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

// NewShapeError builds a ShapeError with a formatted expectation.
func NewShapeError(op string, got Shape, wantFormat string, args ...any) *ShapeError {
	return &ShapeError{
		Op:   op,
		Want: fmt.Sprintf(wantFormat, args...),
		Got:  got.Clone(),
	}
}

// Recover converts a recovered panic value into an error when it carries a
// ShapeError. Any other panic value is re-raised unchanged.
//
// Example:
//
//	func run(x *tensor.Tensor[float32, B]) (out *tensor.Tensor[float32, B], err error) {
//	    defer func() { err = tensor.Recover(recover(), err) }()
//	    return model.Forward(x), nil
//	}
func Recover(r any, err error) error {
	if r == nil {
		return err
	}
	if e, ok := r.(error); ok {
		var se *ShapeError
		if errors.As(e, &se) {
			return se
		}
	}
	panic(r)
}
