package tensor

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
)

// stubBackend satisfies Backend for tests that only create tensors.
type stubBackend struct{}

func (stubBackend) Add(_, _ *RawTensor) *RawTensor { panic("not implemented") }
func (stubBackend) Mul(_, _ *RawTensor) *RawTensor { panic("not implemented") }
func (stubBackend) MatMul(_, _ *RawTensor) *RawTensor { panic("not implemented") }
func (stubBackend) Reshape(_ *RawTensor, _ Shape) *RawTensor { panic("not implemented") }
func (stubBackend) Transpose(_ *RawTensor, _ ...int) *RawTensor {
	panic("not implemented")
}
func (stubBackend) ReLU(_ *RawTensor) *RawTensor { panic("not implemented") }
func (stubBackend) Sigmoid(_ *RawTensor) *RawTensor { panic("not implemented") }
func (stubBackend) Tanh(_ *RawTensor) *RawTensor { panic("not implemented") }
func (stubBackend) Softmax(_ *RawTensor, _ int) *RawTensor { panic("not implemented") }
func (stubBackend) SumDim(_ *RawTensor, _ int, _ bool) *RawTensor { panic("not implemented") }
func (stubBackend) Argmax(_ *RawTensor, _ int) *RawTensor { panic("not implemented") }
func (stubBackend) Name() string { return "stub" }
func (stubBackend) Device() Device { return CPU }

func assertEqualShape(t *testing.T, expected, actual Shape, msg string) {
	t.Helper()
	if !expected.Equal(actual) {
		t.Errorf("%s: expected shape %v, got %v", msg, expected, actual)
	}
}

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Float32, 4},
		{Float64, 8},
		{Int32, 4},
		{Uint8, 1},
	}

	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dtype, got, tt.size)
		}
	}
}

func TestShape_NumElementsAndStrides(t *testing.T) {
	s := Shape{2, 3, 4}
	if got := s.NumElements(); got != 24 {
		t.Errorf("NumElements() = %d, want 24", got)
	}
	strides := s.ComputeStrides()
	want := []int{12, 4, 1}
	for i := range want {
		if strides[i] != want[i] {
			t.Errorf("strides[%d] = %d, want %d", i, strides[i], want[i])
		}
	}
	if got := (Shape{}).NumElements(); got != 1 {
		t.Errorf("scalar NumElements() = %d, want 1", got)
	}
}

func TestShape_Flatten(t *testing.T) {
	tests := []struct {
		name       string
		shape      Shape
		start, end int
		want       Shape
		wantErr    bool
	}{
		{"image batch", Shape{32, 28, 28}, 1, -1, Shape{32, 784}, false},
		{"middle range", Shape{2, 3, 4, 5}, 1, 2, Shape{2, 12, 5}, false},
		{"single dim", Shape{4, 7}, 1, 1, Shape{4, 7}, false},
		{"all dims", Shape{2, 3, 4}, 0, -1, Shape{24}, false},
		{"start after end", Shape{2, 3, 4}, 2, 1, nil, true},
		{"out of range", Shape{5}, 1, -1, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.shape.Flatten(tt.start, tt.end)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Flatten(%d, %d) expected error, got %v", tt.start, tt.end, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Flatten(%d, %d) unexpected error: %v", tt.start, tt.end, err)
			}
			assertEqualShape(t, tt.want, got, "Flatten")
			if got.NumElements() != tt.shape.NumElements() {
				t.Errorf("element count changed: %d -> %d", tt.shape.NumElements(), got.NumElements())
			}
		})
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b      Shape
		want      Shape
		broadcast bool
		wantErr   bool
	}{
		{Shape{3, 5}, Shape{3, 5}, Shape{3, 5}, false, false},
		{Shape{3, 1}, Shape{3, 5}, Shape{3, 5}, true, false},
		{Shape{4, 10}, Shape{10}, Shape{4, 10}, true, false},
		{Shape{3, 4}, Shape{3, 5}, nil, false, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v+%v", tt.a, tt.b), func(t *testing.T) {
			got, broadcast, err := BroadcastShapes(tt.a, tt.b)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertEqualShape(t, tt.want, got, "BroadcastShapes")
			if broadcast != tt.broadcast {
				t.Errorf("needsBroadcast = %v, want %v", broadcast, tt.broadcast)
			}
		})
	}
}

func TestRawTensor_ViewAndSlice(t *testing.T) {
	raw, err := NewRaw(Shape{4, 3}, Float32, CPU)
	if err != nil {
		t.Fatal(err)
	}
	data := raw.AsFloat32()
	for i := range data {
		data[i] = float32(i)
	}

	view, err := raw.View(Shape{2, 6})
	if err != nil {
		t.Fatal(err)
	}
	if view.AsFloat32()[7] != 7 {
		t.Errorf("view[7] = %v, want 7", view.AsFloat32()[7])
	}

	if _, err := raw.View(Shape{5, 5}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("View with wrong element count: got %v, want ErrShapeMismatch", err)
	}

	rows, err := raw.Slice(1, 3)
	if err != nil {
		t.Fatal(err)
	}
	assertEqualShape(t, Shape{2, 3}, rows.Shape(), "Slice")
	if got := rows.AsFloat32(); got[0] != 3 || got[5] != 8 {
		t.Errorf("Slice data = %v, want [3..8]", got)
	}

	if _, err := raw.Slice(3, 5); err == nil {
		t.Error("Slice out of bounds should fail")
	}
}

func TestNewRawFromBytes(t *testing.T) {
	if _, err := NewRawFromBytes(Shape{2}, Float32, CPU, make([]byte, 8)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewRawFromBytes(Shape{2}, Float32, CPU, make([]byte, 7)); err == nil {
		t.Error("expected size error")
	}
}

func TestShapeError(t *testing.T) {
	err := NewShapeError("linear", Shape{1, 5}, "[batch, %d]", 784)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Error("ShapeError should wrap ErrShapeMismatch")
	}
	want := "linear: shape mismatch: expected [batch, 784], got [1 5]"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestRecover(t *testing.T) {
	run := func(f func()) (err error) {
		defer func() { err = Recover(recover(), err) }()
		f()
		return nil
	}

	if err := run(func() {}); err != nil {
		t.Errorf("no panic: got %v", err)
	}

	err := run(func() { panic(NewShapeError("op", Shape{3}, "[4]")) })
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("ShapeError panic: got %v", err)
	}

	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("foreign panic should be re-raised, got %v", r)
		}
	}()
	_ = run(func() { panic("boom") })
}

func TestCreationAndIndexing(t *testing.T) {
	backend := stubBackend{}

	z := Zeros[float32](Shape{2, 3}, backend)
	for _, v := range z.Data() {
		if v != 0 {
			t.Fatalf("Zeros contains %v", v)
		}
	}

	f := Full[float64](Shape{2, 2}, 2.5, backend)
	if f.At(1, 1) != 2.5 {
		t.Errorf("Full At(1,1) = %v, want 2.5", f.At(1, 1))
	}

	x, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)
	if err != nil {
		t.Fatal(err)
	}
	if x.At(1, 0) != 4 {
		t.Errorf("At(1, 0) = %v, want 4", x.At(1, 0))
	}
	x.Set(9, 0, 2)
	if x.Data()[2] != 9 {
		t.Errorf("Set did not write through, data = %v", x.Data())
	}

	if _, err := FromSlice([]float32{1, 2, 3}, Shape{2, 2}, backend); err == nil {
		t.Error("FromSlice with wrong length should fail")
	}

	clone := x.Clone()
	clone.Set(0, 0, 0)
	if x.At(0, 0) != 1 {
		t.Error("Clone should not share storage")
	}
}

func TestRandnFrom_Reproducible(t *testing.T) {
	backend := stubBackend{}
	a := RandnFrom[float32](Shape{64}, rand.New(rand.NewSource(7)), backend)
	b := RandnFrom[float32](Shape{64}, rand.New(rand.NewSource(7)), backend)
	for i := range a.Data() {
		if a.Data()[i] != b.Data()[i] {
			t.Fatalf("index %d differs: %v vs %v", i, a.Data()[i], b.Data()[i])
		}
	}
}

func TestConcat(t *testing.T) {
	backend := stubBackend{}
	a, _ := FromSlice([]float32{1, 2}, Shape{1, 2}, backend)
	b, _ := FromSlice([]float32{3, 4, 5, 6}, Shape{2, 2}, backend)

	c, err := Concat([]*Tensor[float32, stubBackend]{a, b})
	if err != nil {
		t.Fatal(err)
	}
	assertEqualShape(t, Shape{3, 2}, c.Shape(), "Concat")
	want := []float32{1, 2, 3, 4, 5, 6}
	for i, v := range c.Data() {
		if v != want[i] {
			t.Errorf("Concat[%d] = %v, want %v", i, v, want[i])
		}
	}

	bad, _ := FromSlice([]float32{1, 2, 3}, Shape{1, 3}, backend)
	if _, err := Concat([]*Tensor[float32, stubBackend]{a, bad}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("mismatched trailing dims: got %v", err)
	}
}
