package serialization

import (
	"fmt"
	"sort"
	"strings"
)

// ValidateTensorName rejects names that are empty, too long, or contain
// path separators, ".." or NUL bytes.
func ValidateTensorName(name string) error {
	switch {
	case name == "":
		return &ValidationError{Err: ErrInvalidTensorName, Details: "empty name"}
	case len(name) > MaxTensorNameLen:
		return &ValidationError{
			Err:     ErrInvalidTensorName,
			Tensor:  name[:32] + "...",
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxTensorNameLen),
		}
	case strings.Contains(name, ".."):
		return &ValidationError{Err: ErrInvalidTensorName, Tensor: name, Details: "contains '..'"}
	case strings.ContainsAny(name, "/\\"):
		return &ValidationError{Err: ErrInvalidTensorName, Tensor: name, Details: "contains path separator"}
	case strings.Contains(name, "\x00"):
		return &ValidationError{Err: ErrInvalidTensorName, Tensor: name, Details: "contains null byte"}
	}
	return nil
}

// ValidateTensorOffsets checks that every tensor lies inside a data section
// of dataSize bytes and that no two tensors overlap.
func ValidateTensorOffsets(tensors map[string]TensorInfo, dataSize int64) error {
	if len(tensors) > MaxTensorCount {
		return &ValidationError{
			Err:     ErrTooManyTensors,
			Details: fmt.Sprintf("got %d, max %d", len(tensors), MaxTensorCount),
		}
	}

	names := make([]string, 0, len(tensors))
	for name := range tensors {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := tensors[names[i]], tensors[names[j]]
		if a.DataOffsets[0] != b.DataOffsets[0] {
			return a.DataOffsets[0] < b.DataOffsets[0]
		}
		return names[i] < names[j]
	})

	for i, name := range names {
		ti := tensors[name]
		begin, end := ti.DataOffsets[0], ti.DataOffsets[1]
		if begin < 0 || end < begin || end > dataSize {
			return &ValidationError{
				Err:     ErrOutOfBounds,
				Tensor:  name,
				Details: fmt.Sprintf("range [%d, %d) outside data section of %d bytes", begin, end, dataSize),
			}
		}
		if i+1 < len(names) {
			next := tensors[names[i+1]]
			if end > next.DataOffsets[0] {
				return &ValidationError{
					Err:     ErrOffsetOverlap,
					Tensor:  name,
					Tensor2: names[i+1],
					Details: fmt.Sprintf("regions [%d, %d) and [%d, %d) overlap",
						begin, end, next.DataOffsets[0], next.DataOffsets[1]),
				}
			}
		}
	}

	return nil
}
