package serialization

import (
	"fmt"

	"github.com/born-ml/quickstart/internal/tensor"
)

// Header keys and limits.
const (
	MetadataKey      = "__metadata__"
	MetadataChecksum = "sha256"

	MaxHeaderSize    = 100 * 1024 * 1024 // 100MB
	MaxTensorCount   = 100_000
	MaxTensorNameLen = 4096

	headerPrefixSize = 8 // little-endian uint64 header length
)

// TensorInfo is one tensor entry of the JSON header.
type TensorInfo struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// Size returns the byte length of the tensor data.
func (ti TensorInfo) Size() int64 {
	return ti.DataOffsets[1] - ti.DataOffsets[0]
}

func dtypeToSafeTensors(dt tensor.DataType) (string, error) {
	switch dt {
	case tensor.Float32:
		return "F32", nil
	case tensor.Float64:
		return "F64", nil
	case tensor.Int32:
		return "I32", nil
	case tensor.Uint8:
		return "U8", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedDType, dt)
	}
}

func dtypeFromSafeTensors(s string) (tensor.DataType, error) {
	switch s {
	case "F32":
		return tensor.Float32, nil
	case "F64":
		return tensor.Float64, nil
	case "I32":
		return tensor.Int32, nil
	case "U8":
		return tensor.Uint8, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedDType, s)
	}
}
