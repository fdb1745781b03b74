package serialization

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/quickstart/internal/tensor"
)

// File is a decoded SafeTensors file.
type File struct {
	Tensors  map[string]*tensor.RawTensor
	Metadata map[string]string
}

// ReadOptions configures Read.
type ReadOptions struct {
	// SkipChecksum disables verification of the MetadataChecksum entry.
	SkipChecksum bool

	// Size is the total stream length in bytes when known, 0 otherwise.
	// A header that describes more data than Size is rejected before
	// anything is allocated for it.
	Size int64
}

// ReadFile reads a SafeTensors file from path with default options.
func ReadFile(path string) (*File, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	f, err := Read(bufio.NewReader(file), ReadOptions{Size: stat.Size()})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Read decodes a SafeTensors stream.
//
// The header is validated before any tensor data is read: names must
// pass ValidateTensorName, byte ranges must lie inside the data section
// without overlapping, and each range must match its dtype and shape.
// The data section is read incrementally, so memory grows with the bytes
// actually present rather than with the sizes the header claims.
func Read(r io.Reader, opts ReadOptions) (*File, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}
	if opts.Size > 0 && headerSize > uint64(opts.Size-headerPrefixSize) {
		return nil, fmt.Errorf("%w: %d bytes in a %d-byte file", ErrHeaderTooLarge, headerSize, opts.Size)
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(headerBytes, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	f := &File{
		Tensors:  make(map[string]*tensor.RawTensor, len(entries)),
		Metadata: map[string]string{},
	}

	infos := make(map[string]TensorInfo, len(entries))
	var dataSize int64
	for name, msg := range entries {
		if name == MetadataKey {
			if err := json.Unmarshal(msg, &f.Metadata); err != nil {
				return nil, fmt.Errorf("failed to parse metadata: %w", err)
			}
			continue
		}
		if err := ValidateTensorName(name); err != nil {
			return nil, err
		}
		var info TensorInfo
		if err := json.Unmarshal(msg, &info); err != nil {
			return nil, fmt.Errorf("tensor %q: failed to parse header entry: %w", name, err)
		}
		infos[name] = info
		dataSize = max(dataSize, info.DataOffsets[1])
	}

	if err := ValidateTensorOffsets(infos, dataSize); err != nil {
		return nil, err
	}
	layouts := make(map[string]tensorLayout, len(infos))
	for name, info := range infos {
		l, err := layoutOf(info)
		if err != nil {
			return nil, fmt.Errorf("tensor %q: %w", name, err)
		}
		layouts[name] = l
	}
	if opts.Size > 0 {
		if avail := opts.Size - headerPrefixSize - int64(headerSize); dataSize > avail {
			return nil, &ValidationError{
				Err:     ErrOutOfBounds,
				Details: fmt.Sprintf("header describes %d data bytes, file holds %d", dataSize, avail),
			}
		}
	}

	var buf bytes.Buffer
	if opts.Size > 0 {
		buf.Grow(int(dataSize))
	}
	n, err := io.Copy(&buf, io.LimitReader(r, dataSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}
	if n < dataSize {
		return nil, &ValidationError{
			Err:     ErrOutOfBounds,
			Details: fmt.Sprintf("data section truncated: header describes %d bytes, read %d", dataSize, n),
		}
	}
	data := buf.Bytes()

	if stored, ok := f.Metadata[MetadataChecksum]; ok && !opts.SkipChecksum {
		if err := ValidateChecksum(data, stored); err != nil {
			return nil, err
		}
	}

	for name, info := range infos {
		l := layouts[name]
		raw, err := tensor.NewRawFromBytes(l.shape, l.dtype, tensor.CPU, data[info.DataOffsets[0]:info.DataOffsets[1]])
		if err != nil {
			return nil, fmt.Errorf("tensor %q: %w", name, err)
		}
		f.Tensors[name] = raw
	}

	return f, nil
}

type tensorLayout struct {
	dtype tensor.DataType
	shape tensor.Shape
}

// layoutOf checks that info's dtype and shape account for exactly its
// byte range.
func layoutOf(info TensorInfo) (tensorLayout, error) {
	dtype, err := dtypeFromSafeTensors(info.DType)
	if err != nil {
		return tensorLayout{}, err
	}

	shape := make(tensor.Shape, len(info.Shape))
	elements := int64(1)
	for i, dim := range info.Shape {
		if dim <= 0 || dim > info.Size() {
			return tensorLayout{}, fmt.Errorf("invalid dimension %d in shape %v", dim, info.Shape)
		}
		elements *= dim
		if elements > info.Size() {
			return tensorLayout{}, fmt.Errorf("shape %v of %s exceeds its %d-byte range", info.Shape, dtype, info.Size())
		}
		shape[i] = int(dim)
	}

	if want := elements * int64(dtype.Size()); want != info.Size() {
		return tensorLayout{}, fmt.Errorf("shape %v of %s needs %d bytes, header gives %d", shape, dtype, want, info.Size())
	}
	return tensorLayout{dtype: dtype, shape: shape}, nil
}
