// Package dataset reads image classification data in the IDX format used
// by MNIST and FashionMNIST, and converts it to tensors.
package dataset

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
)

// IDX magic numbers.
const (
	MagicImages = 2051 // 0x00000803: unsigned byte, 3 dimensions
	MagicLabels = 2049 // 0x00000801: unsigned byte, 1 dimension
)

// Header limits. Pixel data is read incrementally, so a header that
// declares more than the stream holds fails on the short read instead of
// allocating up front.
const (
	maxItems       = 1 << 24
	maxPixelBytes  = 1 << 32
	readChunkBytes = 1 << 20
)

// Images is a batch of grayscale images stored contiguously, row-major:
// image i occupies Pixels[i*Rows*Cols : (i+1)*Rows*Cols].
type Images struct {
	Count  int
	Rows   int
	Cols   int
	Pixels []byte
}

// Image returns the pixels of image i.
func (im *Images) Image(i int) []byte {
	size := im.Rows * im.Cols
	return im.Pixels[i*size : (i+1)*size]
}

// Limit returns the first n images (or all of them when n <= 0 or n >= Count).
// The pixel buffer is shared.
func (im *Images) Limit(n int) *Images {
	if n <= 0 || n >= im.Count {
		return im
	}
	return &Images{
		Count:  n,
		Rows:   im.Rows,
		Cols:   im.Cols,
		Pixels: im.Pixels[:n*im.Rows*im.Cols],
	}
}

// ReadIDXImages reads an IDX image file.
//
// IDX file format for images:
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes (28)
//	number of cols: 4 bytes (28)
//	pixel data: unsigned bytes (0-255)
func ReadIDXImages(r io.Reader) (*Images, error) {
	var header [4]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	if header[0] != MagicImages {
		return nil, fmt.Errorf("invalid magic number: got %d, want %d", header[0], MagicImages)
	}

	count, rows, cols := int64(header[1]), int64(header[2]), int64(header[3])
	if count > maxItems || rows == 0 || cols == 0 || rows*cols > maxItems || count*rows*cols > maxPixelBytes {
		return nil, fmt.Errorf("implausible image header: %d images of %dx%d", count, rows, cols)
	}

	pixels, err := readBytes(r, count*rows*cols)
	if err != nil {
		return nil, fmt.Errorf("failed to read %d images: %w", count, err)
	}

	return &Images{Count: int(count), Rows: int(rows), Cols: int(cols), Pixels: pixels}, nil
}

// readBytes reads exactly n bytes, growing the buffer as data arrives.
func readBytes(r io.Reader, n int64) ([]byte, error) {
	buf := make([]byte, 0, min(n, readChunkBytes))
	for int64(len(buf)) < n {
		chunk := min(n-int64(len(buf)), readChunkBytes)
		start := len(buf)
		buf = append(buf, make([]byte, chunk)...)
		if _, err := io.ReadFull(r, buf[start:]); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// ReadIDXLabels reads an IDX label file.
//
// IDX file format for labels:
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes (0-9)
func ReadIDXLabels(r io.Reader) ([]uint8, error) {
	var header [2]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read label header: %w", err)
	}
	if header[0] != MagicLabels {
		return nil, fmt.Errorf("invalid magic number: got %d, want %d", header[0], MagicLabels)
	}
	if header[1] > maxItems {
		return nil, fmt.Errorf("implausible label count %d", header[1])
	}

	labels, err := readBytes(r, int64(header[1]))
	if err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}

	return labels, nil
}

// OpenImages reads an IDX image file from disk. Files ending in ".gz" are
// decompressed, matching how MNIST is distributed.
func OpenImages(path string) (*Images, error) {
	var images *Images
	err := withFile(path, func(r io.Reader) (err error) {
		images, err = ReadIDXImages(r)
		return err
	})
	return images, err
}

// OpenLabels reads an IDX label file from disk, decompressing ".gz" files.
func OpenLabels(path string) ([]uint8, error) {
	var labels []uint8
	err := withFile(path, func(r io.Reader) (err error) {
		labels, err = ReadIDXLabels(r)
		return err
	})
	return labels, err
}

func withFile(path string, read func(io.Reader) error) error {
	//nolint:gosec // G304: dataset path is user input
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = file.Close()
	}()

	var r io.Reader = bufio.NewReader(file)
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		defer func() {
			_ = gz.Close()
		}()
		r = gz
	}

	if err := read(r); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
