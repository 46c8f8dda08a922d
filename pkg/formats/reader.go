package formats

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Fixed is the set of fixed-width values the terrain formats are made of.
type Fixed interface {
	~int16 | ~uint16 | ~uint32 | ~uint64 | ~float32
}

// maxPrealloc caps slice preallocation driven by counts read from a file,
// so a corrupt count fails with ErrTruncatedRead instead of exhausting memory.
const maxPrealloc = 1 << 16

// ReadValue reads exactly one little-endian T from r.
// Returns ErrTruncatedRead if r ends before sizeof(T) bytes were read.
func ReadValue[T Fixed](r io.Reader) (T, error) {
	var v T
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return v, readError(err, binary.Size(v))
	}
	return v, nil
}

// ReadValues reads n consecutive little-endian values of type T from r.
func ReadValues[T Fixed](r io.Reader, n int) ([]T, error) {
	values := make([]T, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		v, err := ReadValue[T](r)
		if err != nil {
			return nil, fmt.Errorf("value %d of %d: %w", i, n, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// seekTo positions r at an absolute offset taken from an offset table.
func seekTo(r io.Seeker, offset uint64) error {
	if offset > uint64(1<<63-1) {
		return fmt.Errorf("%w: offset %d out of range", ErrInvalidFormat, offset)
	}
	if _, err := r.Seek(int64(offset), io.SeekStart); err != nil {
		return fmt.Errorf("%w: seeking to %d: %w", ErrIOFailure, offset, err)
	}
	return nil
}

func readError(err error, size int) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: need %d bytes", ErrTruncatedRead, size)
	}
	return fmt.Errorf("%w: %w", ErrIOFailure, err)
}
