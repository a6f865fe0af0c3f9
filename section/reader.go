package section

import (
	"fmt"

	"github.com/zenithlabs/ostpack/endian"
	"github.com/zenithlabs/ostpack/errs"
)

// Reader is a bounds-checked cursor over container bytes. Every read either
// returns the requested value or a wrapped ErrTruncatedContainer; it never
// reads past the input.
type Reader struct {
	data   []byte
	pos    int
	engine endian.EndianEngine
}

// NewReader creates a reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data, engine: endian.GetBigEndianEngine()}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Pos returns the current cursor position.
func (r *Reader) Pos() int {
	return r.pos
}

func (r *Reader) take(n int, what string) ([]byte, error) {
	if r.Remaining() < n {
		return nil, fmt.Errorf("%s needs %d bytes at offset %d, have %d: %w",
			what, n, r.pos, r.Remaining(), errs.ErrTruncatedContainer)
	}

	b := r.data[r.pos : r.pos+n]
	r.pos += n

	return b, nil
}

// Bytes reads n raw bytes.
func (r *Reader) Bytes(n int, what string) ([]byte, error) {
	return r.take(n, what)
}

// Uint8 reads one byte.
func (r *Reader) Uint8(what string) (uint8, error) {
	b, err := r.take(1, what)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// Uint16 reads a big-endian uint16.
func (r *Reader) Uint16(what string) (uint16, error) {
	b, err := r.take(2, what)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint16(b), nil
}

// Uint32 reads a big-endian uint32.
func (r *Reader) Uint32(what string) (uint32, error) {
	b, err := r.take(4, what)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint32(b), nil
}

// Uint64 reads a big-endian uint64.
func (r *Reader) Uint64(what string) (uint64, error) {
	b, err := r.take(8, what)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint64(b), nil
}

// LabelString reads a u16 length-prefixed label string.
func (r *Reader) LabelString(what string) (string, error) {
	n, err := r.Uint16(what + " length")
	if err != nil {
		return "", err
	}

	b, err := r.take(int(n), what)
	if err != nil {
		return "", err
	}

	return string(b), nil
}
