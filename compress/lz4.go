package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances; the compressor keeps
// internal state that benefits from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// lz4 payload markers. CompressBlock signals incompressible input by
// returning a zero length, so such payloads are stored raw behind a marker
// byte.
const (
	lz4BlockRaw        = 0x00
	lz4BlockCompressed = 0x01
)

// LZ4Compressor is the LZ4 backend for the generic method: fastest
// decompression, moderate ratio.
//
// Payload layout: one marker byte (raw or compressed), then either the
// original bytes or one LZ4 block.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses the input data using LZ4 block compression.
// Incompressible input is stored raw.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, 1+lz4.CompressBlockBound(len(data)))
	dst[0] = lz4BlockCompressed

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[1:])
	if err != nil {
		return nil, err
	}
	if n == 0 {
		out := make([]byte, 1+len(data))
		out[0] = lz4BlockRaw
		copy(out[1:], data)

		return out, nil
	}

	return dst[:1+n], nil
}

// Decompress decompresses an LZ4 payload.
//
// The decompressed size is not stored in the block format, so the buffer
// starts at 4x the compressed size and doubles on
// ErrInvalidSourceShortBuffer up to a 128MB safety limit.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	marker, block := data[0], data[1:]
	switch marker {
	case lz4BlockRaw:
		out := make([]byte, len(block))
		copy(out, block)

		return out, nil
	case lz4BlockCompressed:
	default:
		return nil, fmt.Errorf("unknown lz4 payload marker %#x", marker)
	}

	if len(block) == 0 {
		return nil, lz4.ErrInvalidSourceShortBuffer
	}

	bufSize := len(block) * 4
	const maxSize = 128 * 1024 * 1024

	for bufSize <= maxSize {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(block, buf)
		if err != nil {
			if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) && bufSize < maxSize {
				bufSize *= 2
				continue
			}

			return nil, err
		}

		return buf[:n], nil
	}

	// Exceeding the limit means corrupted data or an absurd expansion ratio.
	return nil, lz4.ErrInvalidSourceShortBuffer
}
