package compress

import (
	"fmt"

	"github.com/zenithlabs/ostpack/format"
)

// Compressor compresses one bin payload.
//
// Memory management:
//   - Returned slice is newly allocated and owned by the caller
//   - Input slice is not modified
//   - Internal buffers may be reused for efficiency
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor.
//
// Implementations validate the payload format and return an error if the
// data is corrupted or was produced by an incompatible backend, rather than
// reading out of bounds.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines compression and decompression. Implementations must be
// safe for concurrent use: parallel bundle compression shares one codec
// across workers.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec resolves the backend for a compression method. For the
// generic method, alg selects the concrete algorithm.
//
// This is the single resolution point for backends: callers inject the
// returned Codec into the encoder or decoder at construction time.
func CreateCodec(method format.CompressionMethod, alg format.GenericAlgorithm) (Codec, error) {
	switch method {
	case format.MethodHuffman:
		return NewHuffmanCompressor(), nil
	case format.MethodRaw:
		return NewNoOpCompressor(), nil
	case format.MethodGeneric:
		switch alg {
		case format.GenericZstd:
			return NewZstdCompressor(), nil
		case format.GenericS2:
			return NewS2Compressor(), nil
		case format.GenericLZ4:
			return NewLZ4Compressor(), nil
		default:
			return nil, fmt.Errorf("invalid generic algorithm: %s", alg)
		}
	default:
		return nil, fmt.Errorf("invalid compression method: %s", method)
	}
}
