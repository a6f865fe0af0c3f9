package compress

import (
	"fmt"

	"github.com/zenithlabs/ostpack/huffman"
	"github.com/zenithlabs/ostpack/internal/pool"
)

// HuffmanCompressor is the custom entropy-coding backend.
//
// Payload layout:
//
//	u32 (big-endian)  frequency table byte length
//	table             [symbol u8][count u32] entries, first-appearance order
//	bitstream         codewords packed MSB-first, final byte zero-padded
//
// The frequency table fully determines the tree (ties broken by entry
// order), so the decompressor rebuilds the identical tree and stops after
// sum-of-counts symbols; trailing pad bits are ignored.
type HuffmanCompressor struct{}

var _ Codec = (*HuffmanCompressor)(nil)

// NewHuffmanCompressor creates a new Huffman compressor.
func NewHuffmanCompressor() HuffmanCompressor {
	return HuffmanCompressor{}
}

// Compress encodes data as a frequency table followed by the packed
// bitstream. Empty input produces an empty-table payload.
//
// Payload assembly goes through a pooled buffer; the returned slice is an
// owned copy.
func (c HuffmanCompressor) Compress(data []byte) ([]byte, error) {
	freqs := huffman.CountFrequencies(data)

	buf := pool.GetBitstreamBuffer()
	defer pool.PutBitstreamBuffer(buf)

	buf.B = huffman.AppendTable(buf.B, freqs)

	if len(freqs) > 0 {
		codes := huffman.Build(freqs).Codes()

		w := huffman.NewBitWriter(len(data)/2 + 1)
		for _, b := range data {
			w.WriteCode(codes[b])
		}
		buf.MustWrite(w.Bytes())
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, nil
}

// Decompress parses the frequency table, rebuilds the tree, and decodes the
// bitstream. A corrupt table length or truncated bitstream fails with a
// typed error instead of reading out of bounds.
func (c HuffmanCompressor) Decompress(data []byte) ([]byte, error) {
	freqs, stream, err := huffman.ParseTable(data)
	if err != nil {
		return nil, fmt.Errorf("huffman decompression failed: %w", err)
	}

	if len(freqs) == 0 {
		return nil, nil
	}

	tree := huffman.Build(freqs)

	decoded, err := tree.Decode(huffman.NewBitReader(stream), tree.TotalCount())
	if err != nil {
		return nil, fmt.Errorf("huffman decompression failed: %w", err)
	}

	return decoded, nil
}
