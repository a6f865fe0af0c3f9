package huffman

import (
	"fmt"

	"github.com/zenithlabs/ostpack/errs"
)

// Code is one symbol's codeword: the low Len bits of Bits, MSB first.
type Code struct {
	Bits uint64
	Len  uint8
}

// Codes derives the codeword table by walking the tree (left edge = 0,
// right edge = 1).
//
// A single-symbol tree has a bare leaf root; its codeword length is promoted
// from 0 to 1 (code "0") so the bitstream stays well-defined.
func (t *Tree) Codes() map[byte]Code {
	codes := make(map[byte]Code)
	if t == nil || t.root == nil {
		return codes
	}

	if t.root.IsLeaf() {
		codes[t.root.Symbol] = Code{Bits: 0, Len: 1}
		return codes
	}

	walkCodes(t.root, 0, 0, codes)

	return codes
}

func walkCodes(n *Node, bits uint64, depth uint8, codes map[byte]Code) {
	if n.IsLeaf() {
		codes[n.Symbol] = Code{Bits: bits, Len: depth}
		return
	}

	walkCodes(n.Left, bits<<1, depth+1, codes)
	walkCodes(n.Right, bits<<1|1, depth+1, codes)
}

// CodeLengths returns each symbol's codeword length by tree depth. Unlike
// Codes, a single-symbol tree reports length 0 here; label generation wants
// the raw depth, not the bitstream encoding.
func (t *Tree) CodeLengths() map[byte]int {
	lengths := make(map[byte]int)
	if t == nil || t.root == nil {
		return lengths
	}

	walkLengths(t.root, 0, lengths)

	return lengths
}

func walkLengths(n *Node, depth int, lengths map[byte]int) {
	if n.IsLeaf() {
		lengths[n.Symbol] = depth
		return
	}

	walkLengths(n.Left, depth+1, lengths)
	walkLengths(n.Right, depth+1, lengths)
}

// BitWriter packs codewords MSB-first into a byte slice, zero-padding the
// final byte.
type BitWriter struct {
	buf  []byte
	cur  byte
	nbit uint8
}

// NewBitWriter creates a BitWriter with capacity for sizeHint packed bytes.
func NewBitWriter(sizeHint int) *BitWriter {
	return &BitWriter{buf: make([]byte, 0, sizeHint)}
}

// WriteCode appends one codeword to the stream.
func (w *BitWriter) WriteCode(c Code) {
	for i := int(c.Len) - 1; i >= 0; i-- {
		w.cur <<= 1
		if c.Bits>>uint(i)&1 == 1 {
			w.cur |= 1
		}
		w.nbit++
		if w.nbit == 8 {
			w.buf = append(w.buf, w.cur)
			w.cur = 0
			w.nbit = 0
		}
	}
}

// Bytes flushes any partial byte (zero-padded) and returns the packed stream.
func (w *BitWriter) Bytes() []byte {
	if w.nbit > 0 {
		w.buf = append(w.buf, w.cur<<(8-w.nbit))
		w.cur = 0
		w.nbit = 0
	}

	return w.buf
}

// BitReader reads a packed bitstream MSB-first.
type BitReader struct {
	data []byte
	pos  int
	nbit uint8
}

// NewBitReader creates a BitReader over data.
func NewBitReader(data []byte) *BitReader {
	return &BitReader{data: data}
}

// ReadBit returns the next bit, or an error if the stream is exhausted.
func (r *BitReader) ReadBit() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errs.ErrTruncatedBitstream
	}

	bit := r.data[r.pos] >> (7 - r.nbit) & 1
	r.nbit++
	if r.nbit == 8 {
		r.nbit = 0
		r.pos++
	}

	return bit, nil
}

// Decode walks the tree once per symbol, consuming bits from r until count
// symbols have been produced. It fails with ErrTruncatedBitstream if the
// stream runs out mid-symbol.
func (t *Tree) Decode(r *BitReader, count uint64) ([]byte, error) {
	out := make([]byte, 0, count)

	// Bare-leaf tree: every symbol is one "0" bit.
	if t.root.IsLeaf() {
		for i := uint64(0); i < count; i++ {
			if _, err := r.ReadBit(); err != nil {
				return nil, fmt.Errorf("decoding symbol %d of %d: %w", i, count, err)
			}
			out = append(out, t.root.Symbol)
		}

		return out, nil
	}

	for i := uint64(0); i < count; i++ {
		n := t.root
		for !n.IsLeaf() {
			bit, err := r.ReadBit()
			if err != nil {
				return nil, fmt.Errorf("decoding symbol %d of %d: %w", i, count, err)
			}
			if bit == 0 {
				n = n.Left
			} else {
				n = n.Right
			}
		}
		out = append(out, n.Symbol)
	}

	return out, nil
}
