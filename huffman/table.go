package huffman

import (
	"fmt"

	"github.com/zenithlabs/ostpack/endian"
	"github.com/zenithlabs/ostpack/errs"
)

// SymbolFreq is one frequency-table entry: a symbol and its occurrence count.
type SymbolFreq struct {
	Symbol byte
	Count  uint32
}

// tableEntrySize is the wire size of one frequency-table entry:
// 1 symbol byte + 4 count bytes.
const tableEntrySize = 5

// CountFrequencies builds a frequency table over data in first-appearance
// order. The order matters: it is preserved on the wire and drives the
// deterministic tie-breaking during tree construction, so the decompressor
// rebuilds the exact same tree.
func CountFrequencies(data []byte) []SymbolFreq {
	var counts [256]uint32
	var order []byte

	for _, b := range data {
		if counts[b] == 0 {
			order = append(order, b)
		}
		counts[b]++
	}

	freqs := make([]SymbolFreq, len(order))
	for i, sym := range order {
		freqs[i] = SymbolFreq{Symbol: sym, Count: counts[sym]}
	}

	return freqs
}

// AppendTable appends the frequency table to dst, length-prefixed by a
// 4-byte big-endian byte count. Entries are [symbol u8][count u32] in the
// order given.
func AppendTable(dst []byte, freqs []SymbolFreq) []byte {
	engine := endian.GetBigEndianEngine()

	dst = engine.AppendUint32(dst, uint32(len(freqs)*tableEntrySize)) //nolint:gosec
	for _, sf := range freqs {
		dst = append(dst, sf.Symbol)
		dst = engine.AppendUint32(dst, sf.Count)
	}

	return dst
}

// ParseTable parses a length-prefixed frequency table from the front of
// data, returning the entries and the remainder of data after the table.
//
// A length prefix that is not a multiple of the entry size, or that exceeds
// the available bytes, fails with ErrCorruptFrequencyTable rather than
// reading out of bounds.
func ParseTable(data []byte) ([]SymbolFreq, []byte, error) {
	engine := endian.GetBigEndianEngine()

	if len(data) < 4 {
		return nil, nil, fmt.Errorf("frequency table prefix needs 4 bytes, have %d: %w",
			len(data), errs.ErrCorruptFrequencyTable)
	}

	tableLen := int(engine.Uint32(data[:4]))
	rest := data[4:]

	if tableLen%tableEntrySize != 0 {
		return nil, nil, fmt.Errorf("frequency table length %d not a multiple of %d: %w",
			tableLen, tableEntrySize, errs.ErrCorruptFrequencyTable)
	}
	if tableLen > len(rest) {
		return nil, nil, fmt.Errorf("frequency table length %d exceeds payload size %d: %w",
			tableLen, len(rest), errs.ErrCorruptFrequencyTable)
	}

	entryCount := tableLen / tableEntrySize
	freqs := make([]SymbolFreq, entryCount)
	seen := make(map[byte]bool, entryCount)

	for i := 0; i < entryCount; i++ {
		entry := rest[i*tableEntrySize : (i+1)*tableEntrySize]
		sym := entry[0]
		count := engine.Uint32(entry[1:])

		if count == 0 {
			return nil, nil, fmt.Errorf("frequency table entry %d has zero count: %w",
				i, errs.ErrCorruptFrequencyTable)
		}
		if seen[sym] {
			return nil, nil, fmt.Errorf("frequency table repeats symbol %#x: %w",
				sym, errs.ErrCorruptFrequencyTable)
		}
		seen[sym] = true

		freqs[i] = SymbolFreq{Symbol: sym, Count: count}
	}

	return freqs, rest[tableLen:], nil
}
