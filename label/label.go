// Package label derives deterministic content fingerprints for windows.
//
// A label is a coarse grouping key, not an identity: windows with similar
// symbol distributions tend to share a label, which is exactly what bin
// aggregation wants. Labels are never parsed back; only equality matters.
package label

import (
	"sort"
	"strconv"
	"strings"

	"github.com/zenithlabs/ostpack/huffman"
)

// Filler pads labels for windows with fewer distinct symbols than the
// configured label length.
const Filler = '_'

// Generate derives the label for a window's content: build a Huffman tree
// over the window's symbol frequencies, rank symbols by ascending codeword
// length (more frequent symbols get shorter codes and rank first), take the
// first labelLength symbols, and append their codeword lengths.
//
// Pure and deterministic: identical content always yields an identical
// label. The empty window labels as labelLength fillers.
func Generate(data []byte, labelLength int) string {
	if labelLength <= 0 {
		labelLength = 1
	}

	freqs := huffman.CountFrequencies(data)
	if len(freqs) == 0 {
		return strings.Repeat(string(rune(Filler)), labelLength)
	}

	lengths := huffman.Build(freqs).CodeLengths()

	type ranked struct {
		symbol byte
		length int
		count  uint32
		order  int
	}

	entries := make([]ranked, len(freqs))
	for i, sf := range freqs {
		entries[i] = ranked{
			symbol: sf.Symbol,
			length: lengths[sf.Symbol],
			count:  sf.Count,
			order:  i,
		}
	}

	// Shortest codes first; ties prefer the more frequent symbol, then
	// first-appearance order so the result stays deterministic.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].length != entries[j].length {
			return entries[i].length < entries[j].length
		}
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}

		return entries[i].order < entries[j].order
	})

	var sb strings.Builder
	for i := 0; i < labelLength; i++ {
		if i < len(entries) {
			sb.WriteByte(entries[i].symbol)
		} else {
			sb.WriteByte(Filler)
		}
	}
	for i := 0; i < labelLength && i < len(entries); i++ {
		sb.WriteString(strconv.Itoa(entries[i].length))
	}

	return sb.String()
}
