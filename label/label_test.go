package label

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerate_Deterministic(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")

	first := Generate(data, 4)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Generate(data, 4))
	}

	// Same content in a fresh allocation yields the same label.
	clone := make([]byte, len(data))
	copy(clone, data)
	require.Equal(t, first, Generate(clone, 4))
}

func TestGenerate_DifferentContentDifferentLabel(t *testing.T) {
	a := Generate(bytes.Repeat([]byte("a"), 100), 4)
	b := Generate([]byte("completely different content here"), 4)

	require.NotEqual(t, a, b)
}

func TestGenerate_MostFrequentSymbolFirst(t *testing.T) {
	// 'e' dominates, so it gets the shortest code and leads the label.
	data := append(bytes.Repeat([]byte("e"), 200), []byte("xyzw")...)
	lbl := Generate(data, 4)

	require.Equal(t, byte('e'), lbl[0])
}

func TestGenerate_PadsShortAlphabets(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		labelLength int
		wantSymbols string
	}{
		{"empty window", nil, 4, "____"},
		{"single symbol", bytes.Repeat([]byte("q"), 10), 4, "q___"},
		{"two symbols", []byte("ababab"), 4, "ab__"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lbl := Generate(tt.data, tt.labelLength)
			require.True(t, strings.HasPrefix(lbl, tt.wantSymbols),
				"label %q should start with %q", lbl, tt.wantSymbols)
		})
	}
}

func TestGenerate_SingleSymbolCodeLength(t *testing.T) {
	// A one-symbol alphabet has tree depth 0.
	require.Equal(t, "q___0", Generate(bytes.Repeat([]byte("q"), 10), 4))
}

func TestGenerate_TruncatesLargeAlphabets(t *testing.T) {
	data := []byte("abcdefghijklmnopqrstuvwxyz")
	lbl := Generate(data, 3)

	// 3 symbols plus their code lengths; uniform frequencies give lengths
	// of at most two digits each.
	require.GreaterOrEqual(t, len(lbl), 3+3)
	require.NotContains(t, lbl[:3], string(rune(Filler)))
}

func TestGenerate_AppendsCodeLengths(t *testing.T) {
	// "aab": 'a' freq 2 → depth 1, 'b' freq 1 → depth 1.
	lbl := Generate([]byte("aab"), 2)
	require.Equal(t, "ab11", lbl)
}
