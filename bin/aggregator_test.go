package bin

import (
	"bytes"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zenithlabs/ostpack/window"
)

func labeledSet(contents []string, labels []string) []LabeledWindow {
	out := make([]LabeledWindow, len(contents))
	for i := range contents {
		out[i] = LabeledWindow{
			Window: window.Window{Data: []byte(contents[i]), Index: i},
			Label:  labels[i],
		}
	}

	return out
}

func TestBin_AppendOffsets(t *testing.T) {
	b := New("lbl")
	b.Append([]byte("abc"), 0)
	b.Append([]byte("de"), 3)
	b.Append([]byte(""), 5)
	b.Append([]byte("fghi"), 7)

	require.Equal(t, "lbl", b.Label())
	require.Equal(t, 9, b.Size())
	require.Equal(t, []byte("abcdefghi"), b.Concat())

	// Offsets partition the payload with no gaps or overlaps.
	expected := 0
	for _, seg := range b.Segments() {
		require.Equal(t, expected, seg.Offset)
		require.Equal(t, len(seg.Data), seg.Length)
		expected += seg.Length
	}
	require.Equal(t, b.Size(), expected)
}

func TestAggregate_GroupsByLabel(t *testing.T) {
	windows := labeledSet(
		[]string{"aaa", "bbb", "aac", "bbd"},
		[]string{"A", "B", "A", "B"},
	)

	bins := Aggregate(windows, Config{})

	require.Len(t, bins, 2)
	require.Equal(t, []byte("aaaaac"), bins["A"].Concat())
	require.Equal(t, []byte("bbbbbd"), bins["B"].Concat())

	require.Equal(t, []int{0, 2}, segmentIndices(bins["A"]))
	require.Equal(t, []int{1, 3}, segmentIndices(bins["B"]))
}

func segmentIndices(b *Bin) []int {
	out := make([]int, 0, len(b.Segments()))
	for _, seg := range b.Segments() {
		out = append(out, seg.Index)
	}

	return out
}

// checkPartition verifies every window lands in exactly one bin.
func checkPartition(t *testing.T, windows []LabeledWindow, bins map[string]*Bin) {
	t.Helper()

	var indices []int
	for _, b := range bins {
		indices = append(indices, segmentIndices(b)...)
	}
	sort.Ints(indices)

	require.Len(t, indices, len(windows))
	for i, idx := range indices {
		require.Equal(t, i, idx, "window %d missing or duplicated", i)
	}
}

func TestAggregate_SubBinningPartition(t *testing.T) {
	// Two very similar pairs plus an outlier under one label.
	windows := labeledSet(
		[]string{
			strings.Repeat("ab", 50),
			strings.Repeat("ab", 50),
			strings.Repeat("xy", 50),
			strings.Repeat("xy", 50),
			"0123456789",
		},
		[]string{"L", "L", "L", "L", "L"},
	)

	bins := Aggregate(windows, Config{
		SubBinning:          true,
		Depth:               1,
		SimilarityThreshold: 0.8,
	})

	checkPartition(t, windows, bins)
	require.Greater(t, len(bins), 1, "similar pairs should split into sub-bins")

	for lbl := range bins {
		require.True(t, strings.HasPrefix(lbl, "L"), "sub-bin label %q keeps parent prefix", lbl)
	}
}

func TestAggregate_SubBinningSingletonGroupKeepsLabel(t *testing.T) {
	windows := labeledSet([]string{"only"}, []string{"solo"})

	bins := Aggregate(windows, Config{SubBinning: true, Depth: 2, SimilarityThreshold: 0.5})

	require.Len(t, bins, 1)
	require.NotNil(t, bins["solo"])
}

func TestAggregate_SubBinningDepthBound(t *testing.T) {
	contents := make([]string, 8)
	labels := make([]string, 8)
	for i := range contents {
		contents[i] = strings.Repeat(string(rune('a'+i%2)), 20)
		labels[i] = "P"
	}
	windows := labeledSet(contents, labels)

	bins := Aggregate(windows, Config{
		SubBinning:          true,
		Depth:               2,
		SimilarityThreshold: 0.9,
	})

	checkPartition(t, windows, bins)

	// Labels never nest deeper than the depth budget.
	for lbl := range bins {
		require.LessOrEqual(t, strings.Count(lbl, "_"), 2, "label %q", lbl)
	}
}

func TestCosineSimilarity(t *testing.T) {
	identical := cosineSimilarity(newFreqVector([]byte("aabb")), newFreqVector([]byte("bbaa")))
	require.InDelta(t, 1.0, identical, 1e-9)

	disjoint := cosineSimilarity(newFreqVector([]byte("aaaa")), newFreqVector([]byte("bbbb")))
	require.InDelta(t, 0.0, disjoint, 1e-9)

	require.Equal(t, 0.0, cosineSimilarity(newFreqVector(nil), newFreqVector([]byte("a"))))

	partial := cosineSimilarity(newFreqVector([]byte("aab")), newFreqVector([]byte("abb")))
	require.Greater(t, partial, 0.0)
	require.Less(t, partial, 1.0)
}

func TestClusterBySimilarity(t *testing.T) {
	// Items 0/1 and 2/3 are perfect pairs; item 4 matches nothing.
	sim := [][]float64{
		{0, 1.0, 0.1, 0.1, 0.0},
		{1.0, 0, 0.1, 0.1, 0.0},
		{0.1, 0.1, 0, 1.0, 0.0},
		{0.1, 0.1, 1.0, 0, 0.0},
		{0.0, 0.0, 0.0, 0.0, 0},
	}

	clusters := clusterBySimilarity(sim, 0.8)

	require.Len(t, clusters, 3)
	require.ElementsMatch(t, []int{0, 1}, clusters[0])
	require.ElementsMatch(t, []int{2, 3}, clusters[1])
	require.Equal(t, []int{4}, clusters[2])
}

func TestAggregate_EmptyInput(t *testing.T) {
	require.Empty(t, Aggregate(nil, Config{}))
}

func TestBin_ConcatMatchesWindowOrder(t *testing.T) {
	var buf bytes.Buffer
	b := New("x")
	for i, s := range []string{"one", "two", "three"} {
		b.Append([]byte(s), i)
		buf.WriteString(s)
	}

	require.Equal(t, buf.Bytes(), b.Concat())
}
