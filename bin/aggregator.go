package bin

import (
	"fmt"
	"sort"

	"github.com/zenithlabs/ostpack/window"
)

// LabeledWindow pairs a window with its content-derived label.
type LabeledWindow struct {
	Window window.Window
	Label  string
}

// Config controls aggregation behavior.
type Config struct {
	// SubBinning splits label groups by pairwise content similarity.
	SubBinning bool
	// Depth bounds the sub-binning recursion.
	Depth int
	// SimilarityThreshold is the minimum average cosine similarity for a
	// window to join a cluster.
	SimilarityThreshold float64
}

// Aggregate groups labeled windows into bins keyed by label. With
// sub-binning enabled, a label group larger than one window is clustered by
// cosine similarity of symbol-frequency vectors, each cluster becoming a
// sub-bin labeled "<parent>_<clusterIndex>", recursively up to Config.Depth
// levels.
//
// Every window lands in exactly one bin; segments within a bin are appended
// in ascending original-index order.
func Aggregate(windows []LabeledWindow, cfg Config) map[string]*Bin {
	groups := make(map[string][]window.Window)
	var order []string
	for _, lw := range windows {
		if _, ok := groups[lw.Label]; !ok {
			order = append(order, lw.Label)
		}
		groups[lw.Label] = append(groups[lw.Label], lw.Window)
	}

	bins := make(map[string]*Bin, len(groups))
	for _, lbl := range order {
		members := groups[lbl]
		if cfg.SubBinning && cfg.Depth > 0 && len(members) > 1 {
			subdivide(lbl, members, cfg.Depth, cfg.SimilarityThreshold, bins)
		} else {
			fill(lbl, members, bins)
		}
	}

	return bins
}

// subdivide clusters members by similarity and recurses into each cluster
// until the depth budget runs out or a cluster stops splitting.
func subdivide(lbl string, members []window.Window, depth int, threshold float64, bins map[string]*Bin) {
	if depth <= 0 || len(members) < 2 {
		fill(lbl, members, bins)
		return
	}

	vectors := make([]freqVector, len(members))
	for i, w := range members {
		vectors[i] = newFreqVector(w.Data)
	}

	sim := make([][]float64, len(members))
	for i := range sim {
		sim[i] = make([]float64, len(members))
		for j := i + 1; j < len(members); j++ {
			sim[i][j] = cosineSimilarity(vectors[i], vectors[j])
		}
	}
	for i := range sim {
		for j := 0; j < i; j++ {
			sim[i][j] = sim[j][i]
		}
	}

	clusters := clusterBySimilarity(sim, threshold)
	if len(clusters) == 1 {
		// Everything clustered together; no point relabeling.
		fill(lbl, members, bins)
		return
	}

	for ci, cluster := range clusters {
		sub := make([]window.Window, len(cluster))
		for i, pos := range cluster {
			sub[i] = members[pos]
		}
		subdivide(fmt.Sprintf("%s_%d", lbl, ci), sub, depth-1, threshold, bins)
	}
}

// fill appends members to the bin for lbl in ascending original-index order.
func fill(lbl string, members []window.Window, bins map[string]*Bin) {
	sort.Slice(members, func(i, j int) bool {
		return members[i].Index < members[j].Index
	})

	b := New(lbl)
	for _, w := range members {
		b.Append(w.Data, w.Index)
	}
	bins[lbl] = b
}
