package bin

import "math"

// freqVector is a window's symbol-frequency vector, the feature space for
// sub-bin clustering.
type freqVector [256]float64

func newFreqVector(data []byte) freqVector {
	var v freqVector
	for _, b := range data {
		v[b]++
	}

	return v
}

// cosineSimilarity returns the cosine of the angle between two frequency
// vectors, in [0, 1] for non-negative vectors. Zero vectors have similarity 0.
func cosineSimilarity(a, b freqVector) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// clusterBySimilarity greedily clusters n items given their pairwise
// similarity matrix. The highest-similarity unassigned pair seeds a cluster;
// any unassigned item whose average similarity to the cluster exceeds the
// threshold is absorbed. Items left over become singleton clusters.
//
// Returned clusters hold item positions (0..n-1) and preserve a
// deterministic order: formation order for seeded clusters, ascending
// position for singletons.
func clusterBySimilarity(sim [][]float64, threshold float64) [][]int {
	n := len(sim)
	assigned := make([]bool, n)
	var clusters [][]int

	for {
		// Seed: the most similar unassigned pair, if it clears the threshold.
		bestI, bestJ := -1, -1
		bestSim := threshold
		for i := 0; i < n; i++ {
			if assigned[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if assigned[j] {
					continue
				}
				if sim[i][j] > bestSim {
					bestI, bestJ = i, j
					bestSim = sim[i][j]
				}
			}
		}
		if bestI < 0 {
			break
		}

		cluster := []int{bestI, bestJ}
		assigned[bestI] = true
		assigned[bestJ] = true

		// Absorb any unassigned item close to the cluster on average.
		for k := 0; k < n; k++ {
			if assigned[k] {
				continue
			}
			total := 0.0
			for _, m := range cluster {
				total += sim[k][m]
			}
			if total/float64(len(cluster)) > threshold {
				cluster = append(cluster, k)
				assigned[k] = true
			}
		}

		clusters = append(clusters, cluster)
	}

	for i := 0; i < n; i++ {
		if !assigned[i] {
			clusters = append(clusters, []int{i})
		}
	}

	return clusters
}
