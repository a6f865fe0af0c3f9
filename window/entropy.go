package window

import "math"

// shannonEntropy computes the Shannon entropy of sample, normalized to
// [0, 1] by dividing by log2(min(len(sample), distinct symbols)).
//
// A sample with fewer than two bytes or a single distinct symbol carries no
// information and reports 0.
func shannonEntropy(sample []byte) float64 {
	if len(sample) < 2 {
		return 0
	}

	var counts [256]int
	distinct := 0
	for _, b := range sample {
		if counts[b] == 0 {
			distinct++
		}
		counts[b]++
	}

	if distinct < 2 {
		return 0
	}

	total := float64(len(sample))
	entropy := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		entropy -= p * math.Log2(p)
	}

	maxSymbols := min(len(sample), distinct)

	return entropy / math.Log2(float64(maxSymbols))
}
