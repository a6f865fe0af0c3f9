// Package window splits input data into ordered windows, the unit of
// labeling and bin aggregation. Two modes exist: fixed-length windows and
// entropy-adaptive windows whose boundaries track local information content.
package window

// Window is a contiguous slice of the original input. Immutable once
// created; Data aliases the input buffer and must not be modified.
type Window struct {
	// Data is the window's raw content.
	Data []byte
	// Index is the window's 0-based position among all windows.
	Index int
}

// Length returns the window length in bytes.
func (w Window) Length() int {
	return len(w.Data)
}

// Config controls segmentation. The zero value is not valid; callers supply
// values resolved from the codec configuration.
type Config struct {
	// WindowLength is the fixed window length for non-adaptive mode.
	WindowLength int
	// Adaptive enables entropy-adaptive boundary selection.
	Adaptive bool
	// MinWindowLength is the smallest adaptive window and the boundary probe
	// increment.
	MinWindowLength int
	// MaxWindowLength caps adaptive windows.
	MaxWindowLength int
	// EntropyThreshold is the normalized local entropy below which a
	// candidate boundary is accepted.
	EntropyThreshold float64
}

// Segment splits data into ordered windows. The concatenation of the
// returned windows always reproduces data exactly; empty input yields zero
// windows.
func Segment(data []byte, cfg Config) []Window {
	if len(data) == 0 {
		return nil
	}

	if cfg.Adaptive {
		return segmentAdaptive(data, cfg)
	}

	return segmentFixed(data, cfg.WindowLength)
}

// segmentFixed produces windows of exactly length bytes; the final window
// may be shorter.
func segmentFixed(data []byte, length int) []Window {
	if length <= 0 {
		length = 1
	}

	windows := make([]Window, 0, (len(data)+length-1)/length)
	for start := 0; start < len(data); start += length {
		end := min(start+length, len(data))
		windows = append(windows, Window{Data: data[start:end], Index: len(windows)})
	}

	return windows
}

// segmentAdaptive probes candidate boundaries in MinWindowLength increments.
// At each candidate it measures the normalized Shannon entropy of a
// symmetric neighborhood of MinWindowLength bytes around the boundary; the
// first candidate whose local entropy falls below the threshold wins,
// otherwise the window is capped at MaxWindowLength.
//
// Low local entropy marks a homogeneous region, a natural place to cut: both
// sides of the boundary stay self-similar and compress well independently.
func segmentAdaptive(data []byte, cfg Config) []Window {
	minLen := cfg.MinWindowLength
	maxLen := cfg.MaxWindowLength
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}

	var windows []Window
	start := 0
	for start < len(data) {
		end := adaptiveBoundary(data, start, minLen, maxLen, cfg.EntropyThreshold)
		windows = append(windows, Window{Data: data[start:end], Index: len(windows)})
		start = end
	}

	return windows
}

func adaptiveBoundary(data []byte, start, minLen, maxLen int, threshold float64) int {
	limit := min(start+maxLen, len(data))

	for cand := start + minLen; cand < limit; cand += minLen {
		if shannonEntropy(neighborhood(data, cand, minLen)) < threshold {
			return cand
		}
	}

	return limit
}

// neighborhood returns the symmetric sample of size bytes centered on pos,
// clipped to the data bounds.
func neighborhood(data []byte, pos, size int) []byte {
	half := size / 2
	lo := max(pos-half, 0)
	hi := min(pos+half, len(data))

	return data[lo:hi]
}
