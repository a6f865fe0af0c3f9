package codec

import "time"

// UnknownOffset marks a WindowInfo bin offset or bin index that was not
// recorded during encoding.
const UnknownOffset = -1

// WindowInfo is one window's reconstruction metadata, created during
// encoding and consumed only during decoding. Ordering by Index
// reconstructs the original sequence.
type WindowInfo struct {
	// Label is the bin label the window was grouped under.
	Label string
	// Length is the window length in bytes.
	Length int
	// Index is the window's 0-based position among all windows.
	Index int
	// BinOffset is the window's byte offset within its bin's concatenated
	// payload, or UnknownOffset.
	BinOffset int
	// BinIndex is the window's position among its bin's segments, or
	// UnknownOffset.
	BinIndex int
}

// Container is the result of Encode: the label→compressed-payload mapping
// plus everything Decode needs to reverse it. Immutable once encoding
// completes.
type Container struct {
	// Bins maps each bin label to its compressed payload.
	Bins map[string][]byte
	// Windows is the full reconstruction metadata, one entry per window.
	Windows []WindowInfo
	// Config is the configuration the container was encoded with.
	Config Config
	// Metrics holds compression statistics when Config.CollectMetrics is
	// set, nil otherwise.
	Metrics *Metrics
}

// Metrics captures compression statistics for one encode call.
type Metrics struct {
	// OriginalSize is the input size in bytes.
	OriginalSize int64
	// CompressedSize is the total size of all compressed bin payloads.
	CompressedSize int64
	// Ratio is OriginalSize / CompressedSize; values above 1 indicate
	// effective compression.
	Ratio float64
	// EncodeTime is the wall time spent in Encode.
	EncodeTime time.Duration
	// BinCount is the number of bins produced.
	BinCount int
	// AvgBinSize is the mean uncompressed bin payload size.
	AvgBinSize float64
}
