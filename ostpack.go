// Package ostpack implements a content-adaptive compression codec.
//
// Input data is split into windows, each window gets a content-derived
// label from a Huffman analysis of its symbol frequencies, same-label
// windows are grouped into bins (optionally sub-divided by content
// similarity), each bin is compressed independently, and the result is
// serialized into a self-describing binary container opening with the
// ASCII magic number "OST1". Decoding reverses every step exactly using
// per-window metadata.
//
// # Basic Usage
//
//	cfg, _ := ostpack.NewConfig(
//	    ostpack.WithWindowLength(512),
//	    ostpack.WithMetrics(true),
//	)
//
//	container, _ := ostpack.Encode(data, cfg)
//	packed, _ := ostpack.Pack(container)
//
//	// ... store or transmit packed ...
//
//	container, _ = ostpack.Unpack(packed)
//	original, _ := ostpack.Decode(container)
//
// # Streaming
//
//	enc, _ := ostpack.NewStreamingEncoder(cfg)
//	for _, chunk := range chunks {
//	    enc.Write(chunk)
//	}
//	container, _ := enc.Flush()
//
// # Parallel bundles
//
//	results, _ := ostpack.CompressBundles([]ostpack.Bundle{
//	    {ID: "a", Data: dataA},
//	    {ID: "b", Data: dataB},
//	}, cfg)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the codec and
// parallel packages, simplifying the most common use cases. For
// fine-grained control (injecting loggers, custom pool sizes), use those
// packages directly.
package ostpack

import (
	"github.com/zenithlabs/ostpack/codec"
	"github.com/zenithlabs/ostpack/internal/hash"
	"github.com/zenithlabs/ostpack/parallel"
)

// Re-exported codec types for the common path.
type (
	// Config controls windowing, labeling, binning, and compression.
	Config = codec.Config
	// Option is a functional option for NewConfig.
	Option = codec.Option
	// Container is the result of Encode and the input to Decode.
	Container = codec.Container
	// WindowInfo is one window's reconstruction metadata.
	WindowInfo = codec.WindowInfo
	// Metrics holds compression statistics.
	Metrics = codec.Metrics
	// Bundle is one unit of parallel compression work.
	Bundle = parallel.Bundle
	// BundleResult is one bundle's outcome.
	BundleResult = parallel.BundleResult
)

// NewConfig builds a validated configuration from the documented defaults
// (1000-byte windows, 4-symbol labels, Huffman method) plus the given
// options. See codec.Option for the available options.
func NewConfig(opts ...Option) (Config, error) {
	return codec.NewConfig(opts...)
}

// DefaultConfig returns the documented default configuration.
func DefaultConfig() Config {
	return codec.DefaultConfig()
}

// Re-exported configuration options.
var (
	WithWindowLength     = codec.WithWindowLength
	WithLabelLength      = codec.WithLabelLength
	WithMethod           = codec.WithMethod
	WithGenericAlgorithm = codec.WithGenericAlgorithm
	WithAdaptiveWindow   = codec.WithAdaptiveWindow
	WithSubBinning       = codec.WithSubBinning
	WithMetrics          = codec.WithMetrics
)

// Encode compresses data into a Container using cfg.
func Encode(data []byte, cfg Config) (*Container, error) {
	enc, err := codec.NewEncoder(cfg)
	if err != nil {
		return nil, err
	}

	return enc.Encode(data)
}

// EncodeDefault compresses data with the default configuration.
func EncodeDefault(data []byte) (*Container, error) {
	return Encode(data, codec.DefaultConfig())
}

// Decode reconstructs the original data from a Container.
func Decode(c *Container) ([]byte, error) {
	return codec.NewDecoder().Decode(c)
}

// Pack serializes a Container into the OST binary format.
func Pack(c *Container) ([]byte, error) {
	return codec.Pack(c)
}

// Unpack parses a packed buffer back into a Container. A buffer that does
// not open with the "OST1" magic number fails with errs.ErrInvalidMagic.
func Unpack(data []byte) (*Container, error) {
	return codec.Unpack(data)
}

// NewStreamingEncoder creates a chunk-wise encoder for data arriving
// incrementally. Fixed windowing only.
func NewStreamingEncoder(cfg Config) (*codec.StreamingEncoder, error) {
	return codec.NewStreamingEncoder(cfg)
}

// NewStreamingDecoder creates a chunk-wise decoder for packed containers
// arriving incrementally.
func NewStreamingDecoder() *codec.StreamingDecoder {
	return codec.NewStreamingDecoder()
}

// CompressBundles compresses independent bundles across a bounded worker
// pool of max(2, cores-1) workers. Per-bundle failures are isolated: check
// each BundleResult.Err.
func CompressBundles(bundles []Bundle, cfg Config) ([]BundleResult, error) {
	return parallel.CompressBundles(bundles, cfg, 0)
}

// BundleID computes the xxHash64 content identifier used in bundle
// manifests.
func BundleID(data []byte) uint64 {
	return hash.Sum(data)
}
