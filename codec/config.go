// Package codec implements the OST encode/decode/pack/unpack pipeline:
// windowing, labeling, bin aggregation, per-bin compression, and the binary
// container round trip, plus the chunk-wise streaming variants.
package codec

import (
	"fmt"

	"github.com/zenithlabs/ostpack/errs"
	"github.com/zenithlabs/ostpack/format"
	"github.com/zenithlabs/ostpack/internal/options"
	"github.com/zenithlabs/ostpack/section"
)

// Default configuration values. Fields not covered by an option fall back
// to these.
const (
	DefaultWindowLength        = 1000
	DefaultLabelLength         = 4
	DefaultMinWindowLength     = 200
	DefaultMaxWindowLength     = 2000
	DefaultEntropyThreshold    = 0.5
	DefaultSubBinningDepth     = 1
	DefaultSimilarityThreshold = 0.8
)

// Config is the immutable value object controlling one codec instance.
// Built once through NewConfig and never mutated mid-operation; a Config
// may be reused across many independent encode calls.
type Config struct {
	// WindowLength is the fixed window length in bytes.
	WindowLength int
	// LabelLength is the number of symbols in a window label.
	LabelLength int
	// Method selects the per-bin compression backend.
	Method format.CompressionMethod
	// GenericAlgorithm selects the algorithm for the generic method.
	GenericAlgorithm format.GenericAlgorithm
	// AdaptiveWindow enables entropy-adaptive windowing.
	AdaptiveWindow bool
	// MinWindowLength bounds adaptive windows from below.
	MinWindowLength int
	// MaxWindowLength bounds adaptive windows from above.
	MaxWindowLength int
	// EntropyThreshold is the adaptive boundary acceptance threshold.
	EntropyThreshold float64
	// SubBinning enables similarity-based sub-bin clustering.
	SubBinning bool
	// SubBinningDepth bounds the sub-binning recursion.
	SubBinningDepth int
	// SimilarityThreshold is the cosine-similarity cutoff for clustering.
	SimilarityThreshold float64
	// CollectMetrics enables compression statistics collection and the
	// container metrics trailer.
	CollectMetrics bool
}

// DefaultConfig returns the documented default configuration: 1000-byte
// fixed windows, 4-symbol labels, Huffman compression, no sub-binning, no
// metrics.
func DefaultConfig() Config {
	return Config{
		WindowLength:        DefaultWindowLength,
		LabelLength:         DefaultLabelLength,
		Method:              format.MethodHuffman,
		GenericAlgorithm:    format.GenericZstd,
		MinWindowLength:     DefaultMinWindowLength,
		MaxWindowLength:     DefaultMaxWindowLength,
		EntropyThreshold:    DefaultEntropyThreshold,
		SubBinningDepth:     DefaultSubBinningDepth,
		SimilarityThreshold: DefaultSimilarityThreshold,
	}
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if c.WindowLength <= 0 {
		return fmt.Errorf("%w: window length %d must be positive", errs.ErrInvalidConfig, c.WindowLength)
	}
	if c.LabelLength <= 0 {
		return fmt.Errorf("%w: label length %d must be positive", errs.ErrInvalidConfig, c.LabelLength)
	}
	if !c.Method.IsValid() {
		return fmt.Errorf("%w: method %d", errs.ErrInvalidConfig, c.Method)
	}
	if c.Method == format.MethodGeneric && !c.GenericAlgorithm.IsValid() {
		return fmt.Errorf("%w: generic algorithm %d", errs.ErrInvalidConfig, c.GenericAlgorithm)
	}
	if c.AdaptiveWindow {
		if c.MinWindowLength <= 0 {
			return fmt.Errorf("%w: min window length %d must be positive", errs.ErrInvalidConfig, c.MinWindowLength)
		}
		if c.MaxWindowLength < c.MinWindowLength {
			return fmt.Errorf("%w: max window length %d below min %d",
				errs.ErrInvalidConfig, c.MaxWindowLength, c.MinWindowLength)
		}
	}
	if c.SubBinning && c.SubBinningDepth <= 0 {
		return fmt.Errorf("%w: sub-binning depth %d must be positive", errs.ErrInvalidConfig, c.SubBinningDepth)
	}

	return nil
}

// header converts the config to its wire representation.
func (c Config) header() *section.Header {
	return &section.Header{
		WindowLength:        uint32(c.WindowLength), //nolint:gosec
		LabelLength:         uint16(c.LabelLength),  //nolint:gosec
		Method:              c.Method,
		GenericAlgorithm:    c.GenericAlgorithm,
		AdaptiveWindow:      c.AdaptiveWindow,
		MinWindowLength:     uint32(c.MinWindowLength), //nolint:gosec
		MaxWindowLength:     uint32(c.MaxWindowLength), //nolint:gosec
		EntropyThreshold:    c.EntropyThreshold,
		SubBinning:          c.SubBinning,
		SubBinningDepth:     uint8(c.SubBinningDepth), //nolint:gosec
		SimilarityThreshold: c.SimilarityThreshold,
		CollectMetrics:      c.CollectMetrics,
	}
}

// configFromHeader rebuilds a Config from its wire representation.
func configFromHeader(h *section.Header) Config {
	return Config{
		WindowLength:        int(h.WindowLength),
		LabelLength:         int(h.LabelLength),
		Method:              h.Method,
		GenericAlgorithm:    h.GenericAlgorithm,
		AdaptiveWindow:      h.AdaptiveWindow,
		MinWindowLength:     int(h.MinWindowLength),
		MaxWindowLength:     int(h.MaxWindowLength),
		EntropyThreshold:    h.EntropyThreshold,
		SubBinning:          h.SubBinning,
		SubBinningDepth:     int(h.SubBinningDepth),
		SimilarityThreshold: h.SimilarityThreshold,
		CollectMetrics:      h.CollectMetrics,
	}
}

// Option is a functional option for building a Config.
type Option = options.Option[*Config]

// NewConfig builds a validated Config from the defaults plus the given
// options.
func NewConfig(opts ...Option) (Config, error) {
	cfg := DefaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// WithWindowLength sets the fixed window length in bytes. Default 1000.
func WithWindowLength(length int) Option {
	return options.NoError(func(c *Config) {
		c.WindowLength = length
	})
}

// WithLabelLength sets the number of symbols per window label. Default 4.
func WithLabelLength(length int) Option {
	return options.NoError(func(c *Config) {
		c.LabelLength = length
	})
}

// WithMethod selects the per-bin compression method. Default
// format.MethodHuffman.
func WithMethod(method format.CompressionMethod) Option {
	return options.NoError(func(c *Config) {
		c.Method = method
	})
}

// WithGenericAlgorithm selects the algorithm used by format.MethodGeneric.
// Default format.GenericZstd.
func WithGenericAlgorithm(alg format.GenericAlgorithm) Option {
	return options.NoError(func(c *Config) {
		c.GenericAlgorithm = alg
	})
}

// WithAdaptiveWindow enables entropy-adaptive windowing with the given
// bounds and boundary threshold.
func WithAdaptiveWindow(minLength, maxLength int, entropyThreshold float64) Option {
	return options.NoError(func(c *Config) {
		c.AdaptiveWindow = true
		c.MinWindowLength = minLength
		c.MaxWindowLength = maxLength
		c.EntropyThreshold = entropyThreshold
	})
}

// WithSubBinning enables similarity-based sub-binning with the given
// recursion depth and cosine-similarity threshold.
func WithSubBinning(depth int, similarityThreshold float64) Option {
	return options.NoError(func(c *Config) {
		c.SubBinning = true
		c.SubBinningDepth = depth
		c.SimilarityThreshold = similarityThreshold
	})
}

// WithMetrics enables compression statistics collection. Default false.
func WithMetrics(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.CollectMetrics = enabled
	})
}
