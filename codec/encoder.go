package codec

import (
	"fmt"
	"time"

	"github.com/zenithlabs/ostpack/bin"
	"github.com/zenithlabs/ostpack/compress"
	"github.com/zenithlabs/ostpack/errs"
	"github.com/zenithlabs/ostpack/label"
	"github.com/zenithlabs/ostpack/window"
)

// Encoder runs the encode pipeline: segment → label → aggregate → compress.
//
// The compression backend is resolved once at construction and injected
// into every encode call; an Encoder is safe for concurrent use because all
// per-call state lives on the stack of Encode.
type Encoder struct {
	cfg     Config
	backend compress.Codec
}

// NewEncoder creates an encoder for the given configuration.
func NewEncoder(cfg Config) (*Encoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backend, err := compress.CreateCodec(cfg.Method, cfg.GenericAlgorithm)
	if err != nil {
		return nil, err
	}

	return &Encoder{cfg: cfg, backend: backend}, nil
}

// Config returns the encoder's configuration.
func (e *Encoder) Config() Config {
	return e.cfg
}

// Encode compresses data into a Container.
//
// Empty (non-nil) input is valid and produces a container with zero windows
// and zero bins; nil input fails with errs.ErrNilInput before any work is
// performed.
func (e *Encoder) Encode(data []byte) (*Container, error) {
	if data == nil {
		return nil, errs.ErrNilInput
	}

	var start time.Time
	if e.cfg.CollectMetrics {
		start = time.Now()
	}

	windows := window.Segment(data, window.Config{
		WindowLength:     e.cfg.WindowLength,
		Adaptive:         e.cfg.AdaptiveWindow,
		MinWindowLength:  e.cfg.MinWindowLength,
		MaxWindowLength:  e.cfg.MaxWindowLength,
		EntropyThreshold: e.cfg.EntropyThreshold,
	})

	labeled := make([]bin.LabeledWindow, len(windows))
	for i, w := range windows {
		labeled[i] = bin.LabeledWindow{
			Window: w,
			Label:  label.Generate(w.Data, e.cfg.LabelLength),
		}
	}

	bins := bin.Aggregate(labeled, bin.Config{
		SubBinning:          e.cfg.SubBinning,
		Depth:               e.cfg.SubBinningDepth,
		SimilarityThreshold: e.cfg.SimilarityThreshold,
	})

	// Back-fill reconstruction metadata from the finalized bins. Offsets are
	// only known here: aggregation is label-driven and sub-binning may have
	// replaced a window's original label with a sub-bin label.
	infos := make([]WindowInfo, len(windows))
	uncompressedTotal := 0
	for _, b := range bins {
		uncompressedTotal += b.Size()
		for binIdx, seg := range b.Segments() {
			infos[seg.Index] = WindowInfo{
				Label:     b.Label(),
				Length:    seg.Length,
				Index:     seg.Index,
				BinOffset: seg.Offset,
				BinIndex:  binIdx,
			}
		}
	}

	payloads := make(map[string][]byte, len(bins))
	compressedTotal := 0
	for lbl, b := range bins {
		payload, err := e.backend.Compress(b.Concat())
		if err != nil {
			return nil, fmt.Errorf("compressing bin %q: %w", lbl, err)
		}
		payloads[lbl] = payload
		compressedTotal += len(payload)
	}

	c := &Container{
		Bins:    payloads,
		Windows: infos,
		Config:  e.cfg,
	}

	if e.cfg.CollectMetrics {
		m := &Metrics{
			OriginalSize:   int64(len(data)),
			CompressedSize: int64(compressedTotal),
			EncodeTime:     time.Since(start),
			BinCount:       len(bins),
		}
		if compressedTotal > 0 {
			m.Ratio = float64(len(data)) / float64(compressedTotal)
		}
		if len(bins) > 0 {
			m.AvgBinSize = float64(uncompressedTotal) / float64(len(bins))
		}
		c.Metrics = m
	}

	return c, nil
}
