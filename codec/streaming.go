package codec

import (
	"errors"
	"fmt"

	"github.com/zenithlabs/ostpack/bin"
	"github.com/zenithlabs/ostpack/errs"
	"github.com/zenithlabs/ostpack/label"
	"github.com/zenithlabs/ostpack/window"
)

// StreamingEncoder encodes data arriving in chunks. It accumulates bytes,
// cuts complete fixed-length windows as they become available, and defers
// all aggregation and compression to Flush.
//
// Streaming supports fixed windowing only: adaptive boundaries need
// lookahead past the chunk edge. The pipeline is synchronous and
// single-threaded; chunks are processed strictly in call order.
type StreamingEncoder struct {
	cfg     Config
	encoder *Encoder
	pending []byte
	windows []window.Window
	total   int
	closed  bool
}

// NewStreamingEncoder creates a streaming encoder. Adaptive windowing in
// cfg is rejected.
func NewStreamingEncoder(cfg Config) (*StreamingEncoder, error) {
	if cfg.AdaptiveWindow {
		return nil, fmt.Errorf("%w: streaming supports fixed windowing only", errs.ErrInvalidConfig)
	}

	enc, err := NewEncoder(cfg)
	if err != nil {
		return nil, err
	}

	return &StreamingEncoder{cfg: cfg, encoder: enc}, nil
}

// Write feeds one chunk into the encoder and returns the number of complete
// windows cut so far across all chunks.
func (s *StreamingEncoder) Write(chunk []byte) (int, error) {
	if s.closed {
		return 0, errs.ErrStreamClosed
	}

	s.pending = append(s.pending, chunk...)
	s.total += len(chunk)

	for len(s.pending) >= s.cfg.WindowLength {
		data := make([]byte, s.cfg.WindowLength)
		copy(data, s.pending[:s.cfg.WindowLength])
		s.windows = append(s.windows, window.Window{Data: data, Index: len(s.windows)})
		s.pending = s.pending[s.cfg.WindowLength:]
	}

	return len(s.windows), nil
}

// Flush cuts the final short window from any pending bytes, then runs the
// same aggregation and compression as the non-streaming encoder over
// everything accumulated. The encoder is closed afterwards.
func (s *StreamingEncoder) Flush() (*Container, error) {
	if s.closed {
		return nil, errs.ErrStreamClosed
	}
	s.closed = true

	if len(s.pending) > 0 {
		data := make([]byte, len(s.pending))
		copy(data, s.pending)
		s.windows = append(s.windows, window.Window{Data: data, Index: len(s.windows)})
		s.pending = nil
	}

	labeled := make([]bin.LabeledWindow, len(s.windows))
	for i, w := range s.windows {
		labeled[i] = bin.LabeledWindow{
			Window: w,
			Label:  label.Generate(w.Data, s.cfg.LabelLength),
		}
	}

	bins := bin.Aggregate(labeled, bin.Config{
		SubBinning:          s.cfg.SubBinning,
		Depth:               s.cfg.SubBinningDepth,
		SimilarityThreshold: s.cfg.SimilarityThreshold,
	})

	infos := make([]WindowInfo, len(s.windows))
	for _, b := range bins {
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
	for lbl, b := range bins {
		payload, err := s.encoder.backend.Compress(b.Concat())
		if err != nil {
			return nil, fmt.Errorf("compressing bin %q: %w", lbl, err)
		}
		payloads[lbl] = payload
	}

	return &Container{
		Bins:    payloads,
		Windows: infos,
		Config:  s.cfg,
	}, nil
}

// StreamingDecoder decodes packed containers arriving in chunks. Input is
// framed on container boundaries: as soon as the accumulated bytes hold a
// complete container, it is decoded and its output returned.
type StreamingDecoder struct {
	decoder *Decoder
	pending []byte
	closed  bool
}

// NewStreamingDecoder creates a streaming decoder.
func NewStreamingDecoder() *StreamingDecoder {
	return &StreamingDecoder{decoder: NewDecoder()}
}

// Decoder returns the underlying decoder, e.g. to install a logger.
func (s *StreamingDecoder) Decoder() *Decoder {
	return s.decoder
}

// Write feeds one chunk in and returns the decoded output of every
// container completed by this chunk, or nil if more bytes are needed.
//
// Format errors other than truncation (bad magic, corrupt payload) are
// fatal and returned immediately.
func (s *StreamingDecoder) Write(chunk []byte) ([]byte, error) {
	if s.closed {
		return nil, errs.ErrStreamClosed
	}

	s.pending = append(s.pending, chunk...)

	var out []byte
	for len(s.pending) > 0 {
		c, consumed, err := unpackNext(s.pending)
		if err != nil {
			if errors.Is(err, errs.ErrTruncatedContainer) {
				// Incomplete container; wait for more chunks.
				break
			}

			return nil, err
		}

		decoded, err := s.decoder.Decode(c)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded...)
		s.pending = s.pending[consumed:]
	}

	return out, nil
}

// Flush decodes any remaining buffered container and closes the decoder.
// Leftover bytes that do not form a complete container fail with a
// truncation error.
func (s *StreamingDecoder) Flush() ([]byte, error) {
	if s.closed {
		return nil, errs.ErrStreamClosed
	}
	s.closed = true

	if len(s.pending) == 0 {
		return []byte{}, nil
	}

	c, consumed, err := unpackNext(s.pending)
	if err != nil {
		return nil, err
	}
	if consumed != len(s.pending) {
		return nil, fmt.Errorf("%d trailing bytes after container: %w",
			len(s.pending)-consumed, errs.ErrTruncatedContainer)
	}
	s.pending = nil

	return s.decoder.Decode(c)
}
