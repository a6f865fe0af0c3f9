package codec

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/zenithlabs/ostpack/compress"
	"github.com/zenithlabs/ostpack/errs"
)

// Decoder reverses Encode, reassembling the original data from a
// Container's bins and window metadata.
type Decoder struct {
	logger *zap.SugaredLogger
}

// NewDecoder creates a decoder. Diagnostics are discarded until SetLogger
// is called.
func NewDecoder() *Decoder {
	return &Decoder{logger: zap.NewNop().Sugar()}
}

// SetLogger installs a logger for reconstruction diagnostics.
func (d *Decoder) SetLogger(logger *zap.SugaredLogger) {
	if logger != nil {
		d.logger = logger
	}
}

// Decode reconstructs the original data from c.
//
// Per label group, three reconstruction cases apply, in order:
//
//	(a) a single window carries the label: the whole decompressed bin is
//	    that window;
//	(b) every window in the group has an explicit bin offset: slice the bin
//	    directly by offset and length;
//	(c) otherwise: slice sequentially in window-count order using the
//	    recorded lengths.
//
// A label group whose bin payload is missing fails with
// errs.ErrNoValidContainer. A group that runs out of bin bytes mid-slice is
// recovered locally: the missing windows decode as empty, and a warning is
// logged. The latter path indicates metadata that underdetermines
// reconstruction, not a policy.
func (d *Decoder) Decode(c *Container) ([]byte, error) {
	if c == nil {
		return nil, errs.ErrNilContainer
	}
	if len(c.Windows) == 0 {
		return []byte{}, nil
	}

	backend, err := compress.CreateCodec(c.Config.Method, c.Config.GenericAlgorithm)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]*WindowInfo)
	for i := range c.Windows {
		info := &c.Windows[i]
		groups[info.Label] = append(groups[info.Label], info)
	}

	pieces := make([][]byte, len(c.Windows))
	total := 0

	for lbl, group := range groups {
		payload, ok := c.Bins[lbl]
		if !ok {
			return nil, fmt.Errorf("%w: no bin for label %q", errs.ErrNoValidContainer, lbl)
		}

		binData, err := backend.Decompress(payload)
		if err != nil {
			return nil, fmt.Errorf("decompressing bin %q: %w", lbl, err)
		}

		if err := d.resolveGroup(lbl, group, binData, pieces); err != nil {
			return nil, err
		}
	}

	for i, p := range pieces {
		if p == nil {
			return nil, fmt.Errorf("%w: window %d was never filled", errs.ErrNoValidContainer, i)
		}
		total += len(p)
	}

	out := make([]byte, 0, total)
	for _, p := range pieces {
		out = append(out, p...)
	}

	return out, nil
}

// resolveGroup slices one label group's windows out of its decompressed bin
// payload, filling pieces at each window's original index.
func (d *Decoder) resolveGroup(lbl string, group []*WindowInfo, binData []byte, pieces [][]byte) error {
	// Case (a): the whole bin is the single window.
	if len(group) == 1 {
		info := group[0]
		if err := checkIndex(info, len(pieces)); err != nil {
			return err
		}
		pieces[info.Index] = binData

		return nil
	}

	explicit := true
	for _, info := range group {
		if info.BinOffset == UnknownOffset {
			explicit = false
			break
		}
	}

	if explicit {
		// Case (b): slice directly by recorded offsets.
		for _, info := range group {
			if err := checkIndex(info, len(pieces)); err != nil {
				return err
			}
			pieces[info.Index] = d.slice(lbl, info, binData, info.BinOffset)
		}

		return nil
	}

	// Case (c): sequential slicing in window-count order by recorded lengths.
	ordered := make([]*WindowInfo, len(group))
	copy(ordered, group)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})

	offset := 0
	for _, info := range ordered {
		if err := checkIndex(info, len(pieces)); err != nil {
			return err
		}
		pieces[info.Index] = d.slice(lbl, info, binData, offset)
		offset += info.Length
	}

	return nil
}

// slice extracts one window from binData, substituting an empty segment
// (with a warning) when the recorded metadata points past the payload.
func (d *Decoder) slice(lbl string, info *WindowInfo, binData []byte, offset int) []byte {
	end := offset + info.Length
	if offset < 0 || end > len(binData) {
		d.logger.Warnw("bin segments exhausted, substituting empty window",
			"label", lbl,
			"window", info.Index,
			"offset", offset,
			"length", info.Length,
			"binSize", len(binData),
		)

		return []byte{}
	}

	return binData[offset:end]
}

func checkIndex(info *WindowInfo, count int) error {
	if info.Index < 0 || info.Index >= count {
		return fmt.Errorf("%w: window index %d out of range [0,%d)",
			errs.ErrNoValidContainer, info.Index, count)
	}

	return nil
}
