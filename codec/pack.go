package codec

import (
	"fmt"
	"sort"
	"time"

	"github.com/zenithlabs/ostpack/endian"
	"github.com/zenithlabs/ostpack/errs"
	"github.com/zenithlabs/ostpack/internal/pool"
	"github.com/zenithlabs/ostpack/section"
)

// Pack serializes a container into the self-describing OST binary format.
//
// Bins are written in lexicographic label order, so packing the same
// container always yields identical bytes.
func Pack(c *Container) ([]byte, error) {
	if c == nil {
		return nil, errs.ErrNilContainer
	}
	if err := c.Config.Validate(); err != nil {
		return nil, err
	}

	buf := pool.GetContainerBuffer()
	defer pool.PutContainerBuffer(buf)

	out := section.AppendMagic(buf.Bytes())
	out = c.Config.header().Append(out)

	engine := endian.GetBigEndianEngine()
	out = engine.AppendUint32(out, uint32(len(c.Windows))) //nolint:gosec
	for i := range c.Windows {
		entry := windowEntry(&c.Windows[i])
		var err error
		if out, err = entry.Append(out); err != nil {
			return nil, err
		}
	}

	labels := make([]string, 0, len(c.Bins))
	for lbl := range c.Bins {
		labels = append(labels, lbl)
	}
	sort.Strings(labels)

	out = engine.AppendUint32(out, uint32(len(labels))) //nolint:gosec
	for _, lbl := range labels {
		entry := section.BinEntry{Label: lbl, Payload: c.Bins[lbl]}
		var err error
		if out, err = entry.Append(out); err != nil {
			return nil, err
		}
	}

	if c.Config.CollectMetrics {
		out = metricsTrailer(c.Metrics).Append(out)
	}

	// The pooled buffer backs out; hand the caller its own copy.
	packed := make([]byte, len(out))
	copy(packed, out)
	buf.B = out[:0]

	return packed, nil
}

// Unpack parses a packed buffer back into a Container. The container owns
// its memory; data may be reused afterwards.
func Unpack(data []byte) (*Container, error) {
	c, consumed, err := unpackNext(data)
	if err != nil {
		return nil, err
	}
	if consumed != len(data) {
		return nil, fmt.Errorf("%d trailing bytes after container: %w",
			len(data)-consumed, errs.ErrTruncatedContainer)
	}

	return c, nil
}

// unpackNext parses one container from the front of data, returning the
// number of bytes consumed. The streaming decoder uses it to frame
// containers inside a chunk stream.
func unpackNext(data []byte) (*Container, int, error) {
	r := section.NewReader(data)

	if err := section.CheckMagic(r); err != nil {
		return nil, 0, err
	}

	var hdr section.Header
	if err := hdr.Parse(r); err != nil {
		return nil, 0, err
	}
	cfg := configFromHeader(&hdr)

	winCount, err := r.Uint32("window count")
	if err != nil {
		return nil, 0, err
	}
	if int(winCount) > r.Remaining() {
		// Each window entry occupies at least one byte; a count beyond the
		// remaining bytes can only come from corruption.
		return nil, 0, fmt.Errorf("window count %d exceeds container size: %w",
			winCount, errs.ErrTruncatedContainer)
	}

	windows := make([]WindowInfo, winCount)
	for i := range windows {
		var entry section.WindowEntry
		if err := entry.Parse(r); err != nil {
			return nil, 0, err
		}
		windows[i] = windowInfo(&entry)
	}

	binCount, err := r.Uint32("bin count")
	if err != nil {
		return nil, 0, err
	}
	if int(binCount) > r.Remaining() {
		return nil, 0, fmt.Errorf("bin count %d exceeds container size: %w",
			binCount, errs.ErrTruncatedContainer)
	}

	bins := make(map[string][]byte, binCount)
	for i := uint32(0); i < binCount; i++ {
		var entry section.BinEntry
		if err := entry.Parse(r); err != nil {
			return nil, 0, err
		}
		payload := make([]byte, len(entry.Payload))
		copy(payload, entry.Payload)
		bins[entry.Label] = payload
	}

	c := &Container{
		Bins:    bins,
		Windows: windows,
		Config:  cfg,
	}

	if cfg.CollectMetrics {
		var trailer section.MetricsTrailer
		if err := trailer.Parse(r); err != nil {
			return nil, 0, err
		}
		c.Metrics = &Metrics{
			OriginalSize:   int64(trailer.OriginalSize),   //nolint:gosec
			CompressedSize: int64(trailer.CompressedSize), //nolint:gosec
			Ratio:          trailer.Ratio,
			EncodeTime:     time.Duration(trailer.EncodeTimeNs),
			BinCount:       int(trailer.BinCount),
			AvgBinSize:     float64(trailer.AvgBinSize),
		}
	}

	return c, r.Pos(), nil
}

func windowEntry(info *WindowInfo) *section.WindowEntry {
	entry := &section.WindowEntry{
		Label:  info.Label,
		Length: uint32(info.Length), //nolint:gosec
		Index:  uint32(info.Index),  //nolint:gosec
	}
	if info.BinOffset != UnknownOffset {
		entry.HasBinOffset = true
		entry.BinOffset = uint32(info.BinOffset) //nolint:gosec
	}
	if info.BinIndex != UnknownOffset {
		entry.HasBinIndex = true
		entry.BinIndex = uint32(info.BinIndex) //nolint:gosec
	}

	return entry
}

func windowInfo(entry *section.WindowEntry) WindowInfo {
	info := WindowInfo{
		Label:     entry.Label,
		Length:    int(entry.Length),
		Index:     int(entry.Index),
		BinOffset: UnknownOffset,
		BinIndex:  UnknownOffset,
	}
	if entry.HasBinOffset {
		info.BinOffset = int(entry.BinOffset)
	}
	if entry.HasBinIndex {
		info.BinIndex = int(entry.BinIndex)
	}

	return info
}

// metricsTrailer converts Metrics (nil-safe) to its wire form.
func metricsTrailer(m *Metrics) *section.MetricsTrailer {
	if m == nil {
		return &section.MetricsTrailer{}
	}

	return &section.MetricsTrailer{
		OriginalSize:   uint64(m.OriginalSize),   //nolint:gosec
		CompressedSize: uint64(m.CompressedSize), //nolint:gosec
		Ratio:          m.Ratio,
		EncodeTimeNs:   m.EncodeTime.Nanoseconds(),
		BinCount:       uint32(m.BinCount),  //nolint:gosec
		AvgBinSize:     float32(m.AvgBinSize),
	}
}
