package section

import (
	"fmt"

	"github.com/zenithlabs/ostpack/endian"
	"github.com/zenithlabs/ostpack/errs"
)

// WindowEntry flag bits.
const (
	windowFlagBinOffset = 0x01
	windowFlagBinIndex  = 0x02
)

// WindowEntry is the wire layout of one window's reconstruction metadata:
// the label the window was binned under, its length, its original index,
// and — when known — its byte offset within the bin's concatenated payload
// and its position among the bin's segments.
//
// Layout (big-endian):
//
//	label      u16 length + bytes
//	length     u32
//	index      u32
//	flags      u8   bit0 = binOffset present, bit1 = binIndex present
//	binOffset  u32  only when flag bit0
//	binIndex   u32  only when flag bit1
type WindowEntry struct {
	Label        string
	Length       uint32
	Index        uint32
	HasBinOffset bool
	BinOffset    uint32
	HasBinIndex  bool
	BinIndex     uint32
}

// Append serializes the entry to dst.
func (e *WindowEntry) Append(dst []byte) ([]byte, error) {
	if len(e.Label) > MaxLabelLength {
		return nil, fmt.Errorf("window label length %d exceeds %d", len(e.Label), MaxLabelLength)
	}

	engine := endian.GetBigEndianEngine()

	dst = engine.AppendUint16(dst, uint16(len(e.Label))) //nolint:gosec
	dst = append(dst, e.Label...)
	dst = engine.AppendUint32(dst, e.Length)
	dst = engine.AppendUint32(dst, e.Index)

	var flags byte
	if e.HasBinOffset {
		flags |= windowFlagBinOffset
	}
	if e.HasBinIndex {
		flags |= windowFlagBinIndex
	}
	dst = append(dst, flags)

	if e.HasBinOffset {
		dst = engine.AppendUint32(dst, e.BinOffset)
	}
	if e.HasBinIndex {
		dst = engine.AppendUint32(dst, e.BinIndex)
	}

	return dst, nil
}

// Parse reads one entry from r.
func (e *WindowEntry) Parse(r *Reader) error {
	var err error

	if e.Label, err = r.LabelString("window label"); err != nil {
		return err
	}
	if e.Length, err = r.Uint32("window length"); err != nil {
		return err
	}
	if e.Index, err = r.Uint32("window index"); err != nil {
		return err
	}

	flags, err := r.Uint8("window flags")
	if err != nil {
		return err
	}
	if flags&^(windowFlagBinOffset|windowFlagBinIndex) != 0 {
		return fmt.Errorf("unknown window flags %#x: %w", flags, errs.ErrTruncatedContainer)
	}

	e.HasBinOffset = flags&windowFlagBinOffset != 0
	e.HasBinIndex = flags&windowFlagBinIndex != 0

	if e.HasBinOffset {
		if e.BinOffset, err = r.Uint32("window bin offset"); err != nil {
			return err
		}
	}
	if e.HasBinIndex {
		if e.BinIndex, err = r.Uint32("window bin index"); err != nil {
			return err
		}
	}

	return nil
}
