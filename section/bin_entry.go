package section

import (
	"fmt"

	"github.com/zenithlabs/ostpack/endian"
)

// BinEntry is the wire layout of one compressed bin: its label and its
// compressed payload.
//
// Layout (big-endian):
//
//	label    u16 length + bytes
//	payload  u32 length + bytes
type BinEntry struct {
	Label   string
	Payload []byte
}

// Append serializes the entry to dst.
func (e *BinEntry) Append(dst []byte) ([]byte, error) {
	if len(e.Label) > MaxLabelLength {
		return nil, fmt.Errorf("bin label length %d exceeds %d", len(e.Label), MaxLabelLength)
	}

	engine := endian.GetBigEndianEngine()

	dst = engine.AppendUint16(dst, uint16(len(e.Label))) //nolint:gosec
	dst = append(dst, e.Label...)
	dst = engine.AppendUint32(dst, uint32(len(e.Payload))) //nolint:gosec
	dst = append(dst, e.Payload...)

	return dst, nil
}

// Parse reads one entry from r. The payload slice aliases the container
// bytes; callers that outlive the container must copy it.
func (e *BinEntry) Parse(r *Reader) error {
	var err error

	if e.Label, err = r.LabelString("bin label"); err != nil {
		return err
	}

	payloadLen, err := r.Uint32("bin payload length")
	if err != nil {
		return err
	}

	if e.Payload, err = r.Bytes(int(payloadLen), "bin payload"); err != nil {
		return err
	}

	return nil
}
