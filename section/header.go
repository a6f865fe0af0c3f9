package section

import (
	"fmt"
	"math"

	"github.com/zenithlabs/ostpack/endian"
	"github.com/zenithlabs/ostpack/errs"
	"github.com/zenithlabs/ostpack/format"
)

// Header is the wire representation of the compression configuration.
// It is 36 bytes, length-prefixed on the wire so older readers can skip
// fields appended by future versions.
//
// Layout (big-endian):
//
//	windowLength        u32   offset 0-3
//	labelLength         u16   offset 4-5
//	method              u8    offset 6
//	genericAlgorithm    u8    offset 7
//	adaptiveWindow      u8    offset 8
//	minWindowLength     u32   offset 9-12
//	maxWindowLength     u32   offset 13-16
//	entropyThreshold    f64   offset 17-24
//	subBinning          u8    offset 25
//	subBinningDepth     u8    offset 26
//	similarityThreshold f64   offset 27-34
//	collectMetrics      u8    offset 35
type Header struct {
	WindowLength        uint32
	LabelLength         uint16
	Method              format.CompressionMethod
	GenericAlgorithm    format.GenericAlgorithm
	AdaptiveWindow      bool
	MinWindowLength     uint32
	MaxWindowLength     uint32
	EntropyThreshold    float64
	SubBinning          bool
	SubBinningDepth     uint8
	SimilarityThreshold float64
	CollectMetrics      bool
}

func boolByte(b bool) byte {
	if b {
		return 1
	}

	return 0
}

// Append serializes the header as a length-prefixed config block.
func (h *Header) Append(dst []byte) []byte {
	engine := endian.GetBigEndianEngine()

	dst = engine.AppendUint32(dst, HeaderSize)
	dst = engine.AppendUint32(dst, h.WindowLength)
	dst = engine.AppendUint16(dst, h.LabelLength)
	dst = append(dst, byte(h.Method), byte(h.GenericAlgorithm), boolByte(h.AdaptiveWindow))
	dst = engine.AppendUint32(dst, h.MinWindowLength)
	dst = engine.AppendUint32(dst, h.MaxWindowLength)
	dst = engine.AppendUint64(dst, math.Float64bits(h.EntropyThreshold))
	dst = append(dst, boolByte(h.SubBinning), h.SubBinningDepth)
	dst = engine.AppendUint64(dst, math.Float64bits(h.SimilarityThreshold))
	dst = append(dst, boolByte(h.CollectMetrics))

	return dst
}

// Parse reads a length-prefixed config block from r.
func (h *Header) Parse(r *Reader) error {
	confLen, err := r.Uint32("config block length")
	if err != nil {
		return err
	}
	if confLen < HeaderSize {
		return fmt.Errorf("config block length %d below minimum %d: %w",
			confLen, HeaderSize, errs.ErrTruncatedContainer)
	}

	block, err := r.Bytes(int(confLen), "config block")
	if err != nil {
		return err
	}

	engine := endian.GetBigEndianEngine()
	h.WindowLength = engine.Uint32(block[0:4])
	h.LabelLength = engine.Uint16(block[4:6])
	h.Method = format.CompressionMethod(block[6])
	h.GenericAlgorithm = format.GenericAlgorithm(block[7])
	h.AdaptiveWindow = block[8] != 0
	h.MinWindowLength = engine.Uint32(block[9:13])
	h.MaxWindowLength = engine.Uint32(block[13:17])
	h.EntropyThreshold = math.Float64frombits(engine.Uint64(block[17:25]))
	h.SubBinning = block[25] != 0
	h.SubBinningDepth = block[26]
	h.SimilarityThreshold = math.Float64frombits(engine.Uint64(block[27:35]))
	h.CollectMetrics = block[35] != 0

	if !h.Method.IsValid() {
		return fmt.Errorf("%w: %d", errs.ErrInvalidMethod, h.Method)
	}
	if h.Method == format.MethodGeneric && !h.GenericAlgorithm.IsValid() {
		return fmt.Errorf("%w: generic algorithm %d", errs.ErrInvalidMethod, h.GenericAlgorithm)
	}

	return nil
}

// CheckMagic consumes and validates the magic number at the front of r.
func CheckMagic(r *Reader) error {
	b, err := r.Bytes(MagicSize, "magic number")
	if err != nil {
		return err
	}

	if [4]byte(b) != Magic {
		return fmt.Errorf("%w: got %q, want %q", errs.ErrInvalidMagic, b, Magic[:])
	}

	return nil
}

// AppendMagic appends the magic number to dst.
func AppendMagic(dst []byte) []byte {
	return append(dst, Magic[:]...)
}
