package section

import (
	"math"

	"github.com/zenithlabs/ostpack/endian"
)

// MetricsTrailer is the optional trailing section carrying compression
// statistics, present only when the header's CollectMetrics flag is set.
//
// Layout (big-endian), 40 bytes:
//
//	originalSize    u64   offset 0-7
//	compressedSize  u64   offset 8-15
//	ratio           f64   offset 16-23
//	encodeTimeNs    i64   offset 24-31
//	binCount        u32   offset 32-35
//	avgBinSize      f32   offset 36-39
type MetricsTrailer struct {
	OriginalSize   uint64
	CompressedSize uint64
	Ratio          float64
	EncodeTimeNs   int64
	BinCount       uint32
	AvgBinSize     float32
}

// Append serializes the trailer to dst.
func (t *MetricsTrailer) Append(dst []byte) []byte {
	engine := endian.GetBigEndianEngine()

	dst = engine.AppendUint64(dst, t.OriginalSize)
	dst = engine.AppendUint64(dst, t.CompressedSize)
	dst = engine.AppendUint64(dst, math.Float64bits(t.Ratio))
	dst = engine.AppendUint64(dst, uint64(t.EncodeTimeNs)) //nolint:gosec
	dst = engine.AppendUint32(dst, t.BinCount)
	dst = engine.AppendUint32(dst, math.Float32bits(t.AvgBinSize))

	return dst
}

// Parse reads the trailer from r.
func (t *MetricsTrailer) Parse(r *Reader) error {
	block, err := r.Bytes(MetricsTrailerSize, "metrics trailer")
	if err != nil {
		return err
	}

	engine := endian.GetBigEndianEngine()
	t.OriginalSize = engine.Uint64(block[0:8])
	t.CompressedSize = engine.Uint64(block[8:16])
	t.Ratio = math.Float64frombits(engine.Uint64(block[16:24]))
	t.EncodeTimeNs = int64(engine.Uint64(block[24:32])) //nolint:gosec
	t.BinCount = engine.Uint32(block[32:36])
	t.AvgBinSize = math.Float32frombits(engine.Uint32(block[36:40]))

	return nil
}
