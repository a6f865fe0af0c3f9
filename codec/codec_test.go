package codec

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zenithlabs/ostpack/errs"
	"github.com/zenithlabs/ostpack/format"
)

func pseudoRandomText(n int, seed int64) []byte {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 .,!?"
	rng := rand.New(rand.NewSource(seed))
	out := make([]byte, n)
	for i := range out {
		out[i] = alphabet[rng.Intn(len(alphabet))]
	}

	return out
}

func binaryDerived(n int, seed int64) []byte {
	rng := rand.New(rand.NewSource(seed))
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(rng.Intn(256))
	}

	return out
}

func fixtures() map[string][]byte {
	return map[string][]byte{
		"empty":       {},
		"short ascii": []byte("hello, ost codec"),
		"repetitive":  bytes.Repeat([]byte("a"), 10000),
		"pseudo-random": pseudoRandomText(8000, 11),
		"emoji":       []byte(strings.Repeat("héllo wörld 🚀🎉 ", 200)),
		"binary":      binaryDerived(5000, 12),
	}
}

func configMatrix(t *testing.T) map[string]Config {
	t.Helper()

	configs := map[string][]Option{
		"huffman fixed":       {WithWindowLength(500)},
		"generic zstd":        {WithMethod(format.MethodGeneric), WithWindowLength(500)},
		"generic s2":          {WithMethod(format.MethodGeneric), WithGenericAlgorithm(format.GenericS2)},
		"generic lz4":         {WithMethod(format.MethodGeneric), WithGenericAlgorithm(format.GenericLZ4)},
		"raw":                 {WithMethod(format.MethodRaw), WithWindowLength(300)},
		"adaptive window":     {WithAdaptiveWindow(100, 800, 0.5)},
		"sub-binning":         {WithSubBinning(2, 0.8), WithWindowLength(400)},
		"adaptive+subbinning": {WithAdaptiveWindow(100, 800, 0.5), WithSubBinning(1, 0.7)},
		"metrics":             {WithMetrics(true), WithWindowLength(500)},
		"tiny windows":        {WithWindowLength(7), WithLabelLength(2)},
	}

	out := make(map[string]Config, len(configs))
	for name, opts := range configs {
		cfg, err := NewConfig(opts...)
		require.NoError(t, err)
		out[name] = cfg
	}

	return out
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	for cfgName, cfg := range configMatrix(t) {
		enc, err := NewEncoder(cfg)
		require.NoError(t, err)
		dec := NewDecoder()

		for fixName, data := range fixtures() {
			t.Run(cfgName+"/"+fixName, func(t *testing.T) {
				c, err := enc.Encode(data)
				require.NoError(t, err)

				decoded, err := dec.Decode(c)
				require.NoError(t, err)
				require.Equal(t, data, decoded)
			})
		}
	}
}

func TestPackUnpack_RoundTrip(t *testing.T) {
	for cfgName, cfg := range configMatrix(t) {
		enc, err := NewEncoder(cfg)
		require.NoError(t, err)

		for fixName, data := range fixtures() {
			t.Run(cfgName+"/"+fixName, func(t *testing.T) {
				c, err := enc.Encode(data)
				require.NoError(t, err)

				packed, err := Pack(c)
				require.NoError(t, err)

				unpacked, err := Unpack(packed)
				require.NoError(t, err)

				require.Equal(t, c.Bins, unpacked.Bins)
				require.Equal(t, c.Windows, unpacked.Windows)
				require.Equal(t, c.Config, unpacked.Config)

				decoded, err := NewDecoder().Decode(unpacked)
				require.NoError(t, err)
				require.Equal(t, data, decoded)
			})
		}
	}
}

func TestPack_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	enc, err := NewEncoder(cfg)
	require.NoError(t, err)

	c, err := enc.Encode(pseudoRandomText(5000, 3))
	require.NoError(t, err)

	first, err := Pack(c)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Pack(c)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestUnpack_BadMagic(t *testing.T) {
	cfg := DefaultConfig()
	enc, err := NewEncoder(cfg)
	require.NoError(t, err)

	c, err := enc.Encode([]byte("some data"))
	require.NoError(t, err)
	packed, err := Pack(c)
	require.NoError(t, err)

	corrupted := make([]byte, len(packed))
	copy(corrupted, packed)
	corrupted[0] = 'X'

	_, err = Unpack(corrupted)
	require.ErrorIs(t, err, errs.ErrInvalidMagic)
}

func TestUnpack_Truncated(t *testing.T) {
	enc, err := NewEncoder(DefaultConfig())
	require.NoError(t, err)
	c, err := enc.Encode(bytes.Repeat([]byte("data"), 500))
	require.NoError(t, err)
	packed, err := Pack(c)
	require.NoError(t, err)

	for _, cut := range []int{1, 3, 8, 20, len(packed) / 2, len(packed) - 1} {
		_, err := Unpack(packed[:cut])
		require.ErrorIs(t, err, errs.ErrTruncatedContainer, "cut at %d", cut)
	}
}

func TestUnpack_TrailingGarbage(t *testing.T) {
	enc, err := NewEncoder(DefaultConfig())
	require.NoError(t, err)
	c, err := enc.Encode([]byte("payload"))
	require.NoError(t, err)
	packed, err := Pack(c)
	require.NoError(t, err)

	_, err = Unpack(append(packed, 0xDE, 0xAD))
	require.ErrorIs(t, err, errs.ErrTruncatedContainer)
}

func TestEncode_NilInput(t *testing.T) {
	enc, err := NewEncoder(DefaultConfig())
	require.NoError(t, err)

	_, err = enc.Encode(nil)
	require.ErrorIs(t, err, errs.ErrNilInput)
}

func TestDecode_NilContainer(t *testing.T) {
	_, err := NewDecoder().Decode(nil)
	require.ErrorIs(t, err, errs.ErrNilContainer)
}

func TestEncode_EmptyInput(t *testing.T) {
	enc, err := NewEncoder(DefaultConfig())
	require.NoError(t, err)

	c, err := enc.Encode([]byte{})
	require.NoError(t, err)
	require.Empty(t, c.Windows)
	require.Empty(t, c.Bins)

	decoded, err := NewDecoder().Decode(c)
	require.NoError(t, err)
	require.Empty(t, decoded)

	packed, err := Pack(c)
	require.NoError(t, err)
	unpacked, err := Unpack(packed)
	require.NoError(t, err)
	require.Empty(t, unpacked.Windows)
}

func TestMetrics_RepetitiveDataCompressesWell(t *testing.T) {
	data := bytes.Repeat([]byte("a"), 10000)

	for _, method := range []format.CompressionMethod{format.MethodHuffman, format.MethodGeneric} {
		cfg, err := NewConfig(WithMethod(method), WithMetrics(true))
		require.NoError(t, err)
		enc, err := NewEncoder(cfg)
		require.NoError(t, err)

		c, err := enc.Encode(data)
		require.NoError(t, err)

		require.NotNil(t, c.Metrics)
		require.Greater(t, c.Metrics.Ratio, 5.0, "method %s", method)
		require.EqualValues(t, 10000, c.Metrics.OriginalSize)
		require.Positive(t, c.Metrics.BinCount)
	}
}

func TestMetrics_RandomDataBarelyCompresses(t *testing.T) {
	cfg, err := NewConfig(WithMetrics(true))
	require.NoError(t, err)
	enc, err := NewEncoder(cfg)
	require.NoError(t, err)

	c, err := enc.Encode(binaryDerived(10000, 99))
	require.NoError(t, err)

	require.NotNil(t, c.Metrics)
	require.Less(t, c.Metrics.Ratio, 2.0)
}

func TestMetrics_SurviveThePackRoundTrip(t *testing.T) {
	cfg, err := NewConfig(WithMetrics(true))
	require.NoError(t, err)
	enc, err := NewEncoder(cfg)
	require.NoError(t, err)

	c, err := enc.Encode(bytes.Repeat([]byte("xyz"), 2000))
	require.NoError(t, err)
	packed, err := Pack(c)
	require.NoError(t, err)
	unpacked, err := Unpack(packed)
	require.NoError(t, err)

	require.NotNil(t, unpacked.Metrics)
	require.Equal(t, c.Metrics.OriginalSize, unpacked.Metrics.OriginalSize)
	require.Equal(t, c.Metrics.CompressedSize, unpacked.Metrics.CompressedSize)
	require.Equal(t, c.Metrics.Ratio, unpacked.Metrics.Ratio)
	require.Equal(t, c.Metrics.BinCount, unpacked.Metrics.BinCount)
	require.InDelta(t, c.Metrics.AvgBinSize, unpacked.Metrics.AvgBinSize, 0.01)
}

func TestSubBinning_DoesNotChangeDecodedOutput(t *testing.T) {
	data := append(bytes.Repeat([]byte("pattern-one "), 300), bytes.Repeat([]byte("zz99!pattern"), 300)...)

	plain, err := NewConfig(WithWindowLength(240))
	require.NoError(t, err)
	subbed, err := NewConfig(WithWindowLength(240), WithSubBinning(2, 0.8))
	require.NoError(t, err)

	encPlain, err := NewEncoder(plain)
	require.NoError(t, err)
	encSubbed, err := NewEncoder(subbed)
	require.NoError(t, err)

	cPlain, err := encPlain.Encode(data)
	require.NoError(t, err)
	cSubbed, err := encSubbed.Encode(data)
	require.NoError(t, err)

	dec := NewDecoder()
	outPlain, err := dec.Decode(cPlain)
	require.NoError(t, err)
	outSubbed, err := dec.Decode(cSubbed)
	require.NoError(t, err)

	require.Equal(t, data, outPlain)
	require.Equal(t, data, outSubbed)
}

func TestDecode_MissingBin(t *testing.T) {
	enc, err := NewEncoder(DefaultConfig())
	require.NoError(t, err)
	c, err := enc.Encode(bytes.Repeat([]byte("abc"), 1000))
	require.NoError(t, err)

	for lbl := range c.Bins {
		delete(c.Bins, lbl)
		break
	}

	_, err = NewDecoder().Decode(c)
	require.ErrorIs(t, err, errs.ErrNoValidContainer)
}

// TestDecode_SequentialFallback exercises reconstruction case (c): windows
// without recorded offsets are sliced sequentially by length.
func TestDecode_SequentialFallback(t *testing.T) {
	enc, err := NewEncoder(DefaultConfig())
	require.NoError(t, err)
	data := bytes.Repeat([]byte("abcabcabc "), 500)
	c, err := enc.Encode(data)
	require.NoError(t, err)

	// Strip the offsets the encoder back-filled.
	for i := range c.Windows {
		c.Windows[i].BinOffset = UnknownOffset
		c.Windows[i].BinIndex = UnknownOffset
	}

	decoded, err := NewDecoder().Decode(c)
	require.NoError(t, err)
	require.Equal(t, data, decoded)
}

// TestDecode_SegmentExhaustion forces the reconstruction warning path: the
// recorded metadata points past the decompressed bin payload, so the
// affected windows decode as empty segments and a warning is logged.
func TestDecode_SegmentExhaustion(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	dec := NewDecoder()
	dec.SetLogger(zap.New(core).Sugar())

	cfg, err := NewConfig(WithMethod(format.MethodRaw), WithWindowLength(4))
	require.NoError(t, err)
	enc, err := NewEncoder(cfg)
	require.NoError(t, err)

	data := []byte("aaaaaaaaaaaa") // three windows, one shared label and bin
	c, err := enc.Encode(data)
	require.NoError(t, err)
	require.Len(t, c.Windows, 3)

	// Claim the last window lies beyond the bin payload.
	c.Windows[2].BinOffset = 100

	decoded, err := dec.Decode(c)
	require.NoError(t, err)

	// The broken window decodes as empty; the others survive.
	require.Equal(t, []byte("aaaaaaaa"), decoded)
	require.Equal(t, 1, logs.FilterMessage("bin segments exhausted, substituting empty window").Len())
}

func TestNewEncoder_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero window length", Config{LabelLength: 4}},
		{"zero label length", Config{WindowLength: 100}},
		{"bad method", Config{WindowLength: 100, LabelLength: 4, Method: format.CompressionMethod(77)}},
		{"adaptive bounds inverted", Config{
			WindowLength: 100, LabelLength: 4,
			AdaptiveWindow: true, MinWindowLength: 500, MaxWindowLength: 100,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEncoder(tt.cfg)
			require.ErrorIs(t, err, errs.ErrInvalidConfig)
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	require.Equal(t, 1000, cfg.WindowLength)
	require.Equal(t, 4, cfg.LabelLength)
	require.Equal(t, format.MethodHuffman, cfg.Method)
	require.False(t, cfg.AdaptiveWindow)
	require.False(t, cfg.SubBinning)
	require.False(t, cfg.CollectMetrics)
}
