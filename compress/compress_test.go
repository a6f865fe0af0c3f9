package compress

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zenithlabs/ostpack/errs"
	"github.com/zenithlabs/ostpack/format"
)

func testPayloads() map[string][]byte {
	rng := rand.New(rand.NewSource(7))
	random := make([]byte, 4096)
	for i := range random {
		random[i] = byte(rng.Intn(256))
	}

	return map[string][]byte{
		"short ascii": []byte("hello world"),
		"repetitive":  bytes.Repeat([]byte("abc"), 2000),
		"single byte": {42},
		"random":      random,
		"binary":      {0x00, 0xFF, 0x00, 0xFF, 0x10},
	}
}

func TestCodecs_RoundTrip(t *testing.T) {
	codecs := map[string]Codec{
		"huffman": NewHuffmanCompressor(),
		"zstd":    NewZstdCompressor(),
		"s2":      NewS2Compressor(),
		"lz4":     NewLZ4Compressor(),
		"noop":    NewNoOpCompressor(),
	}

	for codecName, codec := range codecs {
		for payloadName, payload := range testPayloads() {
			t.Run(codecName+"/"+payloadName, func(t *testing.T) {
				compressed, err := codec.Compress(payload)
				require.NoError(t, err)

				decompressed, err := codec.Decompress(compressed)
				require.NoError(t, err)
				require.Equal(t, payload, decompressed)
			})
		}
	}
}

func TestHuffman_CompressesRepetitiveData(t *testing.T) {
	payload := bytes.Repeat([]byte("a"), 10000)

	compressed, err := NewHuffmanCompressor().Compress(payload)
	require.NoError(t, err)

	// One symbol packs to one bit: ~1250 stream bytes plus the table.
	require.Less(t, len(compressed), len(payload)/5)
}

func TestHuffman_EmptyInput(t *testing.T) {
	c := NewHuffmanCompressor()

	compressed, err := c.Compress(nil)
	require.NoError(t, err)
	// Just the zero-length table prefix.
	require.Equal(t, []byte{0, 0, 0, 0}, compressed)

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	require.Empty(t, decompressed)
}

func TestHuffman_CorruptTable(t *testing.T) {
	c := NewHuffmanCompressor()

	_, err := c.Decompress([]byte{0xFF, 0xFF, 0xFF, 0xFF, 1, 2, 3})
	require.ErrorIs(t, err, errs.ErrCorruptFrequencyTable)

	_, err = c.Decompress([]byte{0, 0})
	require.ErrorIs(t, err, errs.ErrCorruptFrequencyTable)
}

func TestHuffman_TruncatedBitstream(t *testing.T) {
	c := NewHuffmanCompressor()

	compressed, err := c.Compress([]byte("the quick brown fox jumps over the lazy dog"))
	require.NoError(t, err)

	_, err = c.Decompress(compressed[:len(compressed)-2])
	require.ErrorIs(t, err, errs.ErrTruncatedBitstream)
}

func TestNoOp_SharesInput(t *testing.T) {
	payload := []byte("passthrough")
	c := NewNoOpCompressor()

	compressed, err := c.Compress(payload)
	require.NoError(t, err)
	require.Equal(t, payload, compressed)

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, payload, decompressed)
}

func TestCreateCodec(t *testing.T) {
	tests := []struct {
		name    string
		method  format.CompressionMethod
		alg     format.GenericAlgorithm
		want    Codec
		wantErr bool
	}{
		{"huffman", format.MethodHuffman, 0, HuffmanCompressor{}, false},
		{"raw", format.MethodRaw, 0, NoOpCompressor{}, false},
		{"generic zstd", format.MethodGeneric, format.GenericZstd, ZstdCompressor{}, false},
		{"generic s2", format.MethodGeneric, format.GenericS2, S2Compressor{}, false},
		{"generic lz4", format.MethodGeneric, format.GenericLZ4, LZ4Compressor{}, false},
		{"bad method", format.CompressionMethod(99), 0, nil, true},
		{"bad algorithm", format.MethodGeneric, format.GenericAlgorithm(99), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec, err := CreateCodec(tt.method, tt.alg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, codec)
		})
	}
}
