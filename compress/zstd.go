package compress

// ZstdCompressor is the Zstandard backend for the generic method, the
// default when compression ratio matters more than speed.
//
// Two implementations exist behind build tags: the pure-Go
// klauspost/compress encoder (default) and the cgo valyala/gozstd binding
// (build with the cgo_zstd tag). Both produce standard Zstd frames, so
// payloads are interchangeable between them.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
