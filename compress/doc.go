// Package compress provides the per-bin compression backends for the OST
// codec.
//
// A bin's concatenated payload is compressed by one of three methods:
//
//   - Huffman (format.MethodHuffman): the custom bit-packing codec. The
//     payload carries a length-prefixed symbol frequency table so the
//     decompressor rebuilds the identical tree.
//   - Generic (format.MethodGeneric): a general-purpose byte compressor.
//     The concrete algorithm (Zstd, S2, or LZ4) is selected by
//     format.GenericAlgorithm and recorded in the container config.
//   - Raw (format.MethodRaw): passthrough, the baseline/no-op.
//
// Backends implement the Codec interface and are resolved once at codec
// construction via CreateCodec; nothing in this package discovers a backend
// implicitly at first use.
package compress
