package format

type (
	CompressionMethod uint8
	GenericAlgorithm  uint8
	WindowingMode     uint8
)

const (
	MethodHuffman CompressionMethod = 0 // MethodHuffman represents the custom Huffman bit-packing codec.
	MethodGeneric CompressionMethod = 1 // MethodGeneric delegates to a general-purpose byte compressor.
	MethodRaw     CompressionMethod = 2 // MethodRaw represents raw passthrough with no compression.

	GenericZstd GenericAlgorithm = 0 // GenericZstd selects Zstandard for the generic method.
	GenericS2   GenericAlgorithm = 1 // GenericS2 selects S2 for the generic method.
	GenericLZ4  GenericAlgorithm = 2 // GenericLZ4 selects LZ4 for the generic method.

	WindowingFixed    WindowingMode = 0 // WindowingFixed produces fixed-length windows.
	WindowingAdaptive WindowingMode = 1 // WindowingAdaptive chooses boundaries by local entropy.
)

func (m CompressionMethod) String() string {
	switch m {
	case MethodHuffman:
		return "Huffman"
	case MethodGeneric:
		return "Generic"
	case MethodRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// IsValid reports whether m is one of the wire-defined compression methods.
func (m CompressionMethod) IsValid() bool {
	return m <= MethodRaw
}

func (a GenericAlgorithm) String() string {
	switch a {
	case GenericZstd:
		return "Zstd"
	case GenericS2:
		return "S2"
	case GenericLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// IsValid reports whether a is one of the wire-defined generic algorithms.
func (a GenericAlgorithm) IsValid() bool {
	return a <= GenericLZ4
}

func (w WindowingMode) String() string {
	switch w {
	case WindowingFixed:
		return "Fixed"
	case WindowingAdaptive:
		return "Adaptive"
	default:
		return "Unknown"
	}
}
