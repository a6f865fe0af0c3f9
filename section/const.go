package section

// Magic is the 4-byte ASCII magic number opening every OST container.
var Magic = [4]byte{'O', 'S', 'T', '1'}

const (
	// MagicSize is the byte length of the magic number.
	MagicSize = 4

	// HeaderSize is the byte length of the configuration block.
	HeaderSize = 36

	// MaxLabelLength bounds a label string on the wire (u16 length prefix).
	MaxLabelLength = 65535

	// MetricsTrailerSize is the byte length of the metrics trailer.
	MetricsTrailerSize = 40
)
