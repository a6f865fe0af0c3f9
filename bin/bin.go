// Package bin groups labeled windows into bins, the unit of compression.
// Windows sharing a label land in one bin; optional sub-binning splits a
// label group further by pairwise content similarity so each compressed
// payload stays internally homogeneous.
package bin

// Segment is one window's slice of a bin's concatenated payload.
type Segment struct {
	// Data is the window content. Aliases the original input.
	Data []byte
	// Length is len(Data), recorded separately for reconstruction metadata.
	Length int
	// Index is the window's original index among all windows.
	Index int
	// Offset is the cumulative length of all prior segments in the bin.
	Offset int
}

// Bin aggregates the windows sharing one label. The label is assigned at
// construction and never changes; segments are append-only during a single
// encode pass.
type Bin struct {
	label    string
	segments []Segment
	size     int
}

// New creates an empty bin for the given label.
func New(label string) *Bin {
	return &Bin{label: label}
}

// Label returns the bin's label.
func (b *Bin) Label() string {
	return b.label
}

// Append adds a window's content to the bin, recording its original index.
// The segment's offset is the bin size before the append, so segment offsets
// partition the concatenated payload with no gaps or overlaps.
func (b *Bin) Append(data []byte, index int) {
	b.segments = append(b.segments, Segment{
		Data:   data,
		Length: len(data),
		Index:  index,
		Offset: b.size,
	})
	b.size += len(data)
}

// Segments returns the bin's segments in insertion order.
func (b *Bin) Segments() []Segment {
	return b.segments
}

// Size returns the total payload size in bytes.
func (b *Bin) Size() int {
	return b.size
}

// Concat returns the bin's concatenated payload.
func (b *Bin) Concat() []byte {
	out := make([]byte, 0, b.size)
	for _, seg := range b.segments {
		out = append(out, seg.Data...)
	}

	return out
}
