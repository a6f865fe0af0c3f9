// Package section defines the byte-level layouts of the OST container
// format: the magic number and configuration header, the window metadata
// entries, the bin entries, and the optional metrics trailer.
//
// All integers are big-endian on the wire. Each layout type knows how to
// append itself to a buffer and how to parse itself from a cursor, failing
// with errs.ErrTruncatedContainer instead of reading past the input.
//
// Container layout:
//
//	magic     4 bytes   "OST1"
//	confLen   u32       configuration block length
//	config    confLen   Header fields (see Header)
//	winCount  u32
//	windows   winCount × WindowEntry
//	binCount  u32
//	bins      binCount × BinEntry
//	trailer   MetricsTrailer, present only when Header.CollectMetrics
package section
