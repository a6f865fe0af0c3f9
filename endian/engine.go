// Package endian provides byte order utilities for the OST container format.
//
// It combines the ByteOrder and AppendByteOrder interfaces from
// encoding/binary into a single EndianEngine interface so wire-layout code
// can both read fixed offsets and append to growing buffers through one
// value.
//
// The OST container format is big-endian on the wire; GetBigEndianEngine is
// what the section and codec packages use. The little-endian engine exists
// for scratch encodings that never leave the process.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// binary.BigEndian and binary.LittleEndian both satisfy this interface, so
// no wrapper types are needed.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetBigEndianEngine returns the big-endian engine used by the OST wire format.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}
