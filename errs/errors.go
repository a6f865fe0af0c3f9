// Package errs defines the sentinel errors shared across ostpack packages.
//
// Errors fall into three families:
//
//   - Format errors: the container or a bin payload is structurally invalid
//     (bad magic number, truncated section, corrupt frequency table). These
//     are fatal and never retried.
//   - Validation errors: the caller supplied invalid input (nil data, bad
//     configuration). Surfaced before any work is performed.
//   - Reconstruction errors: decode metadata cannot fully determine the
//     original window layout.
//
// Callers match with errors.Is; packages wrap these sentinels with
// fmt.Errorf("...: %w", err) to add context.
package errs

import "errors"

var (
	// ErrInvalidMagic indicates the container does not start with the "OST1" magic number.
	ErrInvalidMagic = errors.New("invalid magic number")

	// ErrTruncatedContainer indicates the container ended before a declared section.
	ErrTruncatedContainer = errors.New("truncated container")

	// ErrCorruptFrequencyTable indicates a Huffman payload declares a frequency
	// table that is malformed or exceeds the payload bounds.
	ErrCorruptFrequencyTable = errors.New("corrupt frequency table")

	// ErrTruncatedBitstream indicates a Huffman bitstream ended before all
	// declared symbols were decoded.
	ErrTruncatedBitstream = errors.New("truncated huffman bitstream")

	// ErrNilInput indicates encode was called with nil input data.
	ErrNilInput = errors.New("nil input data")

	// ErrNilContainer indicates decode was called with a nil container.
	ErrNilContainer = errors.New("nil container")

	// ErrInvalidConfig indicates the compression configuration is invalid.
	ErrInvalidConfig = errors.New("invalid compression config")

	// ErrNoValidContainer indicates decode ran out of bin data before all
	// windows were reconstructed; the container does not describe its input.
	ErrNoValidContainer = errors.New("no valid container")

	// ErrInvalidMethod indicates an unknown compression method identifier.
	ErrInvalidMethod = errors.New("invalid compression method")

	// ErrStreamClosed indicates a write to a streaming encoder or decoder
	// after Flush or Close.
	ErrStreamClosed = errors.New("stream closed")

	// ErrPoolClosed indicates a submission to a worker pool after Close.
	ErrPoolClosed = errors.New("worker pool closed")

	// ErrWorkerPanic indicates a parallel compression unit terminated abnormally.
	ErrWorkerPanic = errors.New("worker terminated abnormally")
)
