// Package errors provides structured error types for the localcp library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the codepage, the offending bytes, the stream offset,
// a human-readable detail and an optional cause.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidData).
//		Codepage(932).
//		Bytes([]byte{0x81, 0x20}).
//		Detail("lead byte without trail byte").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Truncated(932, run)
//	err := errors.UnsupportedCodepage(12345)
//
// All errors implement the standard error interface and support errors.Is/As.
// Two errors match under errors.Is when their Phase and Kind are equal.
package errors
