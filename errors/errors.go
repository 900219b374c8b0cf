package errors

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseConvert Phase = "convert" // conversion capability
	PhaseDecode  Phase = "decode"  // bytes to characters
	PhaseEncode  Phase = "encode"  // characters to bytes
	PhaseInit    Phase = "init"    // capability and stream construction
	PhaseConfig  Phase = "config"  // profile configuration
)

// Kind categorizes the error
type Kind string

const (
	KindTruncated         Kind = "truncated"
	KindInvalidData       Kind = "invalid_data"
	KindInvalidInput      Kind = "invalid_input"
	KindTooLong           Kind = "too_long"
	KindUnrepresentable   Kind = "unrepresentable"
	KindUnsupported       Kind = "unsupported"
	KindInsufficientInput Kind = "insufficient_input"
	KindNoTranslation     Kind = "no_translation"
	KindShortBuffer       Kind = "short_buffer"
	KindIO                Kind = "io"
	KindNotFound          Kind = "not_found"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause    error
	Value    any
	Phase    Phase
	Kind     Kind
	Detail   string
	Bytes    []byte
	Codepage uint32
	Offset   int64
	// HasCodepage distinguishes codepage 0 (the ANSI code page) from unset.
	HasCodepage bool
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.HasCodepage {
		b.WriteString(" cp")
		b.WriteString(strconv.FormatUint(uint64(e.Codepage), 10))
	}

	if len(e.Bytes) > 0 {
		b.WriteString(" bytes ")
		writeHex(&b, e.Bytes)
	}

	if e.Offset > 0 {
		b.WriteString(" at offset ")
		b.WriteString(strconv.FormatInt(e.Offset, 10))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

func writeHex(b *strings.Builder, data []byte) {
	const digits = "0123456789abcdef"
	if len(data) > 16 {
		data = data[:16]
	}
	for i, c := range data {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(digits[c>>4])
		b.WriteByte(digits[c&0x0f])
	}
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether err, or any error in its chain, is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}

// KindOf returns the kind of the outermost *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Codepage sets the codepage the error refers to
func (b *Builder) Codepage(cp uint32) *Builder {
	b.err.Codepage = cp
	b.err.HasCodepage = true
	return b
}

// Bytes sets the offending byte run. The slice is copied.
func (b *Builder) Bytes(data []byte) *Builder {
	b.err.Bytes = append([]byte(nil), data...)
	return b
}

// Offset sets the stream offset of the first offending byte
func (b *Builder) Offset(off int64) *Builder {
	b.err.Offset = off
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Truncated creates an error for a multi-byte sequence cut off by end of input
func Truncated(cp uint32, run []byte) *Error {
	return New(PhaseDecode, KindTruncated).
		Codepage(cp).
		Bytes(run).
		Detail("input ended inside a multi-byte sequence").
		Build()
}

// InvalidSequence creates an error for a byte run that does not map to a character
func InvalidSequence(cp uint32, run []byte, cause error) *Error {
	return New(PhaseDecode, KindInvalidData).
		Codepage(cp).
		Bytes(run).
		Detail("invalid byte sequence").
		Cause(cause).
		Build()
}

// InvalidSurrogate creates an error for a run that converts to an unpaired surrogate
func InvalidSurrogate(cp uint32, run []byte) *Error {
	return New(PhaseDecode, KindInvalidInput).
		Codepage(cp).
		Bytes(run).
		Detail("byte sequence converts to an unpaired surrogate").
		Build()
}

// TooLong creates an error for a character longer than max bytes
func TooLong(cp uint32, run []byte, max int) *Error {
	return New(PhaseDecode, KindTooLong).
		Codepage(cp).
		Bytes(run).
		Detail("character exceeds maximum supported length of %d bytes", max).
		Build()
}

// Unrepresentable creates an error for a character the codepage cannot encode
func Unrepresentable(cp uint32, r rune, cause error) *Error {
	return New(PhaseEncode, KindUnrepresentable).
		Codepage(cp).
		Value(r).
		Detail("character %U cannot be represented", r).
		Cause(cause).
		Build()
}

// InvalidRune creates an error for a rune that is not a Unicode scalar value
func InvalidRune(phase Phase, r rune) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Value:  r,
		Detail: fmt.Sprintf("%#x is not a Unicode scalar value", r),
	}
}

// UnsupportedCodepage creates an error for a codepage no provider can open
func UnsupportedCodepage(cp uint32) *Error {
	return New(PhaseInit, KindUnsupported).
		Codepage(cp).
		Detail("codepage not supported").
		Build()
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// IO creates an error for a failing upstream source
func IO(phase Phase, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Detail: "upstream read failed",
		Cause:  cause,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Capability failures. The conversion capability reports these from ToUTF16
// and FromUTF16; the Decoder and Encoder interpret them.

// InsufficientInput reports that src is a proper prefix of a longer sequence
func InsufficientInput(cp uint32) *Error {
	return New(PhaseConvert, KindInsufficientInput).
		Codepage(cp).
		Detail("more input required").
		Build()
}

// NoTranslation reports that src contains a sequence with no mapping
func NoTranslation(cp uint32, cause error) *Error {
	return New(PhaseConvert, KindNoTranslation).
		Codepage(cp).
		Detail("no mapping for input").
		Cause(cause).
		Build()
}

// ShortBuffer reports that the destination cannot hold the conversion result
func ShortBuffer(cp uint32, have int) *Error {
	return New(PhaseConvert, KindShortBuffer).
		Codepage(cp).
		Detail("result does not fit in %d units", have).
		Build()
}
