package localcp

import (
	"io"
	"unicode/utf16"

	"github.com/wippyai/localcp/errors"
)

// ID identifies a codepage by its Windows codepage number.
type ID uint32

const (
	ACP   ID = 0     // process ANSI codepage
	OEMCP ID = 1     // process OEM (console) codepage
	UTF8  ID = 65001 // UTF-8
)

const (
	// MaxSequenceLen is the longest byte run the Decoder assembles for one character.
	MaxSequenceLen = 8

	// maxUnits is the UTF-16 scratch size for one decode attempt.
	maxUnits = 3

	// maxEncoded is the encoder output buffer size for one character.
	maxEncoded = 4
)

// Codepage is the conversion capability for one codepage.
// Implementations report failures as *errors.Error with PhaseConvert and one
// of KindInsufficientInput, KindNoTranslation or KindShortBuffer.
type Codepage interface {
	// ID returns the codepage this capability converts.
	ID() ID

	// ToUTF16 converts src into dst and returns the number of units written.
	// When strict is set, a run consisting solely of an invalid sequence is
	// rejected instead of substituted.
	ToUTF16(src []byte, dst []uint16, strict bool) (int, error)

	// FromUTF16 converts src into dst using default substitution and returns
	// the number of bytes written.
	FromUTF16(src []uint16, dst []byte) (int, error)

	// DefaultChar returns the UTF-16 unit substituted for unmappable input.
	DefaultChar() uint16

	// IsLeadByte reports whether b starts a multi-byte sequence.
	IsLeadByte(b byte) bool
}

// Provider opens conversion capabilities by codepage number.
type Provider interface {
	Open(id ID) (Codepage, error)
}

// RuneDecoder is a lazy sequence of decoded characters.
// Next returns io.EOF once upstream is exhausted; any other error describes a
// single undecodable item and the stream may be advanced further.
type RuneDecoder interface {
	Next() (rune, error)
	io.RuneReader
}

// ByteEncoder is a lazy sequence of encoded bytes.
type ByteEncoder interface {
	io.ByteReader
	io.Reader
}

var (
	_ RuneDecoder = (*Decoder)(nil)
	_ RuneDecoder = (*UTF8Decoder)(nil)
	_ ByteEncoder = (*Encoder)(nil)
	_ ByteEncoder = (*UTF8Encoder)(nil)
)

// Open opens id with p, wrapping a failure as an initialization error.
func Open(p Provider, id ID) (Codepage, error) {
	if p == nil {
		return nil, errors.Unsupported(errors.PhaseInit, "no conversion provider")
	}
	cp, err := p.Open(id)
	if err != nil {
		return nil, err
	}
	Logger().Debug("opened codepage", zapID(cp.ID()))
	return cp, nil
}

// combineSurrogates joins a UTF-16 pair into one scalar value.
func combineSurrogates(lead, trail uint16) rune {
	return ((rune(lead)-0xd800)<<10 | (rune(trail) - 0xdc00)) + 0x10000
}

func isLeadSurrogate(u uint16) bool  { return u >= 0xd800 && u <= 0xdbff }
func isTrailSurrogate(u uint16) bool { return u >= 0xdc00 && u <= 0xdfff }
func isSurrogate(u uint16) bool      { return utf16.IsSurrogate(rune(u)) }
