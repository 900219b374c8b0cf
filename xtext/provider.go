package xtext

import (
	"bytes"
	"unicode/utf16"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/transform"

	"github.com/wippyai/localcp"
	"github.com/wippyai/localcp/errors"
)

const (
	// DefaultANSI and DefaultOEM stand in for localcp.ACP and localcp.OEMCP
	// when a Provider does not set them (US English Windows defaults).
	DefaultANSI localcp.ID = 1252
	DefaultOEM  localcp.ID = 437

	replacementUnit = 0xfffd
	substituteRune  = '?'

	// Room for one 4-byte UTF-8 sequence per input byte of the longest run.
	scratchSize = 4 * localcp.MaxSequenceLen
)

// Provider opens codepages backed by golang.org/x/text tables.
// The zero value maps the ANSI and OEM pseudo-codepages to DefaultANSI and DefaultOEM.
type Provider struct {
	ANSI localcp.ID
	OEM  localcp.ID
}

var _ localcp.Provider = Provider{}

// Open returns the capability for id.
func (p Provider) Open(id localcp.ID) (localcp.Codepage, error) {
	resolved := p.resolve(id)
	e, ok := byID[resolved]
	if !ok {
		return nil, errors.UnsupportedCodepage(uint32(id))
	}
	Logger().Debug("open x/text codepage",
		zap.Uint32("codepage", uint32(id)),
		zap.Uint32("resolved", uint32(resolved)),
		zap.String("name", e.name))
	return newCodepage(e), nil
}

func (p Provider) resolve(id localcp.ID) localcp.ID {
	switch id {
	case localcp.ACP:
		if p.ANSI != 0 {
			return p.ANSI
		}
		return DefaultANSI
	case localcp.OEMCP:
		if p.OEM != 0 {
			return p.OEM
		}
		return DefaultOEM
	}
	return id
}

// Codepage is a conversion capability backed by one x/text encoding.
// It is safe for concurrent use.
type Codepage struct {
	entry       *entry
	pools       *pools
	replacement []byte // this codepage's own encoding of U+FFFD, if any
	substitute  []byte // encoding of '?'
}

var _ localcp.Codepage = (*Codepage)(nil)

func newCodepage(e *entry) *Codepage {
	c := &Codepage{entry: e, pools: newPools(e.enc)}
	c.replacement, _ = e.enc.NewEncoder().Bytes([]byte(string(rune(replacementUnit))))
	c.substitute, _ = e.enc.NewEncoder().Bytes([]byte{substituteRune})
	if len(c.substitute) == 0 {
		c.substitute = []byte{substituteRune}
	}
	return c
}

// ID returns the codepage number.
func (c *Codepage) ID() localcp.ID {
	return c.entry.id
}

// Name returns the canonical codepage name.
func (c *Codepage) Name() string {
	return c.entry.name
}

// DefaultChar returns U+FFFD, which x/text substitutes for invalid input.
func (c *Codepage) DefaultChar() uint16 {
	return replacementUnit
}

// IsLeadByte reports whether b starts a multi-byte sequence.
func (c *Codepage) IsLeadByte(b byte) bool {
	return c.entry.lead != nil && c.entry.lead(b)
}

// ToUTF16 converts src into dst.
//
// A proper prefix of a multi-byte sequence yields an insufficient-input error.
// An incomplete sequence after at least one complete character is flushed as
// U+FFFD. In strict mode a run that decodes to nothing but one substituted
// U+FFFD yields a no-translation error.
func (c *Codepage) ToUTF16(src []byte, dst []uint16, strict bool) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}
	id := uint32(c.entry.id)

	var scratch [scratchSize]byte
	out, err := c.decode(scratch[:0], src)
	if err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, errors.InsufficientInput(id)
	}

	if strict {
		r, size := utf8.DecodeRune(out)
		if r == utf8.RuneError && size == len(out) && !bytes.Equal(src, c.replacement) {
			return 0, errors.NoTranslation(id, nil)
		}
	}

	n := 0
	for len(out) > 0 {
		r, size := utf8.DecodeRune(out)
		out = out[size:]
		if r >= 0x10000 {
			if n+2 > len(dst) {
				return 0, errors.ShortBuffer(id, len(dst))
			}
			r1, r2 := utf16.EncodeRune(r)
			dst[n], dst[n+1] = uint16(r1), uint16(r2)
			n += 2
			continue
		}
		if n+1 > len(dst) {
			return 0, errors.ShortBuffer(id, len(dst))
		}
		dst[n] = uint16(r)
		n++
	}
	return n, nil
}

// decode runs src through the x/text decoder, appending UTF-8 to buf.
// It returns an empty result when src is only a prefix of a longer sequence.
func (c *Codepage) decode(buf, src []byte) ([]byte, error) {
	dec := c.pools.getDecoder()
	defer c.pools.putDecoder(dec)

	out := buf[:cap(buf)]
	nDst, nSrc, err := dec.Transform(out, src, false)
	switch err {
	case nil:
		return out[:nDst], nil
	case transform.ErrShortSrc:
		if nSrc == 0 {
			return nil, nil
		}
		// Flush the incomplete tail as replacement characters.
		tail, _, err := dec.Transform(out[nDst:], src[nSrc:], true)
		if err != nil {
			return nil, errors.NoTranslation(uint32(c.entry.id), err)
		}
		return out[:nDst+tail], nil
	default:
		return nil, errors.NoTranslation(uint32(c.entry.id), err)
	}
}

// FromUTF16 converts src into dst, substituting '?' for unmappable characters
// and unpaired surrogates.
func (c *Codepage) FromUTF16(src []uint16, dst []byte) (int, error) {
	id := uint32(c.entry.id)
	enc := c.pools.getEncoder()
	defer c.pools.putEncoder(enc)

	var in [utf8.UTFMax]byte
	var out [2 * utf8.UTFMax]byte
	n := 0
	for _, r := range utf16.Decode(src) {
		enc.Reset()
		encoded := c.substitute
		if r != utf8.RuneError || len(c.replacement) > 0 {
			size := utf8.EncodeRune(in[:], r)
			nDst, _, err := enc.Transform(out[:], in[:size], true)
			if err == nil && nDst > 0 {
				encoded = out[:nDst]
			}
		}
		if n+len(encoded) > len(dst) {
			return 0, errors.ShortBuffer(id, len(dst))
		}
		n += copy(dst[n:], encoded)
	}
	return n, nil
}
