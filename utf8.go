package localcp

import (
	"io"
	"iter"
	"unicode/utf8"

	"github.com/wippyai/localcp/errors"
)

// UTF8Decoder decodes a UTF-8 byte stream one character per call without any
// conversion capability.
//
// A malformed sequence is reported once and never resynchronized: the bytes
// read up to and including the first byte that breaks the sequence are
// consumed by the error. For "Te\xc3\x28st" the items are 'T', 'e', an error
// covering c3 28, 's', 't'.
type UTF8Decoder struct {
	src io.ByteReader
	pos int64
}

// NewUTF8Decoder creates a UTF8Decoder reading from src.
func NewUTF8Decoder(src io.ByteReader) *UTF8Decoder {
	return &UTF8Decoder{src: src}
}

// Offset returns the number of input bytes consumed so far.
func (d *UTF8Decoder) Offset() int64 {
	return d.pos
}

// Next decodes the next character, returning io.EOF at end of input.
func (d *UTF8Decoder) Next() (rune, error) {
	r, _, err := d.ReadRune()
	return r, err
}

// ReadRune decodes the next character and reports the bytes it consumed.
func (d *UTF8Decoder) ReadRune() (rune, int, error) {
	b0, err := d.src.ReadByte()
	if err != nil {
		if err == io.EOF {
			return utf8.RuneError, 0, io.EOF
		}
		e := errors.IO(errors.PhaseDecode, err)
		e.Offset = d.pos
		return utf8.RuneError, 0, e
	}
	start := d.pos

	var (
		need   int
		r      rune
		lowest rune
	)
	switch {
	case b0 < 0x80:
		d.pos++
		return rune(b0), 1, nil
	case b0 < 0xc0:
		d.pos++
		return d.fail([]byte{b0}, start, "unexpected continuation byte")
	case b0 < 0xe0:
		need, r, lowest = 1, rune(b0&0x1f), 0x80
	case b0 < 0xf0:
		need, r, lowest = 2, rune(b0&0x0f), 0x800
	case b0 < 0xf8:
		need, r, lowest = 3, rune(b0&0x07), 0x10000
	default:
		d.pos++
		return d.fail([]byte{b0}, start, "invalid leading byte")
	}

	var run [utf8.UTFMax]byte
	run[0] = b0
	for i := 1; i <= need; i++ {
		b, err := d.src.ReadByte()
		if err != nil {
			d.pos += int64(i)
			if err == io.EOF {
				e := errors.Truncated(uint32(UTF8), run[:i])
				e.Offset = start
				return utf8.RuneError, i, e
			}
			e := errors.IO(errors.PhaseDecode, err)
			e.Offset = start
			return utf8.RuneError, i, e
		}
		run[i] = b
		if b&0xc0 != 0x80 {
			d.pos += int64(i + 1)
			return d.fail(run[:i+1], start, "invalid continuation byte")
		}
		r = r<<6 | rune(b&0x3f)
	}

	n := need + 1
	d.pos += int64(n)
	switch {
	case r < lowest:
		return d.fail(run[:n], start, "overlong encoding")
	case r >= 0xd800 && r <= 0xdfff:
		return d.fail(run[:n], start, "encoded surrogate")
	case r > utf8.MaxRune:
		return d.fail(run[:n], start, "code point above U+10FFFF")
	}
	return r, n, nil
}

// All returns an iterator over the remaining items.
func (d *UTF8Decoder) All() iter.Seq2[rune, error] {
	return func(yield func(rune, error) bool) {
		for {
			r, err := d.Next()
			if err == io.EOF {
				return
			}
			if !yield(r, err) || errors.IsKind(err, errors.KindIO) {
				return
			}
		}
	}
}

func (d *UTF8Decoder) fail(run []byte, start int64, detail string) (rune, int, error) {
	e := errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Codepage(uint32(UTF8)).
		Bytes(run).
		Offset(start).
		Detail("%s", detail).
		Build()
	return utf8.RuneError, len(run), e
}

// UTF8Encoder encodes characters as UTF-8, one byte per call.
type UTF8Encoder struct {
	src     io.RuneReader
	out     outBuf
	readErr error
}

// NewUTF8Encoder creates a UTF8Encoder reading characters from src.
func NewUTF8Encoder(src io.RuneReader) *UTF8Encoder {
	return &UTF8Encoder{src: src}
}

// ReadByte returns the next encoded byte, or io.EOF when upstream is exhausted.
func (e *UTF8Encoder) ReadByte() (byte, error) {
	if b, ok := e.out.next(); ok {
		return b, nil
	}
	r, err := nextRune(e.src, errors.PhaseEncode)
	if err != nil {
		return 0, err
	}
	return e.out.emit(utf8.EncodeRune(e.out.buf[:], r)), nil
}

// Read fills p with encoded bytes.
func (e *UTF8Encoder) Read(p []byte) (int, error) {
	return readBytes(e, p, &e.readErr)
}

// All returns an iterator over the remaining bytes.
func (e *UTF8Encoder) All() iter.Seq2[byte, error] {
	return allBytes(e)
}
