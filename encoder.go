package localcp

import (
	"io"
	"iter"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/wippyai/localcp/errors"
)

// outBuf holds the bytes of one encoded character until they are drained.
// While cursor < count the upstream source must not be polled.
type outBuf struct {
	buf    [maxEncoded]byte
	cursor int
	count  int
}

func (o *outBuf) next() (byte, bool) {
	if o.cursor >= o.count {
		return 0, false
	}
	b := o.buf[o.cursor]
	o.cursor++
	if o.cursor >= o.count {
		o.cursor, o.count = 0, 0
	}
	return b, true
}

// emit returns the first of n freshly written bytes and queues the rest.
func (o *outBuf) emit(n int) byte {
	if n > 1 {
		o.count = n
		o.cursor = 1
	}
	return o.buf[0]
}

// Encoder turns characters into bytes of a legacy codepage, one byte per call.
// All bytes of one character are returned before the next character is read.
//
// A character the codepage cannot represent even by substitution is reported
// as an item error of KindUnrepresentable; the following call moves on to the
// next character.
//
// An Encoder is not safe for concurrent use.
type Encoder struct {
	src io.RuneReader
	cp  Codepage
	id  uint32
	out outBuf

	// readErr is an item error held back by Read until its bytes are returned.
	readErr error
}

// NewEncoder creates an Encoder reading characters from src.
func NewEncoder(src io.RuneReader, cp Codepage) *Encoder {
	return &Encoder{
		src: src,
		cp:  cp,
		id:  uint32(cp.ID()),
	}
}

// OpenEncoder opens id with p and creates an Encoder over src.
func OpenEncoder(src io.RuneReader, p Provider, id ID) (*Encoder, error) {
	cp, err := Open(p, id)
	if err != nil {
		return nil, err
	}
	return NewEncoder(src, cp), nil
}

// Codepage returns the capability the encoder converts through.
func (e *Encoder) Codepage() Codepage {
	return e.cp
}

// ReadByte returns the next encoded byte, or io.EOF when upstream is exhausted.
func (e *Encoder) ReadByte() (byte, error) {
	if b, ok := e.out.next(); ok {
		return b, nil
	}

	r, err := nextRune(e.src, errors.PhaseEncode)
	if err != nil {
		return 0, err
	}

	var units [2]uint16
	n := 1
	if r >= 0x10000 {
		r1, r2 := utf16.EncodeRune(r)
		units[0], units[1] = uint16(r1), uint16(r2)
		n = 2
	} else {
		units[0] = uint16(r)
	}

	count, cerr := e.cp.FromUTF16(units[:n], e.out.buf[:])
	if cerr != nil || count <= 0 {
		return 0, errors.Unrepresentable(e.id, r, cerr)
	}
	return e.out.emit(count), nil
}

// Read fills p with encoded bytes. An item error is returned on its own call,
// after the bytes encoded before it.
func (e *Encoder) Read(p []byte) (int, error) {
	return readBytes(e, p, &e.readErr)
}

// All returns an iterator over the remaining bytes.
// Iteration stops at end of input or after an upstream read error.
func (e *Encoder) All() iter.Seq2[byte, error] {
	return allBytes(e)
}

// nextRune pulls one scalar value from src, rejecting values that cannot be
// represented in UTF-16.
func nextRune(src io.RuneReader, phase errors.Phase) (rune, error) {
	r, _, err := src.ReadRune()
	if err != nil {
		if err == io.EOF {
			return 0, io.EOF
		}
		return 0, errors.IO(phase, err)
	}
	if !utf8.ValidRune(r) {
		return 0, errors.InvalidRune(phase, r)
	}
	return r, nil
}

func readBytes(src io.ByteReader, p []byte, held *error) (int, error) {
	if *held != nil {
		err := *held
		if err != io.EOF {
			*held = nil
		}
		return 0, err
	}
	n := 0
	for n < len(p) {
		b, err := src.ReadByte()
		if err != nil {
			if n == 0 {
				if err == io.EOF {
					*held = io.EOF
				}
				return 0, err
			}
			*held = err
			return n, nil
		}
		p[n] = b
		n++
	}
	return n, nil
}

func allBytes(src io.ByteReader) iter.Seq2[byte, error] {
	return func(yield func(byte, error) bool) {
		for {
			b, err := src.ReadByte()
			if err == io.EOF {
				return
			}
			if !yield(b, err) || errors.IsKind(err, errors.KindIO) {
				return
			}
		}
	}
}
