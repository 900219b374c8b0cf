package localcp

import (
	"io"
	"iter"
	"unicode/utf8"

	"github.com/wippyai/localcp/errors"
)

// Decoder turns a byte stream in a legacy codepage into characters, one
// character per call. It holds at most one byte of lookahead between calls.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	src         io.ByteReader
	cp          Codepage
	id          uint32
	defaultChar uint16

	// pos is the stream offset of the next byte not yet attributed to an item.
	// A pending byte is counted as not yet attributed.
	pos int64

	pending    byte
	hasPending bool
}

// NewDecoder creates a Decoder reading from src through cp.
// The codepage's default character is captured once here.
func NewDecoder(src io.ByteReader, cp Codepage) *Decoder {
	return &Decoder{
		src:         src,
		cp:          cp,
		id:          uint32(cp.ID()),
		defaultChar: cp.DefaultChar(),
	}
}

// OpenDecoder opens id with p and creates a Decoder over src.
// An unsupported codepage fails here rather than per item.
func OpenDecoder(src io.ByteReader, p Provider, id ID) (*Decoder, error) {
	cp, err := Open(p, id)
	if err != nil {
		return nil, err
	}
	return NewDecoder(src, cp), nil
}

// Codepage returns the capability the decoder converts through.
func (d *Decoder) Codepage() Codepage {
	return d.cp
}

// Offset returns the number of input bytes attributed to items so far.
func (d *Decoder) Offset() int64 {
	return d.pos
}

// Next decodes the next character.
// It returns io.EOF when upstream is exhausted and no byte is pending.
func (d *Decoder) Next() (rune, error) {
	r, _, err := d.ReadRune()
	return r, err
}

// ReadRune decodes the next character and reports how many input bytes it
// consumed. On a decode error the rune is utf8.RuneError and size counts the
// bytes skipped; the stream can be read further.
func (d *Decoder) ReadRune() (rune, int, error) {
	var run [MaxSequenceLen]byte
	var units [maxUnits]uint16

	b, err := d.first()
	if err != nil {
		return utf8.RuneError, 0, err
	}
	run[0] = b
	start := d.pos

	for n := 1; n <= MaxSequenceLen; n++ {
		if n > 1 {
			next, err := d.src.ReadByte()
			if err != nil {
				d.pos += int64(n - 1)
				if err == io.EOF {
					return d.fail(errors.Truncated(d.id, run[:n-1]), start, n-1)
				}
				e := errors.IO(errors.PhaseDecode, err)
				e.Bytes = append([]byte(nil), run[:n-1]...)
				return d.fail(e, start, n-1)
			}
			run[n-1] = next
		}

		count, cerr := d.cp.ToUTF16(run[:n], units[:], true)
		if cerr != nil {
			if errors.IsKind(cerr, errors.KindShortBuffer) {
				return d.overflow(run[:n], start)
			}
			if d.cp.IsLeadByte(run[0]) {
				continue
			}
			d.pos += int64(n)
			return d.fail(errors.InvalidSequence(d.id, run[:n], cerr), start, n)
		}

		switch {
		case count == 0:
			if d.cp.IsLeadByte(run[0]) {
				continue
			}
			d.pos += int64(n)
			return d.fail(errors.InvalidSequence(d.id, run[:n], nil), start, n)

		case count == 1:
			d.pos += int64(n)
			if isSurrogate(units[0]) {
				return d.fail(errors.InvalidSurrogate(d.id, run[:n]), start, n)
			}
			return rune(units[0]), n, nil

		case count == 2 && isLeadSurrogate(units[0]) && isTrailSurrogate(units[1]):
			d.pos += int64(n)
			return combineSurrogates(units[0], units[1]), n, nil

		case count == 2 && !isSurrogate(units[0]):
			if n == 1 {
				// One byte expanding to two characters cannot be split.
				d.pos++
				return d.fail(errors.InvalidSequence(d.id, run[:1], nil), start, 1)
			}
			if !d.endsEarly(run[n-1], units[1]) {
				// One character expanding to two cannot be split.
				d.pos += int64(n)
				return d.fail(errors.InvalidSequence(d.id, run[:n], nil), start, n)
			}
			// The character ended one byte earlier; the last byte starts the next one.
			d.pushBack(run[n-1])
			d.pos += int64(n - 1)
			if units[0] == d.defaultChar {
				return d.fail(errors.InvalidSequence(d.id, run[:n-1], nil), start, n-1)
			}
			return rune(units[0]), n - 1, nil

		default:
			return d.overflow(run[:n], start)
		}
	}

	d.pos += MaxSequenceLen
	return d.fail(errors.TooLong(d.id, run[:], MaxSequenceLen), start, MaxSequenceLen)
}

// All returns an iterator over the remaining items. Iteration stops at end of
// input or after an upstream read error.
func (d *Decoder) All() iter.Seq2[rune, error] {
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

func (d *Decoder) first() (byte, error) {
	if d.hasPending {
		d.hasPending = false
		return d.pending, nil
	}
	b, err := d.src.ReadByte()
	if err != nil {
		if err == io.EOF {
			return 0, io.EOF
		}
		e := errors.IO(errors.PhaseDecode, err)
		e.Offset = d.pos
		return 0, e
	}
	return b, nil
}

func (d *Decoder) pushBack(b byte) {
	d.pending = b
	d.hasPending = true
}

// endsEarly reports whether the second unit of a two-unit result belongs to
// the run's last byte on its own.
func (d *Decoder) endsEarly(last byte, second uint16) bool {
	var units [3]uint16
	count, err := d.cp.ToUTF16([]byte{last}, units[:], true)
	if err != nil || count == 0 {
		return d.cp.IsLeadByte(last)
	}
	return count == 1 && units[0] == second
}

// overflow handles results that hold more than one character's worth of
// units: the last byte is pushed back and the rest reported as invalid.
func (d *Decoder) overflow(run []byte, start int64) (rune, int, error) {
	n := len(run)
	if n > 1 {
		d.pushBack(run[n-1])
		n--
	}
	d.pos += int64(n)
	e := errors.New(errors.PhaseDecode, errors.KindInvalidInput).
		Codepage(d.id).
		Bytes(run[:n]).
		Detail("byte sequence does not convert to a single character").
		Build()
	return d.fail(e, start, n)
}

func (d *Decoder) fail(e *errors.Error, start int64, size int) (rune, int, error) {
	e.Offset = start
	return utf8.RuneError, size, e
}
