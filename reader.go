package localcp

import (
	"io"
	"unicode/utf8"

	"github.com/wippyai/localcp/errors"
)

// Policy selects how the io adapters treat item errors.
type Policy int

const (
	// ReplaceInvalid substitutes U+FFFD for undecodable input and the
	// codepage's own substitution for unencodable characters.
	ReplaceInvalid Policy = iota
	// StopOnInvalid returns the first item error to the caller.
	StopOnInvalid
)

// Reader exposes a RuneDecoder as UTF-8 text.
type Reader struct {
	dec    RuneDecoder
	policy Policy
	buf    []byte
	err    error
}

// NewReader returns a Reader producing UTF-8 from dec.
func NewReader(dec RuneDecoder, policy Policy) *Reader {
	return &Reader{
		dec:    dec,
		policy: policy,
		buf:    make([]byte, 0, utf8.UTFMax),
	}
}

// Read implements io.Reader. Upstream read errors are always returned and
// every later Read returns them again without touching the source; decode
// errors follow the Reader's policy.
func (r *Reader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(r.buf) > 0 {
			c := copy(p[n:], r.buf)
			n += c
			r.buf = r.buf[:copy(r.buf, r.buf[c:])]
			continue
		}
		if r.err != nil {
			break
		}

		c, err := r.dec.Next()
		switch {
		case err == nil:
		case err == io.EOF:
			r.err = io.EOF
			continue
		case r.policy == ReplaceInvalid && !errors.IsKind(err, errors.KindIO):
			c = utf8.RuneError
		default:
			r.err = err
			continue
		}
		r.buf = utf8.AppendRune(r.buf, c)
	}

	if n > 0 {
		return n, nil
	}
	if r.err != nil {
		err := r.err
		// Item errors are reported once; end of input and upstream failures stick.
		if err != io.EOF && !errors.IsKind(err, errors.KindIO) {
			r.err = nil
		}
		return 0, err
	}
	return 0, nil
}
