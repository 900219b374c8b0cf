package localcp

import (
	"io"
	"iter"
	"unicode/utf8"
)

// SeqByteReader adapts an iter.Seq[byte] into an upstream byte source.
// Call Close if the sequence is abandoned before it is exhausted.
type SeqByteReader struct {
	next func() (byte, bool)
	stop func()
}

// PullBytes returns a byte source reading seq lazily.
func PullBytes(seq iter.Seq[byte]) *SeqByteReader {
	next, stop := iter.Pull(seq)
	return &SeqByteReader{next: next, stop: stop}
}

// ReadByte returns the next element of the sequence, or io.EOF.
func (s *SeqByteReader) ReadByte() (byte, error) {
	b, ok := s.next()
	if !ok {
		return 0, io.EOF
	}
	return b, nil
}

// Close stops the underlying sequence.
func (s *SeqByteReader) Close() error {
	s.stop()
	return nil
}

// SeqRuneReader adapts an iter.Seq[rune] into an upstream character source.
type SeqRuneReader struct {
	next func() (rune, bool)
	stop func()
}

// PullRunes returns a character source reading seq lazily.
func PullRunes(seq iter.Seq[rune]) *SeqRuneReader {
	next, stop := iter.Pull(seq)
	return &SeqRuneReader{next: next, stop: stop}
}

// ReadRune returns the next element of the sequence and its UTF-8 length.
func (s *SeqRuneReader) ReadRune() (rune, int, error) {
	r, ok := s.next()
	if !ok {
		return 0, 0, io.EOF
	}
	size := utf8.RuneLen(r)
	if size < 0 {
		size = 0
	}
	return r, size, nil
}

// Close stops the underlying sequence.
func (s *SeqRuneReader) Close() error {
	s.stop()
	return nil
}
