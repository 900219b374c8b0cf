package localcp

import (
	"io"
	"unicode/utf8"

	"github.com/wippyai/localcp/errors"
)

// runeQueue is the character source a Writer feeds its encoder from.
type runeQueue struct {
	runes []rune
	head  int
}

func (q *runeQueue) ReadRune() (rune, int, error) {
	if q.head >= len(q.runes) {
		return 0, 0, io.EOF
	}
	r := q.runes[q.head]
	q.head++
	return r, utf8.RuneLen(r), nil
}

func (q *runeQueue) reset() {
	q.runes = q.runes[:0]
	q.head = 0
}

// Writer accepts UTF-8 text and writes it to dst in a codepage.
// A rune split across Write calls is held until it is complete.
type Writer struct {
	dst     io.Writer
	enc     io.ByteReader
	queue   runeQueue
	policy  Policy
	partial []byte
	out     []byte
}

// NewWriter returns a Writer encoding through cp. A nil cp writes UTF-8.
func NewWriter(dst io.Writer, cp Codepage, policy Policy) *Writer {
	w := &Writer{dst: dst, policy: policy}
	if cp == nil {
		w.enc = NewUTF8Encoder(&w.queue)
	} else {
		w.enc = NewEncoder(&w.queue, cp)
	}
	return w
}

// Write implements io.Writer. Invalid UTF-8 in p is written as U+FFFD.
// On an encode error under StopOnInvalid nothing from p is written.
func (w *Writer) Write(p []byte) (int, error) {
	data := p
	if len(w.partial) > 0 {
		data = append(w.partial, p...)
	}

	w.queue.reset()
	i := 0
	for i < len(data) && utf8.FullRune(data[i:]) {
		r, size := utf8.DecodeRune(data[i:])
		w.queue.runes = append(w.queue.runes, r)
		i += size
	}
	w.partial = append(w.partial[:0:0], data[i:]...)

	if err := w.flushQueue(); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close writes any incomplete trailing sequence as U+FFFD.
// It does not close dst.
func (w *Writer) Close() error {
	if len(w.partial) == 0 {
		return nil
	}
	w.partial = w.partial[:0]
	w.queue.reset()
	w.queue.runes = append(w.queue.runes, utf8.RuneError)
	return w.flushQueue()
}

func (w *Writer) flushQueue() error {
	w.out = w.out[:0]
	for {
		b, err := w.enc.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			if w.policy == StopOnInvalid || errors.IsKind(err, errors.KindIO) {
				return err
			}
			w.out = append(w.out, '?')
			continue
		}
		w.out = append(w.out, b)
	}
	if len(w.out) == 0 {
		return nil
	}
	_, err := w.dst.Write(w.out)
	return err
}
