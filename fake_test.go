package localcp

import (
	"io"

	"github.com/wippyai/localcp/errors"
)

// fakeCodepage is a scripted conversion capability. Runs listed in toUnits
// convert as given; other single bytes convert to themselves; other runs
// starting with a lead byte need more input; anything else has no mapping.
type fakeCodepage struct {
	toUnits   map[string][]uint16
	failures  map[string]error
	fromRunes map[rune][]byte
	leads     map[byte]bool
	def       uint16
	id        ID

	toCalls int
	strict  []bool
}

func newFake() *fakeCodepage {
	return &fakeCodepage{
		toUnits:   make(map[string][]uint16),
		failures:  make(map[string]error),
		fromRunes: make(map[rune][]byte),
		leads:     make(map[byte]bool),
		def:       '?',
		id:        999,
	}
}

func (f *fakeCodepage) ID() ID                 { return f.id }
func (f *fakeCodepage) DefaultChar() uint16    { return f.def }
func (f *fakeCodepage) IsLeadByte(b byte) bool { return f.leads[b] }

func (f *fakeCodepage) ToUTF16(src []byte, dst []uint16, strict bool) (int, error) {
	f.toCalls++
	f.strict = append(f.strict, strict)
	if err, ok := f.failures[string(src)]; ok {
		return 0, err
	}
	if units, ok := f.toUnits[string(src)]; ok {
		if len(units) > len(dst) {
			return 0, errors.ShortBuffer(uint32(f.id), len(dst))
		}
		return copy(dst, units), nil
	}
	if f.leads[src[0]] {
		return 0, errors.InsufficientInput(uint32(f.id))
	}
	if len(src) == 1 {
		dst[0] = uint16(src[0])
		return 1, nil
	}
	return 0, errors.NoTranslation(uint32(f.id), nil)
}

func (f *fakeCodepage) FromUTF16(src []uint16, dst []byte) (int, error) {
	r := rune(src[0])
	if len(src) == 2 {
		r = combineSurrogates(src[0], src[1])
	}
	if b, ok := f.fromRunes[r]; ok {
		return copy(dst, b), nil
	}
	if r < 0x80 {
		dst[0] = byte(r)
		return 1, nil
	}
	return 0, nil
}

type fakeProvider struct {
	cp *fakeCodepage
}

func (p fakeProvider) Open(id ID) (Codepage, error) {
	if p.cp == nil || id != p.cp.id {
		return nil, errors.UnsupportedCodepage(uint32(id))
	}
	return p.cp, nil
}

// failingReader returns data, then err forever.
type failingReader struct {
	data []byte
	err  error
}

func (r *failingReader) ReadByte() (byte, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}
	b := r.data[0]
	r.data = r.data[1:]
	return b, nil
}

// countingRunes records how often upstream is polled.
type countingRunes struct {
	runes []rune
	calls int
}

func (c *countingRunes) ReadRune() (rune, int, error) {
	c.calls++
	if len(c.runes) == 0 {
		return 0, 0, io.EOF
	}
	r := c.runes[0]
	c.runes = c.runes[1:]
	return r, 1, nil
}

type item struct {
	r    rune
	size int
	kind errors.Kind
}

func collect(d RuneDecoder) []item {
	var items []item
	for i := 0; i < 64; i++ {
		r, size, err := d.ReadRune()
		if err == io.EOF {
			return items
		}
		it := item{r: r, size: size}
		if err != nil {
			it.kind = errors.KindOf(err)
			if it.kind == "" {
				it.kind = "untyped"
			}
		}
		items = append(items, it)
	}
	panic("decoder did not terminate")
}
