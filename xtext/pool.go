package xtext

import (
	"sync"

	"golang.org/x/text/encoding"
)

// transformer pools per codepage. x/text decoders and encoders carry state
// between Transform calls, so a Codepage shared by several streams must not
// share one instance.
type pools struct {
	dec sync.Pool
	enc sync.Pool
}

func newPools(enc encoding.Encoding) *pools {
	return &pools{
		dec: sync.Pool{New: func() any { return enc.NewDecoder() }},
		enc: sync.Pool{New: func() any { return enc.NewEncoder() }},
	}
}

func (p *pools) getDecoder() *encoding.Decoder {
	d := p.dec.Get().(*encoding.Decoder)
	d.Reset()
	return d
}

func (p *pools) putDecoder(d *encoding.Decoder) {
	p.dec.Put(d)
}

func (p *pools) getEncoder() *encoding.Encoder {
	e := p.enc.Get().(*encoding.Encoder)
	e.Reset()
	return e
}

func (p *pools) putEncoder(e *encoding.Encoder) {
	p.enc.Put(e)
}
