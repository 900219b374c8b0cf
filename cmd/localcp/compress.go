package main

import (
	"bufio"
	"bytes"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/wippyai/localcp/errors"
)

// Supported -decompress values.
const (
	algAuto   = "auto"
	algGzip   = "gzip"
	algZstd   = "zstd"
	algBrotli = "br"
	algSnappy = "snappy"
	algLZ4    = "lz4"
)

var magic = []struct {
	alg    string
	prefix []byte
}{
	{algGzip, []byte{0x1f, 0x8b}},
	{algZstd, []byte{0x28, 0xb5, 0x2f, 0xfd}},
	{algLZ4, []byte{0x04, 0x22, 0x4d, 0x18}},
	{algSnappy, []byte("\xff\x06\x00\x00sNaPpY")},
}

// sniff picks an algorithm from the stream's magic number. Brotli has none,
// so it must be named explicitly. An unrecognized stream is passed through.
func sniff(br *bufio.Reader) string {
	head, _ := br.Peek(10)
	for _, m := range magic {
		if bytes.HasPrefix(head, m.prefix) {
			return m.alg
		}
	}
	return ""
}

func nopClose() {}

// openDecompressed wraps r in the decompressor for alg. An empty alg returns
// r unchanged. The returned func releases decoder resources.
func openDecompressed(r io.Reader, alg string) (io.Reader, func(), error) {
	if alg == "" {
		return r, nopClose, nil
	}
	if alg == algAuto {
		br := bufio.NewReader(r)
		r, alg = br, sniff(br)
		if alg == "" {
			return r, nopClose, nil
		}
	}

	switch alg {
	case algGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "gzip header")
		}
		return zr, func() { zr.Close() }, nil
	case algZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "zstd stream")
		}
		return zr, zr.Close, nil
	case algBrotli:
		return brotli.NewReader(r), nopClose, nil
	case algSnappy:
		return snappy.NewReader(r), nopClose, nil
	case algLZ4:
		return lz4.NewReader(r), nopClose, nil
	}
	return nil, nil, errors.NotFound(errors.PhaseConfig, "decompression algorithm", alg)
}
