package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/wippyai/localcp"
	"github.com/wippyai/localcp/config"
	"github.com/wippyai/localcp/errors"
	"github.com/wippyai/localcp/local"
	"github.com/wippyai/localcp/xtext"
)

func testSelector(t *testing.T) *local.Selector {
	t.Helper()
	sel, err := local.New(xtext.Provider{}, 866, 1251)
	if err != nil {
		t.Fatalf("local.New failed: %v", err)
	}
	return sel
}

var privet1251 = []byte{0xcf, 0xf0, 0xe8, 0xe2, 0xe5, 0xf2}

func TestRun_Transcode(t *testing.T) {
	tests := []struct {
		name  string
		from  string
		to    string
		input []byte
		want  []byte
	}{
		{"file to utf8", "file", "utf-8", privet1251, []byte("Привет")},
		{"utf8 to console", "utf8", "console", []byte("Тест"), []byte{0x92, 0xa5, 0xe1, 0xe2}},
		{"named codepages", "cp1251", "ibm866", privet1251, []byte{0x8f, 0xe0, 0xa8, 0xa2, 0xa5, 0xe2}},
		{"unmappable becomes substitute", "utf8", "cp866", []byte("a月b"), []byte("a?b")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			opts := options{from: tt.from, to: tt.to}
			if err := run(testSelector(t), opts, nil, bytes.NewReader(tt.input), &out); err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if !bytes.Equal(out.Bytes(), tt.want) {
				t.Errorf("got % x, want % x", out.Bytes(), tt.want)
			}
		})
	}
}

func TestRun_Files(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(a, privet1251[:3], 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, privet1251[3:], 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	opts := options{from: "file", to: "utf8"}
	if err := run(testSelector(t), opts, []string{a, b}, nil, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out.String() != "Привет" {
		t.Errorf("got %q, want \"Привет\"", out.String())
	}

	err := run(testSelector(t), opts, []string{filepath.Join(dir, "missing")}, nil, &out)
	if !errors.IsKind(err, errors.KindIO) {
		t.Errorf("expected io error for missing file, got %v", err)
	}
}

func TestRun_Policies(t *testing.T) {
	// 0xa5 is unassigned in iso-8859-3.
	input := []byte{'o', 'k', 0xa5}

	var out bytes.Buffer
	opts := options{from: "28593", to: "utf8"}
	if err := run(testSelector(t), opts, nil, bytes.NewReader(input), &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out.String() != "ok\ufffd" {
		t.Errorf("replace policy output %q", out.String())
	}

	strict := testSelector(t).WithPolicy(localcp.StopOnInvalid)
	out.Reset()
	err := run(strict, opts, nil, bytes.NewReader(input), &out)
	if !errors.IsKind(err, errors.KindInvalidData) {
		t.Fatalf("expected invalid data, got %v", err)
	}
	if !strings.Contains(err.Error(), "offset 2") {
		t.Errorf("error does not report offset: %v", err)
	}
}

func TestEndpoint(t *testing.T) {
	sel := testSelector(t)
	tests := []struct {
		arg  string
		want localcp.ID
	}{
		{"console", 866},
		{"FILE", 1251},
		{"shift_jis", 932},
		{"65001", localcp.UTF8},
	}
	for _, tt := range tests {
		cp, err := endpoint(sel, tt.arg)
		if err != nil {
			t.Fatalf("endpoint(%q) failed: %v", tt.arg, err)
		}
		got := localcp.UTF8
		if cp != nil {
			got = cp.ID()
		}
		if got != tt.want {
			t.Errorf("endpoint(%q) = %d, want %d", tt.arg, got, tt.want)
		}
	}

	if _, err := endpoint(sel, "klingon"); !errors.IsKind(err, errors.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestEndpoint_ConfiguredSystemCodepages(t *testing.T) {
	for _, provider := range []string{"portable", "utf8"} {
		t.Run(provider, func(t *testing.T) {
			cfg, err := config.Parse([]byte("provider: " + provider + "\nansi: 1251\noem: 866\n"))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			sel, err := local.FromConfig(cfg)
			if err != nil {
				t.Fatalf("FromConfig failed: %v", err)
			}
			for arg, want := range map[string]localcp.ID{"acp": 1251, "oemcp": 866, "0": 1251, "1": 866} {
				cp, err := endpoint(sel, arg)
				if err != nil {
					t.Fatalf("endpoint(%q) failed: %v", arg, err)
				}
				if cp == nil || cp.ID() != want {
					t.Errorf("endpoint(%q) = %v, want cp%d", arg, cp, want)
				}
			}
		})
	}
}

func compressWith(t *testing.T, alg string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	switch alg {
	case algGzip:
		w = gzip.NewWriter(&buf)
	case algZstd:
		zw, err := zstd.NewWriter(&buf)
		if err != nil {
			t.Fatal(err)
		}
		w = zw
	case algBrotli:
		w = brotli.NewWriter(&buf)
	case algSnappy:
		w = snappy.NewBufferedWriter(&buf)
	case algLZ4:
		w = lz4.NewWriter(&buf)
	default:
		t.Fatalf("unknown algorithm %s", alg)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestOpenDecompressed(t *testing.T) {
	plain := bytes.Repeat(privet1251, 50)

	for _, alg := range []string{algGzip, algZstd, algBrotli, algSnappy, algLZ4} {
		t.Run(alg, func(t *testing.T) {
			compressed := compressWith(t, alg, plain)

			modes := []string{alg}
			if alg != algBrotli {
				modes = append(modes, algAuto)
			}
			for _, mode := range modes {
				r, closeFn, err := openDecompressed(bytes.NewReader(compressed), mode)
				if err != nil {
					t.Fatalf("openDecompressed(%s) failed: %v", mode, err)
				}
				got, err := io.ReadAll(r)
				closeFn()
				if err != nil {
					t.Fatalf("read (%s) failed: %v", mode, err)
				}
				if !bytes.Equal(got, plain) {
					t.Errorf("mode %s: decompressed %d bytes, want %d", mode, len(got), len(plain))
				}
			}
		})
	}
}

func TestOpenDecompressed_Passthrough(t *testing.T) {
	for _, mode := range []string{"", algAuto} {
		r, closeFn, err := openDecompressed(strings.NewReader("plain text"), mode)
		if err != nil {
			t.Fatalf("mode %q: %v", mode, err)
		}
		got, _ := io.ReadAll(r)
		closeFn()
		if string(got) != "plain text" {
			t.Errorf("mode %q: got %q", mode, got)
		}
	}

	if _, _, err := openDecompressed(strings.NewReader(""), "rar"); !errors.IsKind(err, errors.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if _, _, err := openDecompressed(strings.NewReader("nope"), algGzip); !errors.IsKind(err, errors.KindInvalidData) {
		t.Errorf("expected invalid gzip header, got %v", err)
	}
}

func TestRun_Decompress(t *testing.T) {
	compressed := compressWith(t, algZstd, privet1251)
	var out bytes.Buffer
	opts := options{from: "file", to: "utf8", decompress: algAuto}
	if err := run(testSelector(t), opts, nil, bytes.NewReader(compressed), &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out.String() != "Привет" {
		t.Errorf("got %q", out.String())
	}
}

func TestPrintList(t *testing.T) {
	var out bytes.Buffer
	printList(&out, testSelector(t))
	s := out.String()
	for _, want := range []string{"console", "866  ibm866", "1251  windows-1251", "65001  utf-8"} {
		if !strings.Contains(s, want) {
			t.Errorf("list output missing %q:\n%s", want, s)
		}
	}
}

func TestConvert(t *testing.T) {
	cp866, err := xtext.Provider{}.Open(866)
	if err != nil {
		t.Fatal(err)
	}

	c := convert(cp866, "Тест")
	if c.lossy || c.encodeErr != 0 || c.decodeErr != 0 {
		t.Errorf("cp866 Тест: %+v", c)
	}
	if !bytes.Equal(c.encoded, []byte{0x92, 0xa5, 0xe1, 0xe2}) {
		t.Errorf("encoded % x", c.encoded)
	}

	if c := convert(cp866, "月"); !c.lossy {
		t.Error("cp866 月 should be lossy")
	}
	if c := convert(nil, "月"); c.lossy || len(c.items) != 1 || c.items[0].size != 3 {
		t.Errorf("utf8 月: %+v", c)
	}
}
