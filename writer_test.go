package localcp

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/wippyai/localcp/errors"
)

func TestWriter_SplitRune(t *testing.T) {
	f := newFake()
	f.fromRunes['月'] = []byte{0x8c, 0x8e}
	var buf bytes.Buffer
	w := NewWriter(&buf, f, StopOnInvalid)

	chunks := []string{"a\xe6", "\x9c", "\x88b"}
	for _, c := range chunks {
		n, err := w.Write([]byte(c))
		if err != nil {
			t.Fatalf("Write(%q) failed: %v", c, err)
		}
		if n != len(c) {
			t.Errorf("Write(%q) = %d, want %d", c, n, len(c))
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if got := buf.String(); got != "a\x8c\x8eb" {
		t.Errorf("got % x, want 61 8c 8e 62", got)
	}
}

func TestWriter_Policies(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		input   string
		want    string
		wantErr errors.Kind
	}{
		{"replace unrepresentable", ReplaceInvalid, "aéb", "a?b", ""},
		{"replace invalid utf8", ReplaceInvalid, "a\xffb", "a?b", ""},
		{"stop on unrepresentable", StopOnInvalid, "aéb", "", errors.KindUnrepresentable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf, newFake(), tt.policy)
			n, err := w.Write([]byte(tt.input))
			if tt.wantErr != "" {
				if !errors.IsKind(err, tt.wantErr) {
					t.Fatalf("expected %s, got %v", tt.wantErr, err)
				}
				if n != 0 {
					t.Errorf("n = %d, want 0", n)
				}
			} else if err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestWriter_UTF8(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, nil, ReplaceInvalid)
	if _, err := w.Write([]byte("月\xff")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got := buf.String(); got != "月�" {
		t.Errorf("got %q, want %q", got, "月�")
	}
}

func TestWriter_CloseFlushesPartial(t *testing.T) {
	tests := []struct {
		name string
		cp   Codepage
		want string
	}{
		{"utf8", nil, "x�"},
		{"codepage substitution", newFake(), "x?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf, tt.cp, ReplaceInvalid)
			if _, err := w.Write([]byte("x\xe6\x9c")); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if buf.String() != "x" {
				t.Fatalf("partial rune written early: %q", buf.String())
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestWriter_DestinationError(t *testing.T) {
	boom := stderrors.New("boom")
	w := NewWriter(failingWriter{err: boom}, nil, ReplaceInvalid)
	if _, err := w.Write([]byte("a")); !stderrors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}
