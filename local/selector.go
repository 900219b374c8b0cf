package local

import (
	"bufio"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/localcp"
	"github.com/wippyai/localcp/config"
	"github.com/wippyai/localcp/errors"
	"github.com/wippyai/localcp/winnls"
	"github.com/wippyai/localcp/xtext"
)

// Profile names a text destination whose codepage is chosen by the platform.
type Profile int

const (
	Console Profile = iota
	File
)

func (p Profile) String() string {
	switch p {
	case Console:
		return "console"
	case File:
		return "file"
	}
	return "unknown"
}

// ParseProfile returns the profile named s.
func ParseProfile(s string) (Profile, bool) {
	switch s {
	case "console":
		return Console, true
	case "file":
		return File, true
	}
	return 0, false
}

// Selector maps the console and file profiles to conversion capabilities.
// A nil capability means UTF-8. A Selector is safe for concurrent use; the
// streams it creates are not.
type Selector struct {
	console localcp.Codepage
	file    localcp.Codepage
	policy  localcp.Policy

	// provider opens codepages named outside the two profiles.
	provider localcp.Provider
}

// New opens the console and file codepages with p.
func New(p localcp.Provider, console, file localcp.ID) (*Selector, error) {
	c, err := localcp.Open(p, console)
	if err != nil {
		return nil, err
	}
	f, err := localcp.Open(p, file)
	if err != nil {
		return nil, err
	}
	s := &Selector{console: c, file: f, provider: p}
	s.log("codepage profiles resolved")
	return s, nil
}

// UTF8 returns a Selector that treats both profiles as UTF-8.
func UTF8() *Selector {
	s := &Selector{}
	s.log("codepage profiles resolved")
	return s
}

// Platform returns the build platform's default Selector.
func Platform() (*Selector, error) {
	return platformSelector()
}

// FromConfig builds a Selector from configuration.
//
// The auto provider uses the OS capability where one exists. Elsewhere it
// falls back to UTF-8, unless the configuration names explicit codepages, in
// which case the portable tables are used.
func FromConfig(cfg *config.Config) (*Selector, error) {
	r, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}

	portable := xtext.Provider{ANSI: r.ANSI, OEM: r.OEM}
	var s *Selector
	switch r.Provider {
	case config.ProviderUTF8:
		s = UTF8()
		s.provider = portable
	case config.ProviderPortable:
		s, err = New(portable, r.Console, r.File)
	case config.ProviderOS:
		if !winnls.Available() {
			return nil, errors.Unsupported(errors.PhaseConfig, "os provider on "+platformName)
		}
		s, err = New(winnls.Provider{}, r.Console, r.File)
	default:
		switch {
		case winnls.Available():
			s, err = New(winnls.Provider{}, r.Console, r.File)
		case isPseudo(r.Console) && isPseudo(r.File):
			s = UTF8()
			s.provider = portable
		default:
			s, err = New(portable, r.Console, r.File)
		}
	}
	if err != nil {
		return nil, err
	}
	return s.WithPolicy(r.Policy), nil
}

func isPseudo(id localcp.ID) bool {
	return id == localcp.ACP || id == localcp.OEMCP
}

// WithPolicy returns a copy of s whose Readers and Writers use policy.
func (s *Selector) WithPolicy(policy localcp.Policy) *Selector {
	c := *s
	c.policy = policy
	return &c
}

// Open opens id with the provider the Selector was resolved with, so pseudo
// identifiers follow the configured ANSI and OEM codepages. UTF-8 yields a
// nil capability.
func (s *Selector) Open(id localcp.ID) (localcp.Codepage, error) {
	if id == localcp.UTF8 {
		return nil, nil
	}
	p := s.provider
	if p == nil {
		p = xtext.Provider{}
	}
	return localcp.Open(p, id)
}

// Policy returns the invalid input policy for Readers and Writers.
func (s *Selector) Policy() localcp.Policy {
	return s.policy
}

// Codepage returns the capability for p, or nil for UTF-8.
func (s *Selector) Codepage(p Profile) localcp.Codepage {
	if p == Console {
		return s.console
	}
	return s.file
}

// ID returns the codepage number for p.
func (s *Selector) ID(p Profile) localcp.ID {
	if cp := s.Codepage(p); cp != nil {
		return cp.ID()
	}
	return localcp.UTF8
}

// Decoder returns a decoder for p reading from src.
func (s *Selector) Decoder(p Profile, src io.ByteReader) localcp.RuneDecoder {
	if cp := s.Codepage(p); cp != nil {
		return localcp.NewDecoder(src, cp)
	}
	return localcp.NewUTF8Decoder(src)
}

// Encoder returns an encoder for p reading characters from src.
func (s *Selector) Encoder(p Profile, src io.RuneReader) localcp.ByteEncoder {
	if cp := s.Codepage(p); cp != nil {
		return localcp.NewEncoder(src, cp)
	}
	return localcp.NewUTF8Encoder(src)
}

// Reader returns a UTF-8 Reader over src, which is in p's codepage.
func (s *Selector) Reader(p Profile, src io.Reader) *localcp.Reader {
	br, ok := src.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(src)
	}
	return localcp.NewReader(s.Decoder(p, br), s.policy)
}

// Writer returns a Writer encoding UTF-8 text into p's codepage.
func (s *Selector) Writer(p Profile, dst io.Writer) *localcp.Writer {
	return localcp.NewWriter(dst, s.Codepage(p), s.policy)
}

func (s *Selector) log(msg string) {
	Logger().Debug(msg,
		zap.Uint32("console", uint32(s.ID(Console))),
		zap.Uint32("file", uint32(s.ID(File))))
}

var (
	system     *Selector
	systemErr  error
	systemOnce sync.Once
)

// System returns the process-wide Selector. It is built once from the
// environment configuration, or from the platform default if none is set.
func System() (*Selector, error) {
	systemOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			systemErr = err
			return
		}
		system, systemErr = FromConfig(cfg)
	})
	return system, systemErr
}

// ConsoleDecode decodes console text from src.
func ConsoleDecode(src io.ByteReader) (localcp.RuneDecoder, error) {
	return decode(Console, src)
}

// FileDecode decodes file text from src.
func FileDecode(src io.ByteReader) (localcp.RuneDecoder, error) {
	return decode(File, src)
}

// ConsoleEncode encodes characters from src as console text.
func ConsoleEncode(src io.RuneReader) (localcp.ByteEncoder, error) {
	return encode(Console, src)
}

// FileEncode encodes characters from src as file text.
func FileEncode(src io.RuneReader) (localcp.ByteEncoder, error) {
	return encode(File, src)
}

func decode(p Profile, src io.ByteReader) (localcp.RuneDecoder, error) {
	s, err := System()
	if err != nil {
		return nil, err
	}
	return s.Decoder(p, src), nil
}

func encode(p Profile, src io.RuneReader) (localcp.ByteEncoder, error) {
	s, err := System()
	if err != nil {
		return nil, err
	}
	return s.Encoder(p, src), nil
}
