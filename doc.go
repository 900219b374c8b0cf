// Package localcp converts between a platform's local byte encoding and
// Unicode as two composable streaming transforms.
//
// The local encoding is a legacy single-, double- or multi-byte codepage on
// platforms that have one, and UTF-8 everywhere else. Console and file text
// I/O typically use different codepages; the local package picks them.
//
// # Architecture Overview
//
//	localcp/            Decoder, Encoder, UTF-8 fallback, io adapters
//	├── errors/         Structured error types
//	├── xtext/          Portable conversion capability on golang.org/x/text tables
//	├── winnls/         Windows NLS conversion capability
//	├── config/         YAML and environment profile configuration
//	├── local/          Console and file profile selection
//	└── cmd/localcp/    Command-line transcoder and inspector
//
// # Data Flow
//
//	bytes ─→ [Decoder] ─→ runes (or item errors) ─→ application ─→ [Encoder] ─→ bytes
//
// Both transforms are pull-based. A Decoder reads from an io.ByteReader and
// holds at most one byte of lookahead between calls; an Encoder reads from an
// io.RuneReader and holds at most four output bytes. Neither does any work
// until asked for the next item.
//
// # Quick Start
//
//	cp, err := localcp.Open(xtext.Provider{}, 866)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dec := localcp.NewDecoder(bytes.NewReader([]byte("\x92\xa5\xe1\xe2")), cp)
//	for r, err := range dec.All() {
//	    if err != nil {
//	        // item-level decode error; the stream continues
//	        continue
//	    }
//	    fmt.Printf("%c", r) // Тест
//	}
//
// # Conversion Capability
//
// Codepage tables are not part of this package. A Provider opens a Codepage,
// which converts runs of bytes to UTF-16 units and back, reports the default
// replacement unit and recognizes lead bytes. The Decoder grows a byte run one
// byte at a time until the capability accepts it, so it never needs to rewind
// its source.
//
// # Errors
//
// Decode errors are items of the stream: Next returns them and the following
// call continues after the offending bytes, without any resynchronization.
// io.EOF ends the stream. Encode failures (a character the capability cannot
// produce any bytes for) are likewise item errors rather than panics.
//
// A byte run whose only conversion result equals the codepage's default
// replacement unit is reported as invalid. Input that legitimately maps to that
// exact character is therefore indistinguishable from an error.
//
// # Thread Safety
//
// Decoders, Encoders, Readers and Writers own their upstream source and are
// not safe for concurrent use. Distinct instances share no state.
package localcp
