// Package xtext provides a portable conversion capability for localcp built on
// the golang.org/x/text encoding tables.
//
// Codepages are addressed by their Windows codepage numbers, so the same
// profile configuration works with this package and with the winnls package.
// Stateful encodings (ISO-2022-JP, HZ-GB-2312) and EBCDIC are not offered:
// the localcp Decoder converts one character at a time and assumes an
// ASCII-compatible default character.
//
// Conversions follow the rules of the Windows NLS functions closely enough for
// the localcp Decoder to drive them byte by byte:
//
//	lead byte alone              insufficient input
//	lead byte + invalid trail    U+FFFD followed by the trail's own decoding
//	invalid single byte, strict  no translation
//	unmappable rune (encode)     '?'
package xtext
