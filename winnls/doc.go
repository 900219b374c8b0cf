// Package winnls provides the localcp conversion capability backed by the
// Windows National Language Support functions in kernel32.dll.
//
// Every codepage installed on the machine can be opened, including the ANSI
// and OEM pseudo-codepages, which resolve to the process's active codepages.
// On other platforms the Provider reports every codepage as unsupported and
// Available returns false.
package winnls
