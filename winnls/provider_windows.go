//go:build windows

package winnls

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/wippyai/localcp"
	"github.com/wippyai/localcp/errors"
)

var (
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procMultiByteToWideChar = kernel32.NewProc("MultiByteToWideChar")
	procWideCharToMultiByte = kernel32.NewProc("WideCharToMultiByte")
	procGetCPInfoExW        = kernel32.NewProc("GetCPInfoExW")
	procIsDBCSLeadByteEx    = kernel32.NewProc("IsDBCSLeadByteEx")
	procGetACP              = kernel32.NewProc("GetACP")
	procGetOEMCP            = kernel32.NewProc("GetOEMCP")
)

const mbErrInvalidChars = 0x00000008

// cpInfoEx mirrors CPINFOEXW.
type cpInfoEx struct {
	MaxCharSize        uint32
	DefaultChar        [2]byte
	LeadByte           [12]byte
	UnicodeDefaultChar uint16
	CodePage           uint32
	CodePageName       [windows.MAX_PATH]uint16
}

// Provider opens codepages through the Windows NLS functions.
type Provider struct{}

var _ localcp.Provider = Provider{}

// Available reports whether the NLS functions can be called.
func Available() bool {
	return procMultiByteToWideChar.Find() == nil
}

// SystemCodepages returns the process's ANSI and OEM codepages.
func SystemCodepages() (ansi, oem localcp.ID, ok bool) {
	if procGetACP.Find() != nil || procGetOEMCP.Find() != nil {
		return 0, 0, false
	}
	a, _, _ := procGetACP.Call()
	o, _, _ := procGetOEMCP.Call()
	return localcp.ID(a), localcp.ID(o), true
}

// Open queries the codepage's information and returns its capability.
// The pseudo-codepages are resolved to the process's active codepages.
func (Provider) Open(id localcp.ID) (localcp.Codepage, error) {
	if !Available() {
		return nil, errors.Unsupported(errors.PhaseInit, "kernel32 NLS functions")
	}
	resolved := id
	if id == localcp.ACP || id == localcp.OEMCP {
		ansi, oem, _ := SystemCodepages()
		resolved = ansi
		if id == localcp.OEMCP {
			resolved = oem
		}
	}

	var info cpInfoEx
	r, _, err := procGetCPInfoExW.Call(uintptr(resolved), 0, uintptr(unsafe.Pointer(&info)))
	if r == 0 {
		return nil, errors.New(errors.PhaseInit, errors.KindUnsupported).
			Codepage(uint32(id)).
			Cause(err).
			Detail("codepage is not installed").
			Build()
	}
	return &Codepage{
		id:          resolved,
		defaultChar: info.UnicodeDefaultChar,
		maxCharSize: int(info.MaxCharSize),
		flags:       flagsFor(resolved),
	}, nil
}

// Codepage converts through MultiByteToWideChar and WideCharToMultiByte.
// It is safe for concurrent use.
type Codepage struct {
	id          localcp.ID
	defaultChar uint16
	maxCharSize int
	flags       uint32
}

var _ localcp.Codepage = (*Codepage)(nil)

// ID returns the resolved codepage number.
func (c *Codepage) ID() localcp.ID { return c.id }

// DefaultChar returns the codepage's Unicode default character.
func (c *Codepage) DefaultChar() uint16 { return c.defaultChar }

// MaxCharSize returns the longest byte sequence of one character.
func (c *Codepage) MaxCharSize() int { return c.maxCharSize }

// IsLeadByte reports whether b starts a multi-byte sequence. IsDBCSLeadByteEx
// knows nothing of UTF-8 or the four-byte GB18030 form, so those ranges are
// fixed here.
func (c *Codepage) IsLeadByte(b byte) bool {
	switch {
	case c.id == localcp.UTF8:
		return b >= 0xc2 && b <= 0xf4
	case c.id == 54936:
		return b >= 0x81 && b <= 0xfe
	case c.maxCharSize < 2:
		return false
	}
	r, _, _ := procIsDBCSLeadByteEx.Call(uintptr(c.id), uintptr(b))
	return r != 0
}

// ToUTF16 calls MultiByteToWideChar, passing MB_ERR_INVALID_CHARS when strict
// is set and the codepage accepts it.
func (c *Codepage) ToUTF16(src []byte, dst []uint16, strict bool) (int, error) {
	if len(src) == 0 || len(dst) == 0 {
		return 0, nil
	}
	var flags uint32
	if strict {
		flags = c.flags
	}
	r, _, err := procMultiByteToWideChar.Call(
		uintptr(c.id),
		uintptr(flags),
		uintptr(unsafe.Pointer(&src[0])),
		uintptr(len(src)),
		uintptr(unsafe.Pointer(&dst[0])),
		uintptr(len(dst)),
	)
	if int32(r) > 0 {
		return int(int32(r)), nil
	}
	return 0, c.convertError(err, len(dst))
}

// FromUTF16 calls WideCharToMultiByte with the codepage's default character
// substitution.
func (c *Codepage) FromUTF16(src []uint16, dst []byte) (int, error) {
	if len(src) == 0 || len(dst) == 0 {
		return 0, nil
	}
	r, _, err := procWideCharToMultiByte.Call(
		uintptr(c.id),
		0,
		uintptr(unsafe.Pointer(&src[0])),
		uintptr(len(src)),
		uintptr(unsafe.Pointer(&dst[0])),
		uintptr(len(dst)),
		0,
		0,
	)
	if int32(r) > 0 {
		return int(int32(r)), nil
	}
	return 0, c.convertError(err, len(dst))
}

func (c *Codepage) convertError(err error, have int) error {
	id := uint32(c.id)
	errno, _ := err.(syscall.Errno)
	switch errno {
	case windows.ERROR_INSUFFICIENT_BUFFER:
		return errors.ShortBuffer(id, have)
	case windows.ERROR_NO_UNICODE_TRANSLATION:
		return errors.NoTranslation(id, err)
	}
	return errors.New(errors.PhaseConvert, errors.KindNoTranslation).
		Codepage(id).
		Cause(err).
		Detail("conversion failed").
		Build()
}

// flagsFor returns the strict-mode flags a codepage accepts. The listed
// codepages reject MB_ERR_INVALID_CHARS with ERROR_INVALID_FLAGS.
func flagsFor(id localcp.ID) uint32 {
	switch {
	case id == 42, id == 65000:
		return 0
	case id >= 50220 && id <= 50229:
		return 0
	case id >= 57002 && id <= 57011:
		return 0
	}
	return mbErrInvalidChars
}
