//go:build !windows

package winnls

import (
	"github.com/wippyai/localcp"
	"github.com/wippyai/localcp/errors"
)

// Provider opens codepages through the Windows NLS functions.
type Provider struct{}

var _ localcp.Provider = Provider{}

// Available reports whether the NLS functions can be called.
func Available() bool { return false }

// Open always fails outside Windows.
func (Provider) Open(id localcp.ID) (localcp.Codepage, error) {
	return nil, errors.New(errors.PhaseInit, errors.KindUnsupported).
		Codepage(uint32(id)).
		Detail("windows NLS is not available on this platform").
		Build()
}

// SystemCodepages returns the process's ANSI and OEM codepages.
// Outside Windows ok is false.
func SystemCodepages() (ansi, oem localcp.ID, ok bool) {
	return 0, 0, false
}
