//go:build windows

package local

import (
	"github.com/wippyai/localcp"
	"github.com/wippyai/localcp/winnls"
)

const platformName = "windows"

func platformSelector() (*Selector, error) {
	if !winnls.Available() {
		return UTF8(), nil
	}
	return New(winnls.Provider{}, localcp.OEMCP, localcp.ACP)
}
