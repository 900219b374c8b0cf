//go:build !windows

package local

const platformName = "unix"

func platformSelector() (*Selector, error) {
	return UTF8(), nil
}
