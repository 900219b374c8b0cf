package xtext

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/wippyai/localcp"
	"github.com/wippyai/localcp/errors"
)

var byName = func() map[string]localcp.ID {
	m := make(map[string]localcp.ID, 3*len(table))
	for _, e := range table {
		m[e.name] = e.id
		for _, a := range e.aliases {
			m[a] = e.id
		}
	}
	return m
}()

// ParseID resolves a codepage given as a number ("866"), a name or alias
// ("cp866", "shift_jis") or any IANA name x/text knows for a supported table
// ("csIBM866"). Numbers are accepted as is; whether a provider can open them
// is decided at Open.
func ParseID(s string) (localcp.ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.InvalidInput(errors.PhaseConfig, "empty codepage")
	}
	if n, err := strconv.ParseUint(s, 10, 32); err == nil {
		return localcp.ID(n), nil
	}

	key := strings.ToLower(s)
	switch key {
	case "acp", "ansi":
		return localcp.ACP, nil
	case "oemcp", "oem":
		return localcp.OEMCP, nil
	}
	if id, ok := byName[key]; ok {
		return id, nil
	}

	enc, err := ianaindex.IANA.Encoding(s)
	if err == nil && enc != nil {
		want, err := ianaindex.IANA.Name(enc)
		if err == nil {
			for _, e := range table {
				if name, err := ianaindex.IANA.Name(e.enc); err == nil && name == want {
					return e.id, nil
				}
			}
		}
	}
	return 0, errors.NotFound(errors.PhaseConfig, "codepage", s)
}

// Name returns the canonical name of a supported codepage, or its number.
func Name(id localcp.ID) string {
	if e, ok := byID[id]; ok {
		return e.name
	}
	switch id {
	case localcp.ACP:
		return "acp"
	case localcp.OEMCP:
		return "oemcp"
	}
	return strconv.FormatUint(uint64(id), 10)
}

// Supported returns the codepages this package can open, in ascending order.
func Supported() []localcp.ID {
	ids := make([]localcp.ID, 0, len(table))
	for _, e := range table {
		ids = append(ids, e.id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
