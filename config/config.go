// Package config loads the codepage profile configuration.
//
// Configuration is read from the YAML file named by LOCALCP_CONFIG, if set.
// Without a file the defaults apply. The LOCALCP_PROVIDER, LOCALCP_CONSOLE and
// LOCALCP_FILE environment variables override the corresponding file values.
//
//	provider: portable
//	console: cp866
//	file: windows-1251
//	invalid: replace
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/localcp"
	"github.com/wippyai/localcp/errors"
	"github.com/wippyai/localcp/xtext"
)

// Environment variables read by Load.
const (
	EnvConfig   = "LOCALCP_CONFIG"
	EnvProvider = "LOCALCP_PROVIDER"
	EnvConsole  = "LOCALCP_CONSOLE"
	EnvFile     = "LOCALCP_FILE"
)

// ProviderKind selects the conversion capability backing the profiles.
type ProviderKind string

const (
	// ProviderAuto uses the OS capability where one exists, otherwise UTF-8.
	ProviderAuto ProviderKind = "auto"
	// ProviderOS requires the OS capability.
	ProviderOS ProviderKind = "os"
	// ProviderPortable uses the x/text tables on every platform.
	ProviderPortable ProviderKind = "portable"
	// ProviderUTF8 treats both profiles as UTF-8.
	ProviderUTF8 ProviderKind = "utf8"
)

// Invalid input handling for the io adapters.
const (
	InvalidReplace = "replace"
	InvalidStop    = "stop"
)

// Config is the profile configuration.
type Config struct {
	// Provider selects the conversion capability.
	Provider ProviderKind `yaml:"provider"`

	// Console is the codepage of the console profile, as a number or a name.
	Console string `yaml:"console"`

	// File is the codepage of the file profile.
	File string `yaml:"file"`

	// ANSI and OEM set what "acp" and "oemcp" mean for the portable provider.
	// The OS provider always uses the process's active codepages.
	ANSI string `yaml:"ansi,omitempty"`
	OEM  string `yaml:"oem,omitempty"`

	// Invalid is "replace" or "stop".
	Invalid string `yaml:"invalid"`
}

// Resolved is a validated Config with codepage names parsed.
type Resolved struct {
	Provider ProviderKind
	Console  localcp.ID
	File     localcp.ID
	ANSI     localcp.ID
	OEM      localcp.ID
	Policy   localcp.Policy
}

// Default returns the default configuration: the console uses the OEM
// codepage and files use the ANSI codepage, as on Windows.
func Default() *Config {
	return &Config{
		Provider: ProviderAuto,
		Console:  "oemcp",
		File:     "acp",
		Invalid:  InvalidReplace,
	}
}

// Load reads the file named by LOCALCP_CONFIG, if any, and applies the
// environment overrides.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv(EnvConfig); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv(os.LookupEnv)
	return cfg, nil
}

// LoadFile reads configuration from path and applies the environment overrides.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnv(os.LookupEnv)
	return cfg, nil
}

// Parse reads configuration from YAML data without consulting the environment.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.parse(data, "config"); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindIO, err, "read "+path)
	}
	return c.parse(data, path)
}

func (c *Config) parse(data []byte, source string) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse "+source)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvProvider); ok && v != "" {
		c.Provider = ProviderKind(strings.ToLower(strings.TrimSpace(v)))
	}
	if v, ok := lookup(EnvConsole); ok && v != "" {
		c.Console = v
	}
	if v, ok := lookup(EnvFile); ok && v != "" {
		c.File = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	_, err := c.Resolve()
	return err
}

// Resolve validates the configuration and parses its codepages.
// All problems are reported together.
func (c *Config) Resolve() (*Resolved, error) {
	var errs []error
	r := &Resolved{Provider: c.Provider}

	switch c.Provider {
	case ProviderAuto, ProviderOS, ProviderPortable, ProviderUTF8:
	default:
		errs = append(errs, errors.InvalidInput(errors.PhaseConfig,
			fmt.Sprintf("provider must be one of auto, os, portable, utf8; got %q", c.Provider)))
	}

	switch c.Invalid {
	case InvalidReplace, "":
		r.Policy = localcp.ReplaceInvalid
	case InvalidStop:
		r.Policy = localcp.StopOnInvalid
	default:
		errs = append(errs, errors.InvalidInput(errors.PhaseConfig,
			fmt.Sprintf("invalid must be replace or stop; got %q", c.Invalid)))
	}

	parse := func(field, value string, dst *localcp.ID, optional bool) {
		if optional && value == "" {
			return
		}
		id, err := xtext.ParseID(value)
		if err != nil {
			errs = append(errs, errors.Wrap(errors.PhaseConfig, errors.KindOf(err), err, field))
			return
		}
		*dst = id
	}
	parse("console", c.Console, &r.Console, false)
	parse("file", c.File, &r.File, false)
	parse("ansi", c.ANSI, &r.ANSI, true)
	parse("oem", c.OEM, &r.OEM, true)

	if len(errs) > 0 {
		return nil, stderrors.Join(errs...)
	}
	return r, nil
}
