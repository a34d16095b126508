// Package config reads typelayout.toml, the per-project defaults for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the name looked up by Find.
const FileName = "typelayout.toml"

// Switch is a tri-state auto|on|off setting.
type Switch string

const (
	SwitchAuto Switch = "auto"
	SwitchOn   Switch = "on"
	SwitchOff  Switch = "off"
)

// ParseSwitch accepts auto|on|off in any case; "" means auto.
func ParseSwitch(s string) (Switch, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "", "auto":
		return SwitchAuto, nil
	case "on", "true", "yes":
		return SwitchOn, nil
	case "off", "false", "no":
		return SwitchOff, nil
	}
	return "", fmt.Errorf("invalid value %q (expected auto|on|off)", s)
}

// Resolve turns the switch into a bool, using auto for SwitchAuto.
func (s Switch) Resolve(auto bool) bool {
	switch s {
	case SwitchOn:
		return true
	case SwitchOff:
		return false
	}
	return auto
}

// Output is the [output] table.
type Output struct {
	Color  Switch `toml:"color"`
	Format string `toml:"format"`
	Lang   string `toml:"lang"`
	Fields bool   `toml:"fields"`
}

// UI is the [ui] table.
type UI struct {
	Mode Switch `toml:"mode"`
}

// Describe is the [describe] table.
type Describe struct {
	Jobs int `toml:"jobs"`
}

// Config is the whole file. Path is empty when defaults are used.
type Config struct {
	Output   Output   `toml:"output"`
	UI       UI       `toml:"ui"`
	Describe Describe `toml:"describe"`

	Path string `toml:"-"`
}

// Default returns the settings used without a config file.
func Default() Config {
	return Config{
		Output: Output{Color: SwitchAuto, Format: "pretty", Lang: "en"},
		UI:     UI{Mode: SwitchAuto},
	}
}

// Find walks up from startDir to locate typelayout.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds and loads the nearest config, or returns Default.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) validate() error {
	var err error
	if c.Output.Color, err = ParseSwitch(string(c.Output.Color)); err != nil {
		return fmt.Errorf("output.color: %w", err)
	}
	if c.UI.Mode, err = ParseSwitch(string(c.UI.Mode)); err != nil {
		return fmt.Errorf("ui.mode: %w", err)
	}
	switch strings.ToLower(c.Output.Format) {
	case "", "pretty", "json":
	default:
		return fmt.Errorf("output.format: unknown format %q (expected pretty|json)", c.Output.Format)
	}
	if c.Describe.Jobs < 0 {
		return fmt.Errorf("describe.jobs: must not be negative, got %d", c.Describe.Jobs)
	}
	return nil
}

// Starter is the file `typelayout init` writes.
const Starter = `# typelayout project settings
[output]
color = "auto"     # auto|on|off
format = "pretty"  # pretty|json
lang = "en"        # en|es
fields = false     # show component offsets

[ui]
mode = "auto"      # interactive TUI: auto|on|off

[describe]
jobs = 0           # 0 = one worker per CPU
`
