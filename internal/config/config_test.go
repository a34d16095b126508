package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func write(t *testing.T, dir, text string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := write(t, root, Starter)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find: %v %v", ok, err)
	}
	if got != want {
		t.Fatalf("Find = %q, want %q", got, want)
	}
}

func TestDiscoverDefaults(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	// a typelayout.toml above TempDir would change the result
	if cfg.Path != "" {
		t.Skipf("found %s above the temp dir", cfg.Path)
	}
	if cfg.Output.Format != "pretty" || cfg.Output.Lang != "en" || cfg.UI.Mode != SwitchAuto {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadStarter(t *testing.T) {
	path := write(t, t.TempDir(), Starter)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path != path || cfg.Output.Color != SwitchAuto || cfg.Describe.Jobs != 0 || cfg.Output.Fields {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := write(t, t.TempDir(), "[output]\ncolor = \"OFF\"\nlang = \"es\"\nfields = true\n[describe]\njobs = 3\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.Color != SwitchOff || cfg.Output.Lang != "es" || !cfg.Output.Fields || cfg.Describe.Jobs != 3 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Output.Format != "pretty" {
		t.Fatalf("default format lost: %q", cfg.Output.Format)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, text, want string
	}{
		{"unknown key", "[output]\ncolour = \"on\"\n", "unknown keys: output.colour"},
		{"bad switch", "[ui]\nmode = \"sometimes\"\n", "ui.mode"},
		{"bad format", "[output]\nformat = \"xml\"\n", "output.format"},
		{"negative jobs", "[describe]\njobs = -1\n", "describe.jobs"},
		{"syntax", "[output\n", FileName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := write(t, t.TempDir(), tt.text)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestSwitch(t *testing.T) {
	for in, want := range map[string]Switch{"": SwitchAuto, "On": SwitchOn, "no": SwitchOff} {
		got, err := ParseSwitch(in)
		if err != nil || got != want {
			t.Fatalf("ParseSwitch(%q) = %q, %v", in, got, err)
		}
	}
	if SwitchAuto.Resolve(true) != true || SwitchOff.Resolve(true) != false || SwitchOn.Resolve(false) != true {
		t.Fatalf("Resolve mismatch")
	}
}
