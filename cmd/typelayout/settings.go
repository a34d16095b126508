package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"typelayout/internal/config"
	"typelayout/internal/i18n"
	"typelayout/internal/observ"
	"typelayout/internal/render"
)

// settings is typelayout.toml merged with the flags the user actually set.
type settings struct {
	cfg     config.Config
	color   bool
	quiet   bool
	timings bool
	maxDiag int
	lang    language.Tag
	format  string
	fields  bool
	jobs    int
	ui      config.Switch
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	root := cmd.Root().PersistentFlags()

	cfgPath, err := root.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return nil, err
	}

	s := &settings{
		cfg:    cfg,
		format: cfg.Output.Format,
		fields: cfg.Output.Fields,
		jobs:   cfg.Describe.Jobs,
		ui:     cfg.UI.Mode,
	}

	colorSwitch := cfg.Output.Color
	if root.Changed("color") {
		v, _ := root.GetString("color")
		if colorSwitch, err = config.ParseSwitch(v); err != nil {
			return nil, fmt.Errorf("--color: %w", err)
		}
	}
	s.color = colorSwitch.Resolve(isTerminal(os.Stdout))
	// fatih/color держит глобальный флаг
	color.NoColor = !s.color

	if s.quiet, err = root.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = root.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.maxDiag, err = root.GetInt("max-diagnostics"); err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	lang := cfg.Output.Lang
	if root.Changed("lang") {
		lang, _ = root.GetString("lang")
	}
	if s.lang, err = i18n.Parse(lang); err != nil {
		return nil, fmt.Errorf("--lang: %w", err)
	}

	local := cmd.Flags()
	if f := local.Lookup("format"); f != nil && f.Changed {
		s.format = f.Value.String()
	}
	if f := local.Lookup("fields"); f != nil && f.Changed {
		s.fields, _ = local.GetBool("fields")
	}
	if f := local.Lookup("jobs"); f != nil && f.Changed {
		s.jobs, _ = local.GetInt("jobs")
	}
	if f := local.Lookup("ui"); f != nil && f.Changed {
		if s.ui, err = config.ParseSwitch(f.Value.String()); err != nil {
			return nil, fmt.Errorf("--ui: %w", err)
		}
	}
	return s, nil
}

// renderer builds the output renderer. Formats other than pretty and json
// (sarif) only apply to diagnostics and fall back to pretty here.
func (s *settings) renderer() (render.Renderer, error) {
	format := render.FormatPretty
	if s.format != "sarif" {
		var err error
		if format, err = render.ParseFormat(s.format); err != nil {
			return nil, err
		}
	}
	return render.New(render.Options{
		Format: format,
		Color:  s.color,
		Lang:   s.lang,
		Fields: s.fields,
	}), nil
}

// timer returns a Timer when --timings is set; a nil Timer is a no-op.
func (s *settings) timer() *observ.Timer {
	if !s.timings {
		return nil
	}
	return observ.NewTimer()
}
