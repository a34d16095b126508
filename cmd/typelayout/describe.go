package main

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"
	"github.com/spf13/cobra"

	"typelayout/internal/diag"
	"typelayout/internal/manager"
	"typelayout/internal/render"
	"typelayout/internal/schema"
	"typelayout/internal/source"
	"typelayout/internal/types"
)

var describeCmd = &cobra.Command{
	Use:   "describe <schema.toml> [names...]",
	Short: "Describe the layouts of types declared in a schema",
	Long: `Load a TOML schema and report size, alignment and wasted bytes of the
named types under every strategy. Without names every type is described.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDescribe,
}

func init() {
	describeCmd.Flags().String("format", "pretty", "report format (pretty|json)")
	describeCmd.Flags().Int("jobs", 0, "max parallel describes (0=auto)")
	describeCmd.Flags().Bool("fields", false, "include per-component offsets and padding")
	describeCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
}

func runDescribe(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	rend, err := s.renderer()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	fs := source.NewFileSet()
	bag := diag.NewBag(s.maxDiag)
	reporter := diag.BagReporter{Bag: bag}
	m := manager.New()
	timer := s.timer()

	done := timer.Track("load")
	res, loadErr := schema.Load(ctx, fs, args[0], m, reporter)
	done(fmt.Sprintf("%d defined", len(res.Defined)))
	if loadErr != nil {
		return finish(cmd.ErrOrStderr(), bag, fs, s)
	}

	names := args[1:]
	if len(names) == 0 {
		names = m.Names()
	} else {
		names = knownNames(m, fs, names, reporter)
	}

	var outcomes []manager.Outcome
	done = timer.Track("describe")
	_, isPretty := rend.(*render.Pretty)
	if isPretty && !s.quiet && len(names) > 1 && shouldUseTUI(s.ui) {
		outcomes, err = describeWithUI(ctx, "describing "+args[0], m, names, s.jobs)
	} else {
		outcomes, err = m.DescribeAll(ctx, names, s.jobs)
	}
	done(fmt.Sprintf("%d types", len(names)))
	if err != nil {
		return err
	}

	done = timer.Track("render")
	out := cmd.OutOrStdout()
	for _, o := range outcomes {
		if o.Err != nil {
			diag.ReportError(reporter, diag.TypLayout, source.Span{File: fileOf(fs, args[0])},
				fmt.Sprintf("cannot describe %q: %v", o.Name, o.Err)).Emit()
			continue
		}
		if err := rend.Report(out, o.Report); err != nil {
			return err
		}
	}
	done("")

	if s.timings {
		printTimings(cmd.ErrOrStderr(), timer)
	}
	return finish(cmd.ErrOrStderr(), bag, fs, s)
}

// knownNames drops names that are not defined, reporting each one against a
// virtual "<args>" file holding the command line.
func knownNames(m *manager.Manager, fs *source.FileSet, names []string, r diag.Reporter) []string {
	line := strings.Join(names, " ")
	id := fs.AddVirtual("<args>", []byte(line))

	known := make([]string, 0, len(names))
	var offset uint32
	for _, name := range names {
		width, err := safecast.Conv[uint32](len(name))
		if err != nil {
			panic(fmt.Errorf("name length overflow: %w", err))
		}
		span := source.Span{File: id, Start: offset, End: offset + width}
		offset += width + 1

		if _, err := m.Registry().Resolve(name); err != nil {
			var undef *types.UndefinedTypeError
			if errors.As(err, &undef) {
				diag.ReportError(r, diag.TypUndefined, span, undef.Error()).Emit()
				continue
			}
			diag.ReportError(r, diag.UnknownCode, span, err.Error()).Emit()
			continue
		}
		known = append(known, name)
	}
	return known
}

func fileOf(fs *source.FileSet, path string) source.FileID {
	id, _ := fs.GetLatest(path)
	return id
}
