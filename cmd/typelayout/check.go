package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"typelayout/internal/diag"
	"typelayout/internal/fix"
	"typelayout/internal/manager"
	"typelayout/internal/schema"
	"typelayout/internal/session"
	"typelayout/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check <script|schema.toml>",
	Short: "Report diagnostics for a script or schema without output",
	Long: `Check a command script or a TOML schema and print only diagnostics.
Files ending in .toml are read as schemas, anything else as a script.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json|sarif)")
	checkCmd.Flags().Bool("fix", false, "apply suggested fixes to the script in place")
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	applyFixes, err := cmd.Flags().GetBool("fix")
	if err != nil {
		return err
	}

	fs := source.NewFileSet()
	bag := diag.NewBag(s.maxDiag)
	reporter := diag.BagReporter{Bag: bag}
	m := manager.New()
	path := args[0]

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		// ошибки чтения уже лежат в bag
		_, _ = schema.Load(cmd.Context(), fs, path, m, reporter)
	} else {
		file, err := loadScript(fs, path, cmd.InOrStdin())
		if err != nil {
			return err
		}
		sess := session.New(m, fs, session.Options{Reporter: reporter})
		if err := sess.Run(cmd.Context(), file); err != nil {
			return err
		}
	}

	if applyFixes {
		res, err := fix.Apply(fs, bag.Items())
		switch {
		case errors.Is(err, fix.ErrNoFixes):
		case err != nil:
			return err
		default:
			for _, a := range res.Applied {
				fmt.Fprintf(cmd.ErrOrStderr(), "fixed %s: %s\n", a.Path, a.Title)
			}
			// проверяем заново уже исправленный файл
			return runCheckAgain(cmd, args)
		}
	}

	if err := printDiagnostics(cmd.OutOrStdout(), bag, fs, format, s); err != nil {
		return err
	}
	if bag.HasErrors() {
		return errReported
	}
	if format == "pretty" && !s.quiet && bag.Len() == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
	}
	return nil
}

// runCheckAgain re-runs the check once with --fix off.
func runCheckAgain(cmd *cobra.Command, args []string) error {
	if err := cmd.Flags().Set("fix", "false"); err != nil {
		return err
	}
	return runCheck(cmd, args)
}
