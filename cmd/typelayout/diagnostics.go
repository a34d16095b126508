package main

import (
	"fmt"
	"io"
	"strings"

	"typelayout/internal/diag"
	"typelayout/internal/diagfmt"
	"typelayout/internal/source"
	"typelayout/internal/version"
)

// printDiagnostics writes bag in the requested format. Pretty output is
// skipped for an empty bag so successful runs stay quiet.
func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, format string, s *settings) error {
	bag.Sort()
	switch strings.ToLower(format) {
	case "", "pretty":
		if bag.Len() == 0 {
			return nil
		}
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     s.color,
			PathMode:  diagfmt.PathModeAsIs,
			ShowNotes: true,
			ShowFixes: true,
		})
		return nil
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeAsIs,
			Max:              s.maxDiag,
			IncludeNotes:     true,
			IncludeFixes:     true,
		})
	case "sarif":
		return diagfmt.Sarif(w, bag, fs, diagfmt.SarifRunMeta{
			ToolName:    "typelayout",
			ToolVersion: version.Version,
		})
	default:
		return fmt.Errorf("unknown diagnostics format %q (expected: pretty|json|sarif)", format)
	}
}

// finish prints diagnostics to stderr and maps errors to errReported.
func finish(w io.Writer, bag *diag.Bag, fs *source.FileSet, s *settings) error {
	if err := printDiagnostics(w, bag, fs, "pretty", s); err != nil {
		return err
	}
	if bag.HasErrors() {
		return errReported
	}
	return nil
}
