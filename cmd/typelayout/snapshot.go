package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"typelayout/internal/diag"
	"typelayout/internal/manager"
	"typelayout/internal/schema"
	"typelayout/internal/snapshot"
	"typelayout/internal/source"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <schema.toml>",
	Short: "Save the types of a schema as a snapshot",
	Long: `Load a TOML schema and write its registry as a snapshot that
` + "`typelayout repl --load`" + ` can restore. Nothing is written when the schema
has errors.`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringP("output", "o", "", "snapshot file (default: <schema>"+snapshot.Ext+")")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	out, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if out == "" {
		out = strings.TrimSuffix(args[0], ".toml") + snapshot.Ext
	}

	fs := source.NewFileSet()
	bag := diag.NewBag(s.maxDiag)
	m := manager.New()
	// ошибки чтения попадают в bag
	_, _ = schema.Load(cmd.Context(), fs, args[0], m, diag.BagReporter{Bag: bag})
	if err := finish(cmd.ErrOrStderr(), bag, fs, s); err != nil {
		return err
	}

	snap := snapshot.Capture(m.Registry())
	if err := snapshot.Save(out, snap); err != nil {
		return err
	}
	if !s.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d types to %s\n", len(snap.Types), out)
	}
	return nil
}
