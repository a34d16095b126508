package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"typelayout/internal/config"
)

// starterTypes is the example schema written next to typelayout.toml.
const starterTypes = `# Types for ` + "`typelayout describe types.toml`" + `.
[[atomic]]
name = "char"
size = 1
align = 1

[[atomic]]
name = "int"
size = 4
align = 4

[[atomic]]
name = "double"
size = 8
align = 8

[[struct]]
name = "S1"
fields = ["char", "int", "char"]

[[union]]
name = "U"
members = ["char", "int", "double"]
`

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a starter typelayout.toml and types.toml",
	Long: `Create typelayout.toml with default settings and an example types.toml
schema. Without [dir] the current directory is used; a missing directory is
created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

// runInit refuses to overwrite an existing typelayout.toml. types.toml is only
// written when absent.
func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	cfgPath := filepath.Join(target, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("already initialized: %s exists", cfgPath)
	}
	if err := os.WriteFile(cfgPath, []byte(config.Starter), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfgPath, err)
	}
	created := []string{cfgPath}

	typesPath := filepath.Join(target, "types.toml")
	if _, err := os.Stat(typesPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(typesPath, []byte(starterTypes), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", typesPath, err)
		}
		created = append(created, typesPath)
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet {
		for _, p := range created {
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", p)
		}
	}
	return nil
}
