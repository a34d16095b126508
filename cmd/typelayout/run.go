package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"typelayout/internal/diag"
	"typelayout/internal/manager"
	"typelayout/internal/session"
	"typelayout/internal/source"
)

var runCmd = &cobra.Command{
	Use:   "run <script|->",
	Short: "Execute a command script",
	Long: `Execute ATOMIC/STRUCT/UNION/DESCRIBE/LIST commands from a script file,
or from standard input when the argument is "-". Diagnostics go to stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	runCmd.Flags().String("format", "pretty", "report format (pretty|json)")
	runCmd.Flags().Bool("fields", false, "include per-component offsets and padding")
}

func runScript(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	rend, err := s.renderer()
	if err != nil {
		return err
	}

	fs := source.NewFileSet()
	file, err := loadScript(fs, args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	bag := diag.NewBag(s.maxDiag)
	timer := s.timer()
	sess := session.New(manager.New(), fs, session.Options{
		Out:      cmd.OutOrStdout(),
		Renderer: rend,
		Reporter: diag.BagReporter{Bag: bag},
		Timer:    timer,
	})
	if err := sess.Run(cmd.Context(), file); err != nil {
		return err
	}

	if s.timings {
		printTimings(cmd.ErrOrStderr(), timer)
	}
	return finish(cmd.ErrOrStderr(), bag, fs, s)
}

// loadScript reads path into fs; "-" reads stdin.
func loadScript(fs *source.FileSet, path string, stdin io.Reader) (*source.File, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return fs.Get(fs.AddVirtual("<stdin>", data)), nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cannot open %q: %w", path, err)
	}
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", path, err)
	}
	return fs.Get(id), nil
}
