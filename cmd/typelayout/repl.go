package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"typelayout/internal/diag"
	"typelayout/internal/manager"
	"typelayout/internal/script"
	"typelayout/internal/session"
	"typelayout/internal/snapshot"
	"typelayout/internal/source"
	"typelayout/internal/ui"
	"typelayout/internal/version"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Define and describe types interactively",
	Long: `Start an interactive session. Type HELP for the command list and EXIT to
leave. With --load the registry starts from a snapshot; with --save it is
written back on exit.`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func init() {
	replCmd.Flags().String("load", "", "restore definitions from a snapshot file")
	replCmd.Flags().String("save", "", "write a snapshot on exit")
	replCmd.Flags().String("ui", "auto", "interactive UI (auto|on|off)")
	replCmd.Flags().Bool("fields", false, "include per-component offsets and padding")
}

func runREPL(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	rend, err := s.renderer()
	if err != nil {
		return err
	}
	loadPath, err := cmd.Flags().GetString("load")
	if err != nil {
		return err
	}
	savePath, err := cmd.Flags().GetString("save")
	if err != nil {
		return err
	}

	m := manager.New()
	if loadPath != "" {
		snap, err := snapshot.Load(loadPath)
		if err != nil {
			return err
		}
		if err := snap.Restore(m.Registry()); err != nil {
			return fmt.Errorf("%s: %w", loadPath, err)
		}
	}

	fs := source.NewFileSet()
	bag := diag.NewBag(s.maxDiag)
	var buf bytes.Buffer
	sess := session.New(m, fs, session.Options{
		Out:      &buf,
		Renderer: rend,
		Reporter: diag.BagReporter{Bag: bag},
	})

	// one line in, rendered output and diagnostics out
	step := func(ctx context.Context, line string) (string, bool, error) {
		buf.Reset()
		bag.Reset()
		if err := sess.RunLine(ctx, line); err != nil {
			return buf.String(), true, err
		}
		if err := printDiagnostics(&buf, bag, fs, "pretty", s); err != nil {
			return buf.String(), true, err
		}
		return buf.String(), sess.Exited(), nil
	}

	if shouldUseTUI(s.ui) && isTerminal(os.Stdin) {
		err = replTUI(cmd.Context(), step)
	} else {
		err = replPlain(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), s.quiet, step)
	}
	if err != nil {
		return err
	}

	if savePath != "" {
		if err := snapshot.Save(savePath, snapshot.Capture(m.Registry())); err != nil {
			return err
		}
		if !s.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "saved %d types to %s\n", m.Registry().Len(), savePath)
		}
	}
	return nil
}

type stepFunc func(ctx context.Context, line string) (output string, quit bool, err error)

func replTUI(ctx context.Context, step stepFunc) error {
	keywords := make([]string, 0, len(script.Ops))
	for _, op := range script.Ops {
		keywords = append(keywords, op.String())
	}

	var stepErr error
	model := ui.NewREPLModel("typelayout "+version.Version, keywords, func(line string) (string, bool) {
		out, quit, err := step(ctx, line)
		if err != nil {
			stepErr = err
			return out, true
		}
		return out, quit
	})
	if _, err := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx)).Run(); err != nil {
		return err
	}
	return stepErr
}

func replPlain(ctx context.Context, in io.Reader, out io.Writer, quiet bool, step stepFunc) error {
	scanner := bufio.NewScanner(in)
	for {
		if !quiet {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		text, quit, err := step(ctx, scanner.Text())
		if _, werr := io.WriteString(out, text); werr != nil {
			return werr
		}
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
	if !quiet {
		fmt.Fprintln(out)
	}
	return scanner.Err()
}
