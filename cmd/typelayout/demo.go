package main

import (
	"github.com/spf13/cobra"

	"typelayout/internal/diag"
	"typelayout/internal/manager"
	"typelayout/internal/session"
	"typelayout/internal/source"
)

// demoScript walks through the classic padding examples.
const demoScript = `# atomics
ATOMIC char 1 1
ATOMIC short 2 2
ATOMIC int 4 4
ATOMIC double 8 8
ATOMIC byte 1 2

# a union is as large as its largest member, rounded to its alignment
UNION big_union char int double

# char, int, char pads three bytes twice; reordering saves four
STRUCT S1 char int char
STRUCT S2_optimal int char char
STRUCT S3_padding_final char int short

DESCRIBE big_union
DESCRIBE S1
DESCRIBE S2_optimal
DESCRIBE S3_padding_final
LIST
`

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the built-in walkthrough",
	Long:  "Define a few atomics, a union and three structs, then describe them.",
	Args:  cobra.NoArgs,
	RunE:  runDemo,
}

func init() {
	demoCmd.Flags().String("format", "pretty", "report format (pretty|json)")
	demoCmd.Flags().Bool("fields", false, "include per-component offsets and padding")
	demoCmd.Flags().Bool("print-script", false, "print the demo script instead of running it")
}

func runDemo(cmd *cobra.Command, args []string) error {
	if only, _ := cmd.Flags().GetBool("print-script"); only {
		_, err := cmd.OutOrStdout().Write([]byte(demoScript))
		return err
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	rend, err := s.renderer()
	if err != nil {
		return err
	}

	fs := source.NewFileSet()
	bag := diag.NewBag(s.maxDiag)
	timer := s.timer()
	sess := session.New(manager.New(), fs, session.Options{
		Out:      cmd.OutOrStdout(),
		Renderer: rend,
		Reporter: diag.BagReporter{Bag: bag},
		Timer:    timer,
	})
	if err := sess.Run(cmd.Context(), fs.Get(fs.AddVirtual("<demo>", []byte(demoScript)))); err != nil {
		return err
	}
	if s.timings {
		printTimings(cmd.ErrOrStderr(), timer)
	}
	return finish(cmd.ErrOrStderr(), bag, fs, s)
}
