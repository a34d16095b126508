package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"typelayout/internal/diag"
	"typelayout/internal/source"
)

// Pretty печатает диагностики в человекочитаемом виде:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//	  <line> | <source line>
//	         | ^~~~
//
// затем notes и fixes, если включены. Ожидается bag.Sort() заранее.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		start, end := fs.Resolve(d.Primary)
		path := displayPath(fs, d.Primary.File, opts.PathMode)

		fmt.Fprintf(w, "%s %s %s: %s\n",
			p.loc.Sprintf("%s:%d:%d:", path, start.Line, start.Col),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message,
		)
		writeExcerpt(w, fs.Get(d.Primary.File), start, end, p)

		if opts.ShowNotes {
			for _, n := range d.Notes {
				ns, _ := fs.Resolve(n.Span)
				fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"),
					displayPath(fs, n.Span.File, opts.PathMode), ns.Line, ns.Col, n.Msg)
			}
		}
		if opts.ShowFixes {
			for _, f := range d.Fixes {
				fmt.Fprintf(w, "  %s %s\n", p.fix.Sprint("fix:"), f.Title)
				for _, e := range f.Edits {
					fmt.Fprintf(w, "      replace with %q\n", e.NewText)
				}
			}
		}
	}
}

func writeExcerpt(w io.Writer, f *source.File, start, end source.LineCol, p palette) {
	line := f.Line(start.Line)
	if line == "" {
		return
	}
	gutter := fmt.Sprintf("%d", start.Line)
	pad := strings.Repeat(" ", len(gutter))

	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		width = int(end.Col - start.Col)
	}
	marker := "^" + strings.Repeat("~", width-1)

	fmt.Fprintf(w, "  %s | %s\n", p.gutter.Sprint(gutter), line)
	fmt.Fprintf(w, "  %s | %s%s\n", pad, strings.Repeat(" ", int(start.Col-1)), p.caret.Sprint(marker))
}

type palette struct {
	loc, code, note, fix, gutter, caret *color.Color
	err, warn, info                     *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		loc:    mk(color.Bold),
		code:   mk(color.FgHiBlack),
		note:   mk(color.FgCyan, color.Bold),
		fix:    mk(color.FgGreen, color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgRed, color.Bold),
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}
