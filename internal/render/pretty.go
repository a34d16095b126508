package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/message"

	"typelayout/internal/describe"
	"typelayout/internal/i18n"
	"typelayout/internal/layout"
	"typelayout/internal/types"
)

// maxNameWidth caps the component column in field tables.
const maxNameWidth = 24

// Pretty is the human-readable renderer.
type Pretty struct {
	p      *message.Printer
	fields bool

	title, label, kind, dim *color.Color
}

// NewPretty builds a Pretty renderer.
func NewPretty(opts Options) *Pretty {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return &Pretty{
		p:      i18n.Printer(opts.Lang),
		fields: opts.Fields,
		title:  mk(color.Bold),
		label:  mk(color.FgCyan),
		kind:   mk(color.FgMagenta),
		dim:    mk(color.FgHiBlack),
	}
}

func (r *Pretty) Report(w io.Writer, rep *describe.Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n",
		r.label.Sprint(r.p.Sprintf(i18n.KeyType)+":"),
		r.title.Sprint(rep.Name),
		r.kind.Sprintf("(%s)", rep.Kind))
	if len(rep.Components) > 0 {
		fmt.Fprintf(&b, "  %s %s\n", r.label.Sprint(r.p.Sprintf(i18n.KeyComponents)+":"), strings.Join(rep.Components, ", "))
	}

	switch rep.Kind {
	case types.KindAtomic, types.KindUnion:
		r.writeSummary(&b, "  ", *rep.Layout)
	case types.KindStruct:
		width := 0
		for _, sr := range rep.Strategies {
			width = max(width, runewidth.StringWidth(r.strategyLabel(sr.Strategy)))
		}
		for _, sr := range rep.Strategies {
			lbl := r.strategyLabel(sr.Strategy)
			fmt.Fprintf(&b, "  %s%s ", r.label.Sprint(lbl+":"), strings.Repeat(" ", width-runewidth.StringWidth(lbl)))
			r.writeInline(&b, sr.Result)
			if r.fields {
				r.writeFields(&b, sr.Result)
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Pretty) writeSummary(b *strings.Builder, indent string, res layout.Result) {
	fmt.Fprintf(b, "%s%s %s\n", indent, r.label.Sprint(r.p.Sprintf(i18n.KeySize)+":"), r.p.Sprintf(i18n.KeyBytes, res.Size))
	fmt.Fprintf(b, "%s%s %d\n", indent, r.label.Sprint(r.p.Sprintf(i18n.KeyAlign)+":"), res.Align)
	fmt.Fprintf(b, "%s%s %s\n", indent, r.label.Sprint(r.p.Sprintf(i18n.KeyWasted)+":"), r.p.Sprintf(i18n.KeyBytes, res.Wasted))
}

func (r *Pretty) writeInline(b *strings.Builder, res layout.Result) {
	fmt.Fprintf(b, "%s %d, %s %d, %s %d\n",
		strings.ToLower(r.p.Sprintf(i18n.KeySize)), res.Size,
		strings.ToLower(r.p.Sprintf(i18n.KeyAlign)), res.Align,
		strings.ToLower(r.p.Sprintf(i18n.KeyWasted)), res.Wasted)
}

// writeFields prints one row per placement: offset, name, size, align, padding.
func (r *Pretty) writeFields(b *strings.Builder, res layout.Result) {
	nameWidth := 0
	for _, f := range res.Fields {
		nameWidth = max(nameWidth, runewidth.StringWidth(f.Name))
	}
	nameWidth = min(nameWidth, maxNameWidth)

	for _, f := range res.Fields {
		name := runewidth.Truncate(f.Name, maxNameWidth, "…")
		name = runewidth.FillRight(name, nameWidth)
		pad := ""
		if f.PadBefore > 0 {
			pad = r.dim.Sprintf("  +%d %s", f.PadBefore, strings.ToLower(r.p.Sprintf(i18n.KeyPadding)))
		}
		fmt.Fprintf(b, "      %s %s  %3d/%-3d%s\n", r.dim.Sprintf("@%-4d", f.Offset), name, f.Size, f.Align, pad)
	}
	if res.TailPad > 0 {
		fmt.Fprintf(b, "      %s\n", r.dim.Sprintf("+%d %s", res.TailPad, strings.ToLower(r.p.Sprintf(i18n.KeyTailPad))))
	}
}

func (r *Pretty) strategyLabel(s layout.Strategy) string {
	switch s {
	case layout.NoPacking:
		return r.p.Sprintf(i18n.KeyNoPacking)
	case layout.Packed:
		return r.p.Sprintf(i18n.KeyPacked)
	case layout.Optimal:
		return r.p.Sprintf(i18n.KeyOptimal)
	}
	return s.String()
}

func (r *Pretty) Defined(w io.Writer, d Defined) error {
	var line string
	if d.Kind == types.KindStruct {
		line = r.p.Sprintf(i18n.KeyDefinedS, d.Kind, d.Name, d.Components)
	} else {
		line = r.p.Sprintf(i18n.KeyDefined, d.Kind, d.Name, d.Layout.Size, d.Layout.Align)
	}
	_, err := fmt.Fprintln(w, r.dim.Sprint(line))
	return err
}

func (r *Pretty) List(w io.Writer, entries []types.Type) error {
	if len(entries) == 0 {
		return r.Message(w, i18n.KeyNoTypes)
	}
	width := 0
	for _, e := range entries {
		width = max(width, runewidth.StringWidth(e.Name))
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "  %s  %s", runewidth.FillRight(e.Name, width), r.kind.Sprintf("%-6s", e.Kind))
		if l, ok := e.Stored(); ok {
			fmt.Fprintf(&b, "  %d/%d", l.Size, l.Align)
		}
		if len(e.Components) > 0 {
			fmt.Fprintf(&b, "  [%s]", strings.Join(e.Components, " "))
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Pretty) Message(w io.Writer, key string, args ...any) error {
	_, err := fmt.Fprintln(w, r.p.Sprintf(key, args...))
	return err
}
