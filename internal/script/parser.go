package script

import (
	"fmt"
	"math/bits"
	"strconv"

	"typelayout/internal/diag"
	"typelayout/internal/source"
)

// Command is one parsed line.
type Command struct {
	Op         Op
	Span       source.Span
	Keyword    Word
	Name       Word
	Size       uint64
	Align      uint64
	Components []Word
}

// ComponentNames returns the component texts in order.
func (c Command) ComponentNames() []string {
	out := make([]string, len(c.Components))
	for i, w := range c.Components {
		out[i] = w.Text
	}
	return out
}

// Parse parses every line of f. Lines with usage errors are reported to r
// and left out of the result.
func Parse(f *source.File, r diag.Reporter) []Command {
	p := parser{reporter: r}
	var out []Command
	for _, ln := range splitLines(f) {
		if cmd, ok := p.parseLine(ln); ok {
			out = append(out, cmd)
		}
	}
	return out
}

type parser struct {
	reporter diag.Reporter
}

func (p *parser) parseLine(ln line) (Command, bool) {
	kw := ln.words[0]
	args := ln.words[1:]

	op, ok := LookupKeyword(kw.Text)
	if !ok {
		b := diag.ReportError(p.reporter, diag.ScrUnknownCommand, kw.Span,
			fmt.Sprintf("unknown command %q", kw.Text))
		if s, ok := suggest(kw.Text); ok {
			b = b.WithFix("replace with "+s, diag.FixEdit{Span: kw.Span, NewText: s})
		}
		b.Emit()
		return Command{}, false
	}

	cmd := Command{Op: op, Span: ln.span, Keyword: kw}
	switch op {
	case OpAtomic:
		return p.parseAtomic(cmd, args, ln)
	case OpStruct, OpUnion:
		if len(args) == 0 {
			p.missing(op, ln)
			return Command{}, false
		}
		cmd.Name = args[0]
		cmd.Components = args[1:]
		if len(cmd.Components) == 0 {
			diag.ReportError(p.reporter, diag.ScrEmptyComposition, ln.span,
				fmt.Sprintf("%s %s must have at least one component", op, cmd.Name.Text)).
				WithNote(ln.end, "usage: "+op.Usage()).
				Emit()
			return Command{}, false
		}
		return cmd, true
	case OpDescribe:
		if len(args) == 0 {
			p.missing(op, ln)
			return Command{}, false
		}
		cmd.Name = args[0]
		p.extra(op, args[1:])
		return cmd, true
	case OpList, OpHelp, OpExit:
		p.extra(op, args)
		return cmd, true
	}
	return Command{}, false
}

func (p *parser) parseAtomic(cmd Command, args []Word, ln line) (Command, bool) {
	if len(args) < 3 {
		p.missing(OpAtomic, ln)
		return Command{}, false
	}
	cmd.Name = args[0]
	size, okSize := p.number(args[1])
	align, okAlign := p.number(args[2])
	if !okSize || !okAlign {
		return Command{}, false
	}
	cmd.Size, cmd.Align = size, align
	p.extra(OpAtomic, args[3:])

	switch {
	case align == 0:
		diag.ReportWarning(p.reporter, diag.TypZeroAlign, args[2].Span,
			fmt.Sprintf("alignment of %s is 0; components will not be padded", cmd.Name.Text)).Emit()
	case bits.OnesCount64(align) != 1:
		diag.ReportWarning(p.reporter, diag.TypAlignNotPowerOfTwo, args[2].Span,
			fmt.Sprintf("alignment %d of %s is not a power of two", align, cmd.Name.Text)).Emit()
	}
	return cmd, true
}

func (p *parser) number(w Word) (uint64, bool) {
	n, err := strconv.ParseUint(w.Text, 10, 64)
	if err != nil {
		diag.ReportError(p.reporter, diag.ScrBadNumber, w.Span,
			fmt.Sprintf("%q is not a non-negative integer", w.Text)).Emit()
		return 0, false
	}
	return n, true
}

func (p *parser) missing(op Op, ln line) {
	diag.ReportError(p.reporter, diag.ScrMissingArgument, ln.end,
		fmt.Sprintf("missing argument; usage: %s", op.Usage())).Emit()
}

func (p *parser) extra(op Op, words []Word) {
	if len(words) == 0 {
		return
	}
	sp := words[0].Span.Cover(words[len(words)-1].Span)
	diag.ReportWarning(p.reporter, diag.ScrExtraArgument, sp,
		fmt.Sprintf("ignoring extra arguments; usage: %s", op.Usage())).Emit()
}
