// Package session runs parsed commands against a Manager and renders the
// results. The REPL, the TUI and `typelayout run` all drive one.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync/atomic"

	"typelayout/internal/diag"
	"typelayout/internal/i18n"
	"typelayout/internal/layout"
	"typelayout/internal/manager"
	"typelayout/internal/observ"
	"typelayout/internal/render"
	"typelayout/internal/script"
	"typelayout/internal/source"
	"typelayout/internal/trace"
	"typelayout/internal/types"
)

// Options configures New. Out and Renderer default to io.Discard and the
// English pretty renderer; Reporter defaults to a fresh Bag.
type Options struct {
	Out      io.Writer
	Renderer render.Renderer
	Reporter diag.Reporter
	Timer    *observ.Timer
}

// Session holds the state of one interactive or scripted run.
type Session struct {
	mgr      *manager.Manager
	files    *source.FileSet
	out      io.Writer
	render   render.Renderer
	reporter diag.Reporter
	bag      *diag.Bag // only when Reporter was not supplied
	timer    *observ.Timer

	inputs atomic.Uint32
	exited atomic.Bool
}

// New creates a Session over m. Files parsed by the session are added to fs.
func New(m *manager.Manager, fs *source.FileSet, opts Options) *Session {
	s := &Session{
		mgr:      m,
		files:    fs,
		out:      opts.Out,
		render:   opts.Renderer,
		reporter: opts.Reporter,
		timer:    opts.Timer,
	}
	if s.mgr == nil {
		s.mgr = manager.New()
	}
	if s.files == nil {
		s.files = source.NewFileSet()
	}
	if s.out == nil {
		s.out = io.Discard
	}
	if s.render == nil {
		s.render = render.New(render.Options{})
	}
	if s.reporter == nil {
		s.bag = diag.NewBag(0)
		s.reporter = diag.BagReporter{Bag: s.bag}
	}
	return s
}

// Manager returns the manager commands run against.
func (s *Session) Manager() *manager.Manager { return s.mgr }

// Files returns the file set holding every parsed input.
func (s *Session) Files() *source.FileSet { return s.files }

// Bag returns the internal diagnostics bag, or nil when a Reporter was
// supplied through Options.
func (s *Session) Bag() *diag.Bag { return s.bag }

// Exited reports whether an EXIT command has run.
func (s *Session) Exited() bool { return s.exited.Load() }

// Run parses f and executes its commands in order until EXIT. Usage and
// execution errors are reported as diagnostics; the returned error is only
// set for output failures or a cancelled ctx.
func (s *Session) Run(ctx context.Context, f *source.File) error {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "run", trace.CurrentSpan(ctx).SpanID).
		WithExtra("file", f.Path)
	if id := span.ID(); id != 0 {
		ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: id})
	}

	done := s.timer.Track("parse")
	cmds := script.Parse(f, s.reporter)
	done(f.Path)

	var err error
	executed := 0
	for _, cmd := range cmds {
		if err = ctx.Err(); err != nil {
			break
		}
		if err = s.Exec(ctx, cmd); err != nil {
			break
		}
		executed++
		if s.Exited() {
			break
		}
	}
	span.WithExtra("commands", fmt.Sprint(executed)).End("")
	return err
}

// RunLine executes one line of input typed interactively.
func (s *Session) RunLine(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	n := s.inputs.Add(1)
	id := s.files.AddVirtual(fmt.Sprintf("<input:%d>", n), []byte(text))
	return s.Run(ctx, s.files.Get(id))
}

// Exec runs a single command.
func (s *Session) Exec(ctx context.Context, cmd script.Command) error {
	switch cmd.Op {
	case script.OpAtomic:
		done := s.timer.Track("define")
		err := s.mgr.DefineAtomic(ctx, cmd.Name.Text, cmd.Size, cmd.Align)
		done(cmd.Name.Text)
		if err != nil {
			s.report(cmd, err)
			return nil
		}
		return s.render.Defined(s.out, render.Defined{
			Kind:   types.KindAtomic,
			Name:   cmd.Name.Text,
			Layout: types.Layout{Size: cmd.Size, Align: cmd.Align},
		})

	case script.OpStruct:
		done := s.timer.Track("define")
		err := s.mgr.DefineStruct(ctx, cmd.Name.Text, cmd.ComponentNames())
		done(cmd.Name.Text)
		if err != nil {
			s.report(cmd, err)
			return nil
		}
		return s.render.Defined(s.out, render.Defined{
			Kind:       types.KindStruct,
			Name:       cmd.Name.Text,
			Components: len(cmd.Components),
		})

	case script.OpUnion:
		done := s.timer.Track("define")
		l, err := s.mgr.DefineUnion(ctx, cmd.Name.Text, cmd.ComponentNames())
		done(cmd.Name.Text)
		if err != nil {
			s.report(cmd, err)
			return nil
		}
		return s.render.Defined(s.out, render.Defined{Kind: types.KindUnion, Name: cmd.Name.Text, Layout: l})

	case script.OpDescribe:
		done := s.timer.Track("describe")
		rep, err := s.mgr.Describe(ctx, cmd.Name.Text)
		done(cmd.Name.Text)
		if err != nil {
			s.report(cmd, err)
			return nil
		}
		defer s.timer.Track("render")("")
		return s.render.Report(s.out, rep)

	case script.OpList:
		return s.render.List(s.out, s.mgr.Registry().Entries())

	case script.OpHelp:
		return s.help()

	case script.OpExit:
		s.exited.Store(true)
		return s.render.Message(s.out, i18n.KeyBye)
	}
	return fmt.Errorf("session: unexpected command %v", cmd.Op)
}

func (s *Session) help() error {
	if err := s.render.Message(s.out, i18n.KeyCommands); err != nil {
		return err
	}
	for _, op := range script.Ops {
		if err := s.render.Message(s.out, "  "+op.Usage()); err != nil {
			return err
		}
	}
	return nil
}

// report converts a manager error into a diagnostic placed on the most
// specific word of cmd.
func (s *Session) report(cmd script.Command, err error) {
	var (
		undef *types.UndefinedTypeError
		cycle *types.CycleError
		lerr  *layout.Error
	)
	switch {
	case errors.As(err, &undef):
		sp := cmd.Name.Span
		if w, ok := findWord(cmd.Components, undef.Name); ok {
			sp = w.Span
		}
		b := diag.ReportError(s.reporter, diag.TypUndefined, sp, err.Error())
		if cmd.Op == script.OpDescribe && types.CanonicalName(undef.Name) != types.CanonicalName(cmd.Name.Text) {
			b = b.WithNote(cmd.Name.Span, fmt.Sprintf("required by %s", cmd.Name.Text))
		}
		b.Emit()

	case errors.As(err, &cycle):
		b := diag.ReportError(s.reporter, diag.TypCycle, cmd.Name.Span, err.Error())
		for _, w := range cmd.Components {
			if slices.Contains(cycle.Cycle, types.CanonicalName(w.Text)) {
				b = b.WithNote(w.Span, fmt.Sprintf("%s leads back to %s", w.Text, cmd.Name.Text))
			}
		}
		b.Emit()

	case errors.As(err, &lerr):
		diag.ReportError(s.reporter, diag.TypLayout, cmd.Name.Span, err.Error()).Emit()

	default:
		diag.ReportError(s.reporter, diag.UnknownCode, cmd.Span, err.Error()).Emit()
	}
}

func findWord(words []script.Word, name string) (script.Word, bool) {
	want := types.CanonicalName(name)
	for _, w := range words {
		if types.CanonicalName(w.Text) == want {
			return w, true
		}
	}
	return script.Word{}, false
}
