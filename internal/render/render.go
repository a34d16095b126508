// Package render prints describe reports and session feedback.
package render

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"

	"typelayout/internal/describe"
	"typelayout/internal/types"
)

// Renderer turns session results into output.
type Renderer interface {
	Report(w io.Writer, rep *describe.Report) error
	Defined(w io.Writer, d Defined) error
	List(w io.Writer, entries []types.Type) error
	Message(w io.Writer, key string, args ...any) error
}

// Defined is the confirmation for a successful define.
type Defined struct {
	Kind       types.Kind
	Name       string
	Layout     types.Layout // atomics and unions
	Components int          // structs
}

// Format selects a Renderer.
type Format uint8

const (
	FormatPretty Format = iota
	FormatJSON
)

// ParseFormat maps a --format value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "pretty":
		return FormatPretty, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatPretty, fmt.Errorf("unknown output format %q (expected: pretty|json)", s)
}

// Options configures New.
type Options struct {
	Format Format
	Color  bool
	Lang   language.Tag
	Fields bool // include per-component placements
}

// New returns the renderer for opts.Format.
func New(opts Options) Renderer {
	if opts.Format == FormatJSON {
		return NewJSON(opts.Fields)
	}
	return NewPretty(opts)
}
