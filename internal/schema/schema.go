package schema

import (
	"errors"
	"fmt"
	"math/bits"
	"regexp"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"typelayout/internal/diag"
	"typelayout/internal/source"
	"typelayout/internal/types"
)

// AtomicDecl is one [[atomic]] table.
type AtomicDecl struct {
	Name  string `toml:"name"`
	Size  int64  `toml:"size"`
	Align int64  `toml:"align"`
}

// StructDecl is one [[struct]] table.
type StructDecl struct {
	Name   string   `toml:"name"`
	Fields []string `toml:"fields"`
}

// UnionDecl is one [[union]] table.
type UnionDecl struct {
	Name    string   `toml:"name"`
	Members []string `toml:"members"`
}

// Document mirrors the file layout.
type Document struct {
	Atomic []AtomicDecl `toml:"atomic"`
	Struct []StructDecl `toml:"struct"`
	Union  []UnionDecl  `toml:"union"`
}

// Decl is a validated declaration.
type Decl struct {
	Kind       types.Kind
	Name       string
	Size       uint64
	Align      uint64
	Components []string
	Span       source.Span // the name value in the file
}

// Schema is the result of Parse.
type Schema struct {
	File  *source.File
	Decls []Decl // file order within each kind: atomics, structs, unions
}

// Names returns the declared names in Decls order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.Decls))
	for i, d := range s.Decls {
		out[i] = d.Name
	}
	return out
}

// Parse decodes and validates f. It returns nil when the file cannot be
// decoded at all; invalid declarations are reported and dropped.
func Parse(f *source.File, r diag.Reporter) *Schema {
	var doc Document
	md, err := toml.Decode(string(f.Content), &doc)
	if err != nil {
		reportDecodeError(f, r, err)
		return nil
	}

	loc := newLocator(f)
	for _, key := range md.Undecoded() {
		diag.ReportWarning(r, diag.SchUnknownKey, loc.key(key[len(key)-1]),
			fmt.Sprintf("unknown key %q", key.String())).Emit()
	}

	s := &Schema{File: f}
	seen := make(map[string]source.Span)
	add := func(d Decl) {
		if d.Name == "" {
			diag.ReportError(r, diag.SchMissingField, d.Span,
				fmt.Sprintf("%s declaration without a name", strings.ToLower(d.Kind.String()))).Emit()
			return
		}
		canon := types.CanonicalName(d.Name)
		if first, dup := seen[canon]; dup {
			diag.ReportError(r, diag.SchDuplicate, d.Span, fmt.Sprintf("%q is declared more than once", d.Name)).
				WithNote(first, "first declared here").
				Emit()
			return
		}
		seen[canon] = d.Span
		s.Decls = append(s.Decls, d)
	}

	for _, a := range doc.Atomic {
		d := Decl{Kind: types.KindAtomic, Name: a.Name, Span: loc.name(a.Name)}
		size, okSize := unsigned(r, d, "size", a.Size)
		align, okAlign := unsigned(r, d, "align", a.Align)
		if !okSize || !okAlign {
			continue
		}
		d.Size, d.Align = size, align
		switch {
		case align == 0:
			diag.ReportWarning(r, diag.TypZeroAlign, d.Span,
				fmt.Sprintf("alignment of %s is 0; components will not be padded", d.Name)).Emit()
		case bits.OnesCount64(align) != 1:
			diag.ReportWarning(r, diag.TypAlignNotPowerOfTwo, d.Span,
				fmt.Sprintf("alignment %d of %s is not a power of two", align, d.Name)).Emit()
		}
		add(d)
	}
	for _, st := range doc.Struct {
		d := Decl{Kind: types.KindStruct, Name: st.Name, Components: st.Fields, Span: loc.name(st.Name)}
		if composite(r, d, "fields") {
			add(d)
		}
	}
	for _, u := range doc.Union {
		d := Decl{Kind: types.KindUnion, Name: u.Name, Components: u.Members, Span: loc.name(u.Name)}
		if composite(r, d, "members") {
			add(d)
		}
	}
	return s
}

func unsigned(r diag.Reporter, d Decl, field string, v int64) (uint64, bool) {
	u, err := safecast.Conv[uint64](v)
	if err != nil {
		diag.ReportError(r, diag.SchBadValue, d.Span,
			fmt.Sprintf("%s of %s must not be negative, got %d", field, d.Name, v)).Emit()
		return 0, false
	}
	return u, true
}

func composite(r diag.Reporter, d Decl, field string) bool {
	if len(d.Components) == 0 {
		diag.ReportError(r, diag.SchMissingField, d.Span,
			fmt.Sprintf("%s %s needs a non-empty %q list", strings.ToLower(d.Kind.String()), d.Name, field)).Emit()
		return false
	}
	for _, c := range d.Components {
		if strings.TrimSpace(c) == "" {
			diag.ReportError(r, diag.SchBadValue, d.Span,
				fmt.Sprintf("%s %s lists an empty type name", strings.ToLower(d.Kind.String()), d.Name)).Emit()
			return false
		}
	}
	return true
}

func reportDecodeError(f *source.File, r diag.Reporter, err error) {
	sp := source.Span{File: f.ID}
	msg := err.Error()
	var perr toml.ParseError
	if errors.As(err, &perr) {
		start, errStart := safecast.Conv[uint32](perr.Position.Start)
		n, errLen := safecast.Conv[uint32](perr.Position.Len)
		if errStart == nil && errLen == nil && int(start+n) <= len(f.Content) {
			sp.Start, sp.End = start, start+n
		}
		msg = perr.Message
		if msg == "" {
			msg = err.Error()
		}
	}
	diag.ReportError(r, diag.SchDecode, sp, msg).Emit()
}

var (
	nameRe = regexp.MustCompile(`(?m)^[ \t]*name[ \t]*=[ \t]*"([^"\n]*)"`)
)

// locator finds spans for decoded values. The decoder does not keep
// positions, so name values are matched textually in file order.
type locator struct {
	f     *source.File
	names map[string][]source.Span
	used  map[string]int
}

func newLocator(f *source.File) *locator {
	l := &locator{f: f, names: make(map[string][]source.Span), used: make(map[string]int)}
	for _, m := range nameRe.FindAllSubmatchIndex(f.Content, -1) {
		val := string(f.Content[m[2]:m[3]])
		l.names[val] = append(l.names[val], l.span(m[2]-1, m[3]+1))
	}
	return l
}

// name returns the span of the next unused `name = "value"` occurrence.
func (l *locator) name(value string) source.Span {
	spans := l.names[value]
	i := l.used[value]
	if i >= len(spans) {
		return source.Span{File: l.f.ID}
	}
	l.used[value] = i + 1
	return spans[i]
}

func (l *locator) key(key string) source.Span {
	re, err := regexp.Compile(`(?m)^[ \t]*(` + regexp.QuoteMeta(key) + `)[ \t]*=`)
	if err != nil {
		return source.Span{File: l.f.ID}
	}
	m := re.FindSubmatchIndex(l.f.Content)
	if m == nil {
		return source.Span{File: l.f.ID}
	}
	return l.span(m[2], m[3])
}

func (l *locator) span(start, end int) source.Span {
	s, err1 := safecast.Conv[uint32](start)
	e, err2 := safecast.Conv[uint32](end)
	if err1 != nil || err2 != nil {
		return source.Span{File: l.f.ID}
	}
	return source.Span{File: l.f.ID, Start: s, End: e}
}
