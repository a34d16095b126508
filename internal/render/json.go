package render

import (
	"encoding/json"
	"fmt"
	"io"

	"typelayout/internal/describe"
	"typelayout/internal/layout"
	"typelayout/internal/types"
)

// JSON writes one compact JSON object per line.
type JSON struct {
	fields bool
}

// NewJSON builds a JSON renderer.
func NewJSON(fields bool) *JSON {
	return &JSON{fields: fields}
}

// PlacementJSON is one component placement.
type PlacementJSON struct {
	Name      string `json:"name"`
	Offset    uint64 `json:"offset"`
	Size      uint64 `json:"size"`
	Align     uint64 `json:"align"`
	PadBefore uint64 `json:"pad_before,omitempty"`
}

// LayoutJSON is one computed layout.
type LayoutJSON struct {
	Strategy string          `json:"strategy,omitempty"`
	Size     uint64          `json:"size"`
	Align    uint64          `json:"align"`
	Wasted   uint64          `json:"wasted"`
	TailPad  uint64          `json:"tail_pad,omitempty"`
	Fields   []PlacementJSON `json:"fields,omitempty"`
}

// ReportJSON is the JSON form of describe.Report.
type ReportJSON struct {
	Name       string       `json:"name"`
	Kind       string       `json:"kind"`
	Components []string     `json:"components,omitempty"`
	Layout     *LayoutJSON  `json:"layout,omitempty"`
	Strategies []LayoutJSON `json:"strategies,omitempty"`
}

// BuildReport converts rep without serialising it.
func BuildReport(rep *describe.Report, fields bool) ReportJSON {
	out := ReportJSON{Name: rep.Name, Kind: rep.Kind.String(), Components: rep.Components}
	if rep.Layout != nil {
		l := layoutJSON("", *rep.Layout, false)
		out.Layout = &l
	}
	for _, sr := range rep.Strategies {
		out.Strategies = append(out.Strategies, layoutJSON(sr.Strategy.String(), sr.Result, fields))
	}
	return out
}

func layoutJSON(strategy string, r layout.Result, fields bool) LayoutJSON {
	l := LayoutJSON{Strategy: strategy, Size: r.Size, Align: r.Align, Wasted: r.Wasted, TailPad: r.TailPad}
	if fields {
		for _, f := range r.Fields {
			l.Fields = append(l.Fields, PlacementJSON(f))
		}
	}
	return l
}

func (r *JSON) Report(w io.Writer, rep *describe.Report) error {
	return writeLine(w, BuildReport(rep, r.fields))
}

func (r *JSON) Defined(w io.Writer, d Defined) error {
	ev := struct {
		Event      string `json:"event"`
		Kind       string `json:"kind"`
		Name       string `json:"name"`
		Size       uint64 `json:"size,omitempty"`
		Align      uint64 `json:"align,omitempty"`
		Components int    `json:"components,omitempty"`
	}{"defined", d.Kind.String(), d.Name, d.Layout.Size, d.Layout.Align, d.Components}
	return writeLine(w, ev)
}

func (r *JSON) List(w io.Writer, entries []types.Type) error {
	type entryJSON struct {
		Name       string   `json:"name"`
		Kind       string   `json:"kind"`
		Size       *uint64  `json:"size,omitempty"`
		Align      *uint64  `json:"align,omitempty"`
		Components []string `json:"components,omitempty"`
	}
	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		ej := entryJSON{Name: e.Name, Kind: e.Kind.String(), Components: e.Components}
		if l, ok := e.Stored(); ok {
			ej.Size, ej.Align = &l.Size, &l.Align
		}
		out = append(out, ej)
	}
	return writeLine(w, struct {
		Types []entryJSON `json:"types"`
	}{out})
}

func (r *JSON) Message(w io.Writer, key string, args ...any) error {
	return writeLine(w, struct {
		Message string `json:"message"`
	}{fmt.Sprintf(key, args...)})
}

func writeLine(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}
