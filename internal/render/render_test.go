package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"typelayout/internal/describe"
	"typelayout/internal/types"
)

func sampleRegistry(t *testing.T) *types.Registry {
	t.Helper()
	reg := types.NewRegistry()
	defs := []types.Type{
		types.Atomic("char", 1, 1),
		types.Atomic("int", 4, 4),
		types.Struct("S1", []string{"char", "int", "char"}),
		types.Union("U", []string{"char", "int"}, types.Layout{Size: 4, Align: 4}),
	}
	for _, d := range defs {
		if err := reg.Define(d); err != nil {
			t.Fatalf("define %s: %v", d.Name, err)
		}
	}
	return reg
}

func report(t *testing.T, reg *types.Registry, name string) *describe.Report {
	t.Helper()
	rep, err := describe.Describe(reg, name)
	if err != nil {
		t.Fatalf("describe %s: %v", name, err)
	}
	return rep
}

func TestPrettyStruct(t *testing.T) {
	reg := sampleRegistry(t)
	var buf bytes.Buffer
	r := New(Options{Lang: language.English})
	if err := r.Report(&buf, report(t, reg, "S1")); err != nil {
		t.Fatalf("report: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Type: S1 (STRUCT)",
		"Components: char, int, char",
		"size 12, alignment 4, wasted 6",
		"size 6, alignment 4, wasted 0",
		"size 8, alignment 4, wasted 2",
		"Optimal reordering:",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("colour codes leaked with Color=false:\n%s", out)
	}
}

func TestPrettyFields(t *testing.T) {
	reg := sampleRegistry(t)
	var buf bytes.Buffer
	r := New(Options{Lang: language.English, Fields: true})
	if err := r.Report(&buf, report(t, reg, "S1")); err != nil {
		t.Fatalf("report: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"@4", "+3 padding", "+3 tail padding"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestPrettyAtomicSpanish(t *testing.T) {
	reg := sampleRegistry(t)
	var buf bytes.Buffer
	r := New(Options{Lang: language.Spanish})
	if err := r.Report(&buf, report(t, reg, "int")); err != nil {
		t.Fatalf("report: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Tipo: int (ATOMIC)", "Tamaño: 4 bytes", "Alineación: 4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestPrettyDefinedAndList(t *testing.T) {
	reg := sampleRegistry(t)
	var buf bytes.Buffer
	r := New(Options{Lang: language.English})
	_ = r.Defined(&buf, Defined{Kind: types.KindAtomic, Name: "char", Layout: types.Layout{Size: 1, Align: 1}})
	_ = r.Defined(&buf, Defined{Kind: types.KindStruct, Name: "S1", Components: 3})
	if got := buf.String(); !strings.Contains(got, `defined ATOMIC "char" (size 1, align 1)`) ||
		!strings.Contains(got, `defined STRUCT "S1" with 3 components`) {
		t.Fatalf("unexpected confirmations:\n%s", got)
	}

	buf.Reset()
	if err := r.List(&buf, reg.Entries()); err != nil {
		t.Fatalf("list: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "S1") || !strings.Contains(lines[0], "[char int char]") {
		t.Fatalf("first entry should be S1, got %q", lines[0])
	}

	buf.Reset()
	_ = r.List(&buf, nil)
	if strings.TrimSpace(buf.String()) != "no types defined" {
		t.Fatalf("empty list: %q", buf.String())
	}
}

func TestJSONReport(t *testing.T) {
	reg := sampleRegistry(t)
	var buf bytes.Buffer
	if err := NewJSON(true).Report(&buf, report(t, reg, "S1")); err != nil {
		t.Fatalf("report: %v", err)
	}
	var got ReportJSON
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}
	if got.Kind != "STRUCT" || len(got.Strategies) != 3 || got.Layout != nil {
		t.Fatalf("unexpected report: %+v", got)
	}
	np := got.Strategies[0]
	if np.Strategy != "no-packing" || np.Size != 12 || np.Wasted != 6 || np.TailPad != 3 {
		t.Fatalf("unexpected no-packing entry: %+v", np)
	}
	if len(np.Fields) != 3 || np.Fields[1].Offset != 4 || np.Fields[1].PadBefore != 3 {
		t.Fatalf("unexpected placements: %+v", np.Fields)
	}
	if !strings.Contains(buf.String(), `"pad_before":3`) {
		t.Fatalf("field names changed: %s", buf.String())
	}
}

func TestJSONUnionWithoutFields(t *testing.T) {
	reg := sampleRegistry(t)
	var buf bytes.Buffer
	if err := NewJSON(false).Report(&buf, report(t, reg, "U")); err != nil {
		t.Fatalf("report: %v", err)
	}
	var got ReportJSON
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Layout == nil || got.Layout.Size != 4 || got.Layout.Wasted != 0 || len(got.Strategies) != 0 {
		t.Fatalf("unexpected union report: %+v", got)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatPretty, false},
		{"pretty", FormatPretty, false},
		{"JSON", FormatJSON, false},
		{"xml", FormatPretty, true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Fatalf("ParseFormat(%q) = %v, %v", tt.in, got, err)
		}
	}
}
