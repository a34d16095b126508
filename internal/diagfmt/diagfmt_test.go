package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"typelayout/internal/diag"
	"typelayout/internal/source"
)

func sample(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.AddVirtual("/tmp/project/demo.tl", []byte("ATOMIC char 1 1\nSTRUCT S chr\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.TypUndefined, source.Span{File: file, Start: 25, End: 28}, `type "chr" is not defined`).
		WithNote(source.Span{File: file, Start: 7, End: 11}, "did you mean char?").
		WithFix("use char", diag.FixEdit{Span: source.Span{File: file, Start: 25, End: 28}, NewText: "char"}))
	return bag, fs
}

func TestPrettyUnderlinesSpan(t *testing.T) {
	bag, fs := sample(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true, ShowFixes: true})
	out := buf.String()

	for _, want := range []string{
		"demo.tl:2:10: ERROR TYP2001: type \"chr\" is not defined",
		"  2 | STRUCT S chr",
		"    |          ^~~",
		"note: demo.tl:1:8: did you mean char?",
		"fix: use char",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("colour disabled but escape codes present:\n%q", out)
	}
}

func TestJSONPositions(t *testing.T) {
	bag, fs := sample(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true, IncludeFixes: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Count != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "TYP2001" || d.Location.StartLine != 2 || d.Location.StartCol != 10 {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if len(d.Notes) != 1 || len(d.Fixes) != 1 || d.Fixes[0].Edits[0].NewText != "char" {
		t.Fatalf("notes/fixes missing: %+v", d)
	}
}

func TestSarif(t *testing.T) {
	bag, fs := sample(t)
	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "typelayout", ToolVersion: "1.0.0"}); err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Results []struct {
				RuleID string `json:"ruleId"`
				Level  string `json:"level"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid sarif: %v", err)
	}
	if doc.Version != "2.1.0" || len(doc.Runs) != 1 || len(doc.Runs[0].Results) != 1 {
		t.Fatalf("unexpected sarif: %s", buf.String())
	}
	if r := doc.Runs[0].Results[0]; r.RuleID != "TYP2001" || r.Level != "error" {
		t.Fatalf("unexpected result %+v", r)
	}
}
