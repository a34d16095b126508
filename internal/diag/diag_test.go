package diag

import (
	"testing"

	"typelayout/internal/source"
)

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("demo.tl", []byte("ATOMIC char 1 3\nSTRUCT S\n"))

	diags := []Diagnostic{
		NewError(ScrEmptyComposition, source.Span{File: file, Start: 16, End: 24}, "STRUCT S has no components").
			WithNote(source.Span{File: file, Start: 16, End: 22}, "declared here"),
		New(SevWarning, TypAlignNotPowerOfTwo, source.Span{File: file, Start: 14, End: 15}, "alignment 3\nis not a power of two"),
	}

	want := "warning TYP2003 demo.tl:1:15 alignment 3 is not a power of two\n" +
		"error SCR1005 demo.tl:2:1 STRUCT S has no components\n" +
		"note SCR1005 demo.tl:2:1 declared here"
	if got := FormatShort(diags, fs, true); got != want {
		t.Fatalf("unexpected short output:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}
	ReportWarning(r, TypZeroAlign, source.Span{Start: 5, End: 6}, "zero").Emit()
	b := ReportError(r, TypUndefined, source.Span{Start: 1, End: 2}, "undefined")
	b.Emit()
	b.Emit()
	if bag.Len() != 2 {
		t.Fatalf("expected emit-once semantics, got %d items", bag.Len())
	}
	if bag.Add(NewError(UnknownCode, source.Span{}, "over")) {
		t.Fatal("expected limit to reject third item")
	}
	bag.Sort()
	items := bag.Items()
	if items[0].Code != TypUndefined || !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("unexpected order or flags: %+v", items)
	}
}

func TestCodeString(t *testing.T) {
	if got := TypCycle.String(); got != "[TYP2002]: Type contains itself" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Code(9999).ID(); got != "E0000" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestSeverityLevels(t *testing.T) {
	cases := []struct {
		sev                 Severity
		upper, label, sarif string
	}{
		{SevInfo, "INFO", "info", "note"},
		{SevWarning, "WARNING", "warning", "warning"},
		{SevError, "ERROR", "error", "error"},
		{Severity(7), "UNKNOWN", "info", "note"},
	}
	for _, tc := range cases {
		if tc.sev.String() != tc.upper || tc.sev.Label() != tc.label || tc.sev.SARIFLevel() != tc.sarif {
			t.Fatalf("severity %d: got %s/%s/%s", tc.sev, tc.sev, tc.sev.Label(), tc.sev.SARIFLevel())
		}
	}
}

func TestCodeFamilies(t *testing.T) {
	cases := []struct {
		code   Code
		family Family
		id     string
		info   bool
	}{
		{ScrBadNumber, FamilyScript, "SCR1004", false},
		{TypInfo, FamilyType, "TYP2000", true},
		{SchDuplicate, FamilySchema, "SCH3003", false},
		{IOLoadFileError, FamilyIO, "IO4001", false},
		{UnknownCode, FamilyUnknown, "E0000", false},
	}
	for _, tc := range cases {
		if tc.code.Family() != tc.family || tc.code.ID() != tc.id || tc.code.IsInfo() != tc.info {
			t.Fatalf("code %d: family %s id %s info %v", tc.code, tc.code.Family(), tc.code.ID(), tc.code.IsInfo())
		}
	}
}

func TestInfoCodesStayInfo(t *testing.T) {
	d := New(SevError, SchInfo, source.Span{}, "loaded 3 types")
	if d.Severity != SevInfo || d.Severity.SARIFLevel() != "note" {
		t.Fatalf("expected info severity, got %s", d.Severity)
	}
	if d := NewError(TypCycle, source.Span{}, "cycle"); d.Severity.SARIFLevel() != "error" {
		t.Fatalf("expected error level, got %s", d.Severity.SARIFLevel())
	}
}
