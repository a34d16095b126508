package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"typelayout/internal/diag"
	"typelayout/internal/script"
	"typelayout/internal/source"
)

func loadTemp(t *testing.T, content string) (*source.FileSet, *source.File) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "types.tl")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return fs, fs.Get(id)
}

func TestApplyRewritesMisspelledCommands(t *testing.T) {
	fs, f := loadTemp(t, "ATOMC char 1 1\nSTRUC s char char\nDESCRIBE s\n")
	bag := diag.NewBag(0)
	script.Parse(f, diag.BagReporter{Bag: bag})
	if bag.Len() != 2 {
		t.Fatalf("diagnostics = %d, want 2", bag.Len())
	}

	res, err := Apply(fs, bag.Items())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 2 || len(res.FileChanges) != 1 || res.FileChanges[0].EditCount != 2 {
		t.Fatalf("result = %+v", res)
	}
	got, err := os.ReadFile(f.Path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "ATOMIC char 1 1\nSTRUCT s char char\nDESCRIBE s\n"; string(got) != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
}

func TestApplySkipsConflictsAndVirtual(t *testing.T) {
	fs, f := loadTemp(t, "abcdef\n")
	virt := fs.AddVirtual("<input:1>", []byte("xyz"))
	diags := []diag.Diagnostic{
		diag.NewError(diag.ScrUnknownCommand, source.Span{File: f.ID, Start: 0, End: 3}, "a").
			WithFix("first", diag.FixEdit{Span: source.Span{File: f.ID, Start: 0, End: 3}, NewText: "ABC"}),
		diag.NewError(diag.ScrUnknownCommand, source.Span{File: f.ID, Start: 2, End: 4}, "b").
			WithFix("overlap", diag.FixEdit{Span: source.Span{File: f.ID, Start: 2, End: 4}, NewText: "??"}),
		diag.NewError(diag.ScrUnknownCommand, source.Span{File: virt, Start: 0, End: 1}, "c").
			WithFix("virtual", diag.FixEdit{Span: source.Span{File: virt, Start: 0, End: 1}, NewText: "X"}),
	}
	res, err := Apply(fs, diags)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 || len(res.Skipped) != 2 {
		t.Fatalf("result = %+v", res)
	}
	got, _ := os.ReadFile(f.Path)
	if string(got) != "ABCdef\n" {
		t.Fatalf("content = %q", got)
	}
}

func TestApplyNothing(t *testing.T) {
	fs, f := loadTemp(t, "LIST\n")
	diags := []diag.Diagnostic{diag.NewError(diag.ScrExtraArgument, source.Span{File: f.ID}, "no fix")}
	if _, err := Apply(fs, diags); !errors.Is(err, ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
}
