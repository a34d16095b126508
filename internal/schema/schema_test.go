package schema_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"typelayout/internal/diag"
	"typelayout/internal/manager"
	"typelayout/internal/schema"
	"typelayout/internal/source"
)

func parse(t *testing.T, text string) (*schema.Schema, *diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("types.toml", []byte(text))
	bag := diag.NewBag(50)
	return schema.Parse(fs.Get(id), diag.BagReporter{Bag: bag}), bag, fs
}

func codes(b *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range b.Items() {
		out = append(out, d.Code)
	}
	return out
}

const sample = `
# unions first, to show declaration order does not matter
[[union]]
name = "U"
members = ["char", "int", "double"]

[[struct]]
name = "Outer"
fields = ["char", "S1"]

[[struct]]
name = "S1"
fields = ["char", "int", "char"]

[[atomic]]
name = "char"
size = 1
align = 1

[[atomic]]
name = "int"
size = 4
align = 4

[[atomic]]
name = "double"
size = 8
align = 8
`

func TestApplyOrdersDependencies(t *testing.T) {
	s, bag, _ := parse(t, sample)
	if s == nil || bag.Len() != 0 {
		t.Fatalf("parse failed: %v", codes(bag))
	}
	m := manager.New()
	res := s.Apply(context.Background(), m, diag.BagReporter{Bag: bag})
	if bag.Len() != 0 || len(res.Skipped) != 0 {
		t.Fatalf("apply reported %v, skipped %v", codes(bag), res.Skipped)
	}
	if len(res.Defined) != 6 {
		t.Fatalf("defined %v", res.Defined)
	}
	pos := func(name string) int { return slices.Index(res.Defined, name) }
	if pos("U") < pos("double") || pos("Outer") < pos("S1") || pos("S1") < pos("int") {
		t.Fatalf("dependencies not first: %v", res.Defined)
	}

	rep, err := m.Describe(context.Background(), "U")
	if err != nil || rep.Layout.Size != 8 || rep.Layout.Align != 8 {
		t.Fatalf("U = %+v, %v", rep, err)
	}
}

func TestParseReportsBadDeclarations(t *testing.T) {
	text := `
[[atomic]]
name = "neg"
size = -1
align = 1

[[atomic]]
name = "odd"
size = 3
align = 3

[[atomic]]
name = "odd"
size = 1
align = 1

[[struct]]
name = "Empty"
fields = []

[[union]]
members = ["odd"]
colour = "red"
`
	s, bag, fs := parse(t, text)
	if s == nil {
		t.Fatalf("expected a schema")
	}
	got := codes(bag)
	for _, want := range []diag.Code{
		diag.SchUnknownKey, diag.SchBadValue, diag.TypAlignNotPowerOfTwo,
		diag.SchDuplicate, diag.SchMissingField,
	} {
		if !slices.Contains(got, want) {
			t.Fatalf("missing %v in %v", want, got)
		}
	}
	if names := s.Names(); len(names) != 1 || names[0] != "odd" {
		t.Fatalf("surviving declarations %v", names)
	}

	for _, d := range bag.Items() {
		if d.Code != diag.SchDuplicate {
			continue
		}
		start, _ := fs.Resolve(d.Primary)
		if start.Line != 13 {
			t.Fatalf("duplicate reported on line %d, want 13", start.Line)
		}
		if len(d.Notes) != 1 {
			t.Fatalf("duplicate should note the first declaration")
		}
	}
	for _, d := range bag.Items() {
		if d.Code == diag.SchUnknownKey {
			f := fs.Get(d.Primary.File)
			if got := string(f.Content[d.Primary.Start:d.Primary.End]); got != "colour" {
				t.Fatalf("unknown key span covers %q", got)
			}
		}
	}
}

func TestDecodeError(t *testing.T) {
	s, bag, _ := parse(t, "[[atomic]\nname = 1\n")
	if s != nil {
		t.Fatalf("expected nil schema")
	}
	if got := codes(bag); len(got) != 1 || got[0] != diag.SchDecode {
		t.Fatalf("unexpected codes %v", got)
	}
}

func TestApplyCyclesAndMissing(t *testing.T) {
	text := `
[[atomic]]
name = "int"
size = 4
align = 4

[[struct]]
name = "A"
fields = ["int", "B"]

[[struct]]
name = "B"
fields = ["A"]

[[struct]]
name = "UsesA"
fields = ["A"]

[[struct]]
name = "Lost"
fields = ["ghost"]

[[union]]
name = "AfterLost"
members = ["Lost", "int"]
`
	s, bag, _ := parse(t, text)
	if s == nil || bag.Len() != 0 {
		t.Fatalf("parse: %v", codes(bag))
	}
	m := manager.New()
	res := s.Apply(context.Background(), m, diag.BagReporter{Bag: bag})

	if !slices.Equal(res.Defined, []string{"int"}) {
		t.Fatalf("defined %v", res.Defined)
	}
	got := codes(bag)
	cycles, undefined := 0, 0
	for _, c := range got {
		switch c {
		case diag.TypCycle:
			cycles++
		case diag.TypUndefined:
			undefined++
		}
	}
	// A and B on the cycle, UsesA blocked by it; Lost is missing ghost and
	// AfterLost is skipped silently behind it.
	if cycles != 3 || undefined != 1 || len(got) != 4 {
		t.Fatalf("unexpected codes %v", got)
	}
	if len(res.Skipped) != 5 {
		t.Fatalf("skipped %v", res.Skipped)
	}
}

func TestApplyUsesExistingTypes(t *testing.T) {
	m := manager.New()
	if err := m.DefineAtomic(context.Background(), "int", 4, 4); err != nil {
		t.Fatal(err)
	}
	s, bag, _ := parse(t, "[[struct]]\nname = \"P\"\nfields = [\"int\", \"int\"]\n")
	res := s.Apply(context.Background(), m, diag.BagReporter{Bag: bag})
	if bag.Len() != 0 || !slices.Equal(res.Defined, []string{"P"}) {
		t.Fatalf("defined %v, diagnostics %v", res.Defined, codes(bag))
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "types.toml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	bag := diag.NewBag(10)
	m := manager.New()
	res, err := schema.Load(context.Background(), fs, path, m, diag.BagReporter{Bag: bag})
	if err != nil || len(res.Defined) != 6 {
		t.Fatalf("load: %v, %+v", err, res)
	}

	_, err = schema.Load(context.Background(), fs, filepath.Join(dir, "missing.toml"), m, diag.BagReporter{Bag: bag})
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if got := codes(bag); len(got) != 1 || got[0] != diag.IOLoadFileError {
		t.Fatalf("unexpected codes %v", got)
	}
}
