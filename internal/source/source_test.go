package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestToLineCol(t *testing.T) {
	content := []byte("ab\ncd\n\nef")
	idx := buildLineIndex(content)
	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // newline belongs to line 1
		{3, LineCol{2, 1}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{8, LineCol{4, 2}},
	}
	for _, tc := range cases {
		if got := toLineCol(idx, tc.off); got != tc.want {
			t.Fatalf("toLineCol(%d) = %+v, want %+v", tc.off, got, tc.want)
		}
	}
}

func TestFileLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("<repl>", []byte("ATOMIC char 1 1\nSTRUCT S char\n"))
	f := fs.Get(id)
	if got := f.Line(2); got != "STRUCT S char" {
		t.Fatalf("line 2 = %q", got)
	}
	if got := f.Line(3); got != "" {
		t.Fatalf("line 3 = %q", got)
	}
	if got := f.Line(9); got != "" {
		t.Fatalf("line 9 = %q", got)
	}
}

func TestLoadNormalises(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.tl")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFATOMIC a 1 1\r\nDESCRIBE a\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	f := fs.Get(id)
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("unexpected flags %b", f.Flags)
	}
	if string(f.Content) != "ATOMIC a 1 1\nDESCRIBE a\n" {
		t.Fatalf("unexpected content %q", f.Content)
	}
	start, end := fs.Resolve(Span{File: id, Start: 13, End: 21})
	if start != (LineCol{2, 1}) || end != (LineCol{2, 9}) {
		t.Fatalf("resolve: %+v %+v", start, end)
	}
	if latest, ok := fs.GetLatest(path); !ok || latest != id {
		t.Fatal("GetLatest mismatch")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 6}
	b := Span{File: 1, Start: 2, End: 5}
	if got := a.Cover(b); got.Start != 2 || got.End != 6 {
		t.Fatalf("cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 9}); got != a {
		t.Fatalf("cross-file cover must keep receiver, got %v", got)
	}
}
