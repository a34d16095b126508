package script

import (
	"testing"

	"typelayout/internal/diag"
	"typelayout/internal/source"
)

func parseString(t *testing.T, src string) ([]Command, *diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.tl", []byte(src))
	bag := diag.NewBag(50)
	cmds := Parse(fs.Get(id), diag.BagReporter{Bag: bag})
	return cmds, bag, fs
}

func TestParseCommands(t *testing.T) {
	src := `# demo
ATOMIC char 1 1
atomico int 4 4   # alias
STRUCT S1 char int char
UNION U char int
DESCRIBIR S1
list
SALIR
`
	cmds, bag, _ := parseString(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	wantOps := []Op{OpAtomic, OpAtomic, OpStruct, OpUnion, OpDescribe, OpList, OpExit}
	if len(cmds) != len(wantOps) {
		t.Fatalf("expected %d commands, got %d", len(wantOps), len(cmds))
	}
	for i, op := range wantOps {
		if cmds[i].Op != op {
			t.Fatalf("command %d: got %s, want %s", i, cmds[i].Op, op)
		}
	}
	if cmds[1].Name.Text != "int" || cmds[1].Size != 4 || cmds[1].Align != 4 {
		t.Fatalf("bad atomic: %+v", cmds[1])
	}
	names := cmds[2].ComponentNames()
	if len(names) != 3 || names[1] != "int" {
		t.Fatalf("bad components: %v", names)
	}
}

func TestParseSpans(t *testing.T) {
	cmds, _, fs := parseString(t, "\n  STRUCT  S1 char\n")
	start, end := fs.Resolve(cmds[0].Name.Span)
	if start != (source.LineCol{Line: 2, Col: 11}) || end.Col != 13 {
		t.Fatalf("name span resolved to %+v-%+v", start, end)
	}
}

func TestParseDiagnostics(t *testing.T) {
	cases := []struct {
		name string
		src  string
		code diag.Code
		sev  diag.Severity
		kept int
	}{
		{"unknown", "DEFINE x\n", diag.ScrUnknownCommand, diag.SevError, 0},
		{"missing atomic args", "ATOMIC x 1\n", diag.ScrMissingArgument, diag.SevError, 0},
		{"bad number", "ATOMIC x one 1\n", diag.ScrBadNumber, diag.SevError, 0},
		{"negative", "ATOMIC x -1 1\n", diag.ScrBadNumber, diag.SevError, 0},
		{"empty struct", "STRUCT S\n", diag.ScrEmptyComposition, diag.SevError, 0},
		{"empty union", "UNION U\n", diag.ScrEmptyComposition, diag.SevError, 0},
		{"missing name", "DESCRIBE\n", diag.ScrMissingArgument, diag.SevError, 0},
		{"odd align", "ATOMIC x 3 3\n", diag.TypAlignNotPowerOfTwo, diag.SevWarning, 1},
		{"zero align", "ATOMIC x 3 0\n", diag.TypZeroAlign, diag.SevWarning, 1},
		{"extra", "EXIT now\n", diag.ScrExtraArgument, diag.SevWarning, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmds, bag, _ := parseString(t, tc.src)
			items := bag.Items()
			if len(items) != 1 || items[0].Code != tc.code || items[0].Severity != tc.sev {
				t.Fatalf("expected one %s, got %+v", tc.code.ID(), items)
			}
			if len(cmds) != tc.kept {
				t.Fatalf("expected %d commands kept, got %d", tc.kept, len(cmds))
			}
		})
	}
}

func TestUnknownCommandSuggestsFix(t *testing.T) {
	_, bag, _ := parseString(t, "DESCRIBEE S1\n")
	items := bag.Items()
	if len(items) != 1 || len(items[0].Fixes) != 1 {
		t.Fatalf("expected a fix, got %+v", items)
	}
	if got := items[0].Fixes[0].Edits[0].NewText; got != "DESCRIBE" {
		t.Fatalf("expected DESCRIBE suggestion, got %q", got)
	}
}

func TestNumbersAreDecimal(t *testing.T) {
	cmds, bag, _ := parseString(t, "ATOMIC big 010 08\nATOMIC wide 0x10 4\n")
	if len(cmds) != 1 || cmds[0].Size != 10 || cmds[0].Align != 8 {
		t.Fatalf("leading zeros not read as decimal: %+v", cmds)
	}
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.ScrBadNumber {
		t.Fatalf("want one ScrBadNumber for 0x10, got %+v", items)
	}
}
