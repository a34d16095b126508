package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestSpanishLabels(t *testing.T) {
	p := Printer(language.Spanish)
	if got := p.Sprintf(KeyWasted); got != "Bytes desperdiciados" {
		t.Fatalf("unexpected %q", got)
	}
	if got := p.Sprintf(KeyDefined, "ATOMIC", "char", 1, 1); got != `definido ATOMIC "char" (tamaño 1, alineación 1)` {
		t.Fatalf("unexpected %q", got)
	}
}

func TestEnglishFallsBackToKey(t *testing.T) {
	p := Printer(language.English)
	if got := p.Sprintf(KeyBytes, 12); got != "12 bytes" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestParse(t *testing.T) {
	if tag, err := Parse("ES"); err != nil || tag != language.Spanish {
		t.Fatalf("Parse(ES) = %v, %v", tag, err)
	}
	if _, err := Parse("fr"); err == nil {
		t.Fatal("expected error for fr")
	}
}
