// Package i18n holds the English and Spanish labels used by the renderers.
package i18n

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. The English catalogue uses the key text itself.
const (
	KeyType       = "Type"
	KeyKind       = "Kind"
	KeySize       = "Size"
	KeyAlign      = "Alignment"
	KeyWasted     = "Wasted"
	KeyComponents = "Components"
	KeyOffset     = "Offset"
	KeyPadding    = "Padding"
	KeyTailPad    = "Tail padding"
	KeyBytes      = "%d bytes"
	KeyNoPacking  = "No packing"
	KeyPacked     = "Packed"
	KeyOptimal    = "Optimal reordering"
	KeyDefined    = "defined %s %q (size %d, align %d)"
	KeyDefinedS   = "defined %s %q with %d components"
	KeyNoTypes    = "no types defined"
	KeyBye        = "bye"
	KeyCommands   = "Commands:"
)

var spanish = map[string]string{
	KeyType:       "Tipo",
	KeyKind:       "Clase",
	KeySize:       "Tamaño",
	KeyAlign:      "Alineación",
	KeyWasted:     "Bytes desperdiciados",
	KeyComponents: "Componentes",
	KeyOffset:     "Desplazamiento",
	KeyPadding:    "Relleno",
	KeyTailPad:    "Relleno final",
	KeyBytes:      "%d bytes",
	KeyNoPacking:  "Sin empaquetar",
	KeyPacked:     "Empaquetado",
	KeyOptimal:    "Reordenado óptimo",
	KeyDefined:    "definido %s %q (tamaño %d, alineación %d)",
	KeyDefinedS:   "definido %s %q con %d componentes",
	KeyNoTypes:    "no hay tipos definidos",
	KeyBye:        "saliendo del simulador",
	KeyCommands:   "Comandos:",
}

var register sync.Once

func registerCatalog() {
	register.Do(func() {
		// English is registered explicitly so the matcher never falls back
		// to Spanish for it.
		for key := range spanish {
			if err := message.SetString(language.English, key, key); err != nil {
				panic(fmt.Errorf("i18n: %w", err))
			}
		}
		for key, msg := range spanish {
			if err := message.SetString(language.Spanish, key, msg); err != nil {
				panic(fmt.Errorf("i18n: %w", err))
			}
		}
	})
}

// Supported lists the accepted --lang values.
var Supported = []string{"en", "es"}

// Parse maps a --lang value to a tag.
func Parse(lang string) (language.Tag, error) {
	switch strings.ToLower(lang) {
	case "", "en":
		return language.English, nil
	case "es":
		return language.Spanish, nil
	}
	return language.Und, fmt.Errorf("unsupported language %q (expected: %s)", lang, strings.Join(Supported, "|"))
}

// Printer returns a localised printer for tag.
func Printer(tag language.Tag) *message.Printer {
	registerCatalog()
	return message.NewPrinter(tag)
}
