package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// script syntax
	ScrInfo             Code = 1000
	ScrUnknownCommand   Code = 1001
	ScrMissingArgument  Code = 1002
	ScrExtraArgument    Code = 1003
	ScrBadNumber        Code = 1004
	ScrEmptyComposition Code = 1005

	// type definitions and queries
	TypInfo               Code = 2000
	TypUndefined          Code = 2001
	TypCycle              Code = 2002
	TypAlignNotPowerOfTwo Code = 2003
	TypZeroAlign          Code = 2004
	TypLayout             Code = 2005

	// schema files
	SchInfo         Code = 3000
	SchDecode       Code = 3001
	SchMissingField Code = 3002
	SchDuplicate    Code = 3003
	SchUnknownKey   Code = 3004
	SchBadValue     Code = 3005

	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	ScrInfo:               "Script information",
	ScrUnknownCommand:     "Unknown command",
	ScrMissingArgument:    "Missing argument",
	ScrExtraArgument:      "Unexpected argument",
	ScrBadNumber:          "Invalid number",
	ScrEmptyComposition:   "Empty composition",
	TypInfo:               "Type information",
	TypUndefined:          "Undefined type",
	TypCycle:              "Type contains itself",
	TypAlignNotPowerOfTwo: "Alignment is not a power of two",
	TypZeroAlign:          "Zero alignment",
	TypLayout:             "Layout error",
	SchInfo:               "Schema information",
	SchDecode:             "Malformed schema file",
	SchMissingField:       "Missing schema field",
	SchDuplicate:          "Duplicate declaration",
	SchUnknownKey:         "Unknown schema key",
	SchBadValue:           "Invalid schema value",
	IOLoadFileError:       "I/O load file error",
}

// Family groups codes by the thousand: script syntax, type definitions,
// schema files and I/O.
type Family uint8

const (
	FamilyUnknown Family = iota
	FamilyScript
	FamilyType
	FamilySchema
	FamilyIO
)

var families = [...]struct{ prefix, name string }{
	FamilyUnknown: {"E", "unknown"},
	FamilyScript:  {"SCR", "script"},
	FamilyType:    {"TYP", "type"},
	FamilySchema:  {"SCH", "schema"},
	FamilyIO:      {"IO", "io"},
}

func (f Family) String() string { return families[f].name }

func (c Code) Family() Family {
	switch c / 1000 {
	case 1:
		return FamilyScript
	case 2:
		return FamilyType
	case 3:
		return FamilySchema
	case 4:
		return FamilyIO
	}
	return FamilyUnknown
}

// IsInfo reports whether c is the informational code of its family
// (SCR1000, TYP2000, SCH3000).
func (c Code) IsInfo() bool {
	f := c.Family()
	return f != FamilyUnknown && f != FamilyIO && c%1000 == 0
}

func (c Code) ID() string {
	f := c.Family()
	if f == FamilyUnknown {
		return "E0000"
	}
	return fmt.Sprintf("%s%04d", families[f].prefix, int(c))
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
