package layout

import (
	"fmt"
	"strings"
)

// ErrorKind enumerates layout calculation failures that are not plain
// lookups.
type ErrorKind uint8

const (
	// ErrNotStruct indicates a strategy was asked to lay out a non-struct.
	ErrNotStruct ErrorKind = iota + 1
	// ErrRecursive indicates a struct that contains itself by value.
	ErrRecursive
	// ErrOverflow indicates a size or offset that does not fit in 64 bits.
	ErrOverflow
)

// Error represents an error during memory layout calculation.
type Error struct {
	Kind  ErrorKind
	Type  string
	Cycle []string // for ErrRecursive
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ErrNotStruct:
		return fmt.Sprintf("type %q is not a struct", e.Type)
	case ErrRecursive:
		if len(e.Cycle) == 0 {
			return fmt.Sprintf("recursive struct has infinite size (%s)", e.Type)
		}
		return fmt.Sprintf("recursive struct has infinite size (cycle: %s)", strings.Join(e.Cycle, " -> "))
	case ErrOverflow:
		if e.Type == "" {
			return "layout size overflows 64 bits"
		}
		return fmt.Sprintf("layout of %q overflows 64 bits", e.Type)
	default:
		return fmt.Sprintf("layout error kind=%d type %q", e.Kind, e.Type)
	}
}
