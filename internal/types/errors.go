package types

import (
	"fmt"
	"strings"
)

// UndefinedTypeError is returned whenever a referenced name has no registry entry.
type UndefinedTypeError struct {
	Name string
}

func (e *UndefinedTypeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("type %q is not defined", e.Name)
}

// CycleError rejects a definition that would make a type contain itself.
type CycleError struct {
	Name  string
	Cycle []string // members of the cycle, sorted
}

func (e *CycleError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if len(e.Cycle) == 0 {
		return fmt.Sprintf("type %q would contain itself", e.Name)
	}
	return fmt.Sprintf("type %q would contain itself (cycle: %s)", e.Name, strings.Join(e.Cycle, " -> "))
}
