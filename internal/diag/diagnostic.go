package diag

import "typelayout/internal/source"

// Severity orders diagnostics; a higher value is more severe.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// severityNames holds the upper-case form used by pretty and json output,
// the lower-case label used by FormatShort and the SARIF result level.
var severityNames = [...]struct{ upper, label, sarif string }{
	SevInfo:    {"INFO", "info", "note"},
	SevWarning: {"WARNING", "warning", "warning"},
	SevError:   {"ERROR", "error", "error"},
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s].upper
	}
	return "UNKNOWN"
}

// Label is the lower-case form printed by FormatShort.
func (s Severity) Label() string {
	if int(s) < len(severityNames) {
		return severityNames[s].label
	}
	return "info"
}

// SARIFLevel maps the severity onto a SARIF 2.1.0 result level.
// Unknown severities degrade to "note".
func (s Severity) SARIFLevel() string {
	if int(s) < len(severityNames) {
		return severityNames[s].sarif
	}
	return "note"
}

type Note struct {
	Span source.Span
	Msg  string
}

type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix is a titled set of edits that `check --fix` applies atomically.
type Fix struct {
	Title string
	Edits []FixEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

// New builds a diagnostic. Informational codes are always SevInfo so that
// they render as SARIF notes whatever the caller passed.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	if code.IsInfo() {
		sev = SevInfo
	}
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// WithNote returns a copy of d with an extra note attached.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(title string, edits ...FixEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: edits})
	return d
}
