// Package diag defines the diagnostic model shared by the script parser, the
// schema loader and the session runner.
//
// A Diagnostic carries a Severity, a numeric Code with a stable string form
// (SCR, TYP, SCH and IO ranges), a message, the primary source.Span and
// optional notes and fixes. Producers report through the Reporter interface;
// BagReporter collects into a Bag that the CLI sorts and hands to
// internal/diagfmt. This package does no formatting beyond FormatShort.
package diag
