// Package script parses the line-oriented command language used by the REPL
// and by `typelayout run`:
//
//	ATOMIC <name> <size> <align>
//	STRUCT <name> <type>...
//	UNION  <name> <type>...
//	DESCRIBE <name>
//	LIST | HELP | EXIT
//
// Keywords are case-insensitive; the Spanish spellings ATOMICO, DESCRIBIR,
// LISTAR, AYUDA and SALIR are accepted too. '#' starts a comment.
// Usage errors are reported as diagnostics and the offending line is skipped.
package script
