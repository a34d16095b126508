// Package schema loads type declarations from TOML files:
//
//	[[atomic]]
//	name = "int"
//	size = 4
//	align = 4
//
//	[[struct]]
//	name = "S1"
//	fields = ["char", "int", "char"]
//
//	[[union]]
//	name = "U"
//	members = ["char", "int"]
//
// Declarations may appear in any order. Apply defines them dependencies
// first and reports every problem as a diagnostic against the file.
package schema
