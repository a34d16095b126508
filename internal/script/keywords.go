package script

import "strings"

// Op is the command verb.
type Op uint8

const (
	OpAtomic Op = iota + 1
	OpStruct
	OpUnion
	OpDescribe
	OpList
	OpHelp
	OpExit
)

func (o Op) String() string {
	switch o {
	case OpAtomic:
		return "ATOMIC"
	case OpStruct:
		return "STRUCT"
	case OpUnion:
		return "UNION"
	case OpDescribe:
		return "DESCRIBE"
	case OpList:
		return "LIST"
	case OpHelp:
		return "HELP"
	case OpExit:
		return "EXIT"
	}
	return "UNKNOWN"
}

// Usage returns the one-line syntax of o.
func (o Op) Usage() string {
	switch o {
	case OpAtomic:
		return "ATOMIC <name> <size> <align>"
	case OpStruct:
		return "STRUCT <name> <type>..."
	case OpUnion:
		return "UNION <name> <type>..."
	case OpDescribe:
		return "DESCRIBE <name>"
	case OpList, OpHelp, OpExit:
		return o.String()
	}
	return ""
}

// Ops lists every command in help order.
var Ops = []Op{OpAtomic, OpStruct, OpUnion, OpDescribe, OpList, OpHelp, OpExit}

var keywords = map[string]Op{
	"ATOMIC":    OpAtomic,
	"ATOMICO":   OpAtomic,
	"ATÓMICO":   OpAtomic,
	"STRUCT":    OpStruct,
	"UNION":     OpUnion,
	"DESCRIBE":  OpDescribe,
	"DESCRIBIR": OpDescribe,
	"LIST":      OpList,
	"LISTAR":    OpList,
	"HELP":      OpHelp,
	"AYUDA":     OpHelp,
	"EXIT":      OpExit,
	"QUIT":      OpExit,
	"SALIR":     OpExit,
}

// LookupKeyword maps a command word to its Op, ignoring case.
func LookupKeyword(word string) (Op, bool) {
	op, ok := keywords[strings.ToUpper(word)]
	return op, ok
}

// suggest returns the closest keyword within edit distance 2.
func suggest(word string) (string, bool) {
	w := strings.ToUpper(word)
	best, bestDist := "", 3
	for _, op := range Ops {
		kw := op.String()
		if d := distance(w, kw); d < bestDist {
			best, bestDist = kw, d
		}
	}
	return best, best != ""
}

// distance is the Levenshtein distance over runes.
func distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
