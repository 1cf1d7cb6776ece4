// Package counter derives the three statistic families from a snippet's
// syntax tree: builtin-function usage, structural counts, and standard
// library component usage.
package counter

import "github.com/dusk-indust/corpusstats/internal/pytree"

// DefaultBuiltins is the closed set of interpreter-provided function names
// being searched for: the lowercase-initial CPython builtins.
var DefaultBuiltins = []string{
	"abs", "aiter", "all", "anext", "any", "ascii",
	"bin", "bool", "breakpoint", "bytearray", "bytes",
	"callable", "chr", "classmethod", "compile", "complex",
	"copyright", "credits",
	"delattr", "dict", "dir", "divmod",
	"enumerate", "eval", "exec", "exit",
	"filter", "float", "format", "frozenset",
	"getattr", "globals",
	"hasattr", "hash", "help", "hex",
	"id", "input", "int", "isinstance", "issubclass", "iter",
	"len", "license", "list", "locals",
	"map", "max", "memoryview", "min",
	"next",
	"object", "oct", "open", "ord",
	"pow", "print", "property",
	"quit",
	"range", "repr", "reversed", "round",
	"set", "setattr", "slice", "sorted", "staticmethod", "str", "sum", "super",
	"tuple", "type",
	"vars",
	"zip",
}

// BuiltinSet turns a name list into the lookup set the counter consumes.
func BuiltinSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Builtins counts every syntactic occurrence of a name in the builtin set:
// direct calls, bare references, and identifiers used as an attribute of
// some expression all count. The match is deliberately coarse; no scope
// resolution is attempted, so `obj.len` counts as a `len` occurrence.
//
// The walk is depth-first pre-order and aborts gracefully at maxDepth,
// returning the counts accumulated so far. The bool result reports whether
// the whole tree was visited.
func Builtins(t *pytree.Tree, set map[string]struct{}, maxDepth int) (map[string]int, bool) {
	counts := make(map[string]int)
	complete := t.Walk(maxDepth, func(n *pytree.Node) {
		if n.Kind != pytree.KindName {
			return
		}
		if _, ok := set[n.Ident]; ok {
			counts[n.Ident]++
		}
	})
	return counts, complete
}
