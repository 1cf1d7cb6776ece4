package counter

import "github.com/dusk-indust/corpusstats/internal/pytree"

// StructuralCounts holds the generic per-snippet structure statistics.
type StructuralCounts struct {
	Calls       int
	Assignments int
	Attributes  int

	// Size is the length of the normalized snippet text.
	Size int

	// IsNotebook marks snippets extracted from a notebook export.
	IsNotebook bool
}

// Structural tallies call, assignment, and attribute-access nodes in one
// depth-first traversal. Every node is visited exactly once; kinds outside
// the three categories recurse into their children without being counted.
// Counting is order-independent, so sibling visitation order never changes
// the result.
//
// A tree deeper than maxDepth stops the walk and keeps the partial tally;
// the bool result reports whether the whole tree was visited.
func Structural(t *pytree.Tree, size int, isNotebook bool, maxDepth int) (StructuralCounts, bool) {
	counts := StructuralCounts{Size: size, IsNotebook: isNotebook}
	complete := t.Walk(maxDepth, func(n *pytree.Node) {
		switch n.Kind {
		case pytree.KindCall:
			counts.Calls++
		case pytree.KindAssignment:
			counts.Assignments++
		case pytree.KindAttribute:
			counts.Attributes++
		}
	})
	return counts, complete
}
