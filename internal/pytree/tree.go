// Package pytree builds a closed, arena-backed syntax-tree model from Python
// source. Only the node kinds the counters care about are distinguished;
// everything else is an opaque node that still carries its children.
package pytree

// Kind is the closed set of node kinds relevant to counting.
type Kind uint8

const (
	// KindOther is the catch-all for node kinds not counted directly.
	KindOther Kind = iota

	// KindName is an identifier occurrence, including the identifier used
	// as the attribute of an attribute-access expression.
	KindName

	// KindCall is a call expression.
	KindCall

	// KindAssignment is a plain (unannotated) assignment.
	KindAssignment

	// KindAttribute is an attribute-access expression.
	KindAttribute

	// KindImport is a plain import statement; one node may bind several
	// modules.
	KindImport

	// KindImportFrom is a from-import statement.
	KindImportFrom
)

// ImportSpec is one module binding of a plain import statement.
type ImportSpec struct {
	// Module is the dotted module path as written.
	Module string

	// Alias is the local name the module is bound to: the asname when
	// present, otherwise the module path itself.
	Alias string
}

// Node is one syntax-tree node. Children are arena indices, so traversal
// never follows pointers and the whole tree frees as one allocation.
type Node struct {
	Kind Kind

	// Ident is the identifier text of a KindName node.
	Ident string

	// Imports holds the module bindings of a KindImport node.
	Imports []ImportSpec

	// Module and Names describe a KindImportFrom node. Names holds the
	// local binding names; the wildcard marker "*" means all public names.
	Module string
	Names  []string

	Children []int32
}

// WildcardMarker is the Names entry recorded for a wildcard from-import.
const WildcardMarker = "*"

// Tree is an arena of nodes rooted at index Root. The zero-value Tree is
// not usable; construct with Parse or Empty.
type Tree struct {
	Nodes []Node
	Root  int32
}

// Empty returns the tree of an empty document: a single opaque root with no
// children. Downstream counters read zero from it.
func Empty() *Tree {
	return &Tree{Nodes: []Node{{Kind: KindOther}}}
}

// IsEmpty reports whether the tree has no nodes beyond the root.
func (t *Tree) IsEmpty() bool {
	return len(t.Nodes) <= 1 && len(t.Nodes[t.Root].Children) == 0
}

// TopLevel returns the direct children of the root, i.e. the module's
// top-level statements.
func (t *Tree) TopLevel() []int32 {
	return t.Nodes[t.Root].Children
}

// Walk visits every node depth-first, pre-order, using an explicit stack so
// that pathological nesting cannot exhaust the native call stack. Nodes
// deeper than maxDepth are not visited; Walk then returns false so callers
// can keep whatever partial tallies they accumulated.
func (t *Tree) Walk(maxDepth int, visit func(n *Node)) bool {
	type frame struct {
		node  int32
		depth int
	}

	stack := make([]frame, 0, 64)
	stack = append(stack, frame{node: t.Root})
	complete := true

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.depth > maxDepth {
			complete = false
			continue
		}

		n := &t.Nodes[f.node]
		visit(n)

		// Push children in reverse so they pop in source order.
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: n.Children[i], depth: f.depth + 1})
		}
	}

	return complete
}
