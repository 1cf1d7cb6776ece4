package pytree

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// pythonLanguage is the shared grammar. The grammar object is immutable and
// safe to use from every worker; parsers are created per Parse call.
var pythonLanguage = tree_sitter.NewLanguage(tree_sitter_python.Language())

// Parse builds the arena tree for the given source text. It never fails:
// any parse problem (incompatible dialect, truncated code, nesting beyond
// maxDepth) yields the empty-document tree so downstream counters always
// receive a valid tree.
func Parse(text string, maxDepth int) *Tree {
	src := []byte(text)

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(pythonLanguage); err != nil {
		return Empty()
	}

	tsTree := parser.Parse(src, nil)
	if tsTree == nil {
		return Empty()
	}
	defer tsTree.Close()

	root := tsTree.RootNode()
	if root.HasError() {
		// Incompatible dialect or truncated code. Absorbed, per contract.
		return Empty()
	}

	b := &builder{src: src, maxDepth: maxDepth}
	rootIdx, ok := b.convert(root, 0)
	if !ok {
		return Empty()
	}
	return &Tree{Nodes: b.nodes, Root: rootIdx}
}

// builder converts tree-sitter nodes into the arena model. Conversion depth
// is bounded; exceeding the ceiling discards the whole tree.
type builder struct {
	src      []byte
	maxDepth int
	nodes    []Node
}

func (b *builder) convert(n *tree_sitter.Node, depth int) (int32, bool) {
	if depth > b.maxDepth {
		return 0, false
	}

	// Reserve the slot first so children land after their parent.
	idx := int32(len(b.nodes))
	b.nodes = append(b.nodes, Node{})

	var node Node
	switch n.Kind() {
	case "identifier":
		node.Kind = KindName
		node.Ident = n.Utf8Text(b.src)
		b.nodes[idx] = node
		return idx, true

	case "call":
		node.Kind = KindCall

	case "assignment":
		// Annotated assignments are a different statement form and are not
		// tallied as plain assignments.
		if n.ChildByFieldName("type") != nil {
			node.Kind = KindOther
		} else {
			node.Kind = KindAssignment
		}

	case "attribute":
		node.Kind = KindAttribute

	case "import_statement":
		b.nodes[idx] = b.convertImport(n)
		return idx, true

	case "import_from_statement":
		b.nodes[idx] = b.convertImportFrom(n)
		return idx, true

	default:
		node.Kind = KindOther
	}

	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil || !child.IsNamed() {
			continue
		}
		childIdx, ok := b.convert(child, depth+1)
		if !ok {
			return 0, false
		}
		node.Children = append(node.Children, childIdx)
	}

	b.nodes[idx] = node
	return idx, true
}

// convertImport flattens `import a, b as c` into module bindings. Import
// statements are leaves in the arena model: the identifiers inside them are
// bindings, not references, and must not feed the name counters.
func (b *builder) convertImport(n *tree_sitter.Node) Node {
	node := Node{Kind: KindImport}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			module := child.Utf8Text(b.src)
			node.Imports = append(node.Imports, ImportSpec{Module: module, Alias: module})
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			module := nameNode.Utf8Text(b.src)
			alias := module
			if aliasNode := child.ChildByFieldName("alias"); aliasNode != nil {
				alias = aliasNode.Utf8Text(b.src)
			}
			node.Imports = append(node.Imports, ImportSpec{Module: module, Alias: alias})
		}
	}
	return node
}

// convertImportFrom records the module plus the local binding name of every
// imported name ("*" for a wildcard). Relative imports have no module entry
// in any dictionary and collapse to an opaque leaf.
func (b *builder) convertImportFrom(n *tree_sitter.Node) Node {
	moduleNode := n.ChildByFieldName("module_name")
	if moduleNode == nil || moduleNode.Kind() != "dotted_name" {
		return Node{Kind: KindOther}
	}

	node := Node{
		Kind:   KindImportFrom,
		Module: moduleNode.Utf8Text(b.src),
	}

	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			if child.StartByte() == moduleNode.StartByte() {
				continue // the module itself
			}
			node.Names = append(node.Names, child.Utf8Text(b.src))
		case "aliased_import":
			if aliasNode := child.ChildByFieldName("alias"); aliasNode != nil {
				node.Names = append(node.Names, aliasNode.Utf8Text(b.src))
			} else if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				node.Names = append(node.Names, nameNode.Utf8Text(b.src))
			}
		case "wildcard_import":
			node.Names = append(node.Names, WildcardMarker)
		}
	}

	return node
}
