package counter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/corpusstats/internal/pytree"
)

const testMaxDepth = 200

func parse(t *testing.T, src string) *pytree.Tree {
	t.Helper()
	tree := pytree.Parse(src, testMaxDepth)
	require.NotNil(t, tree)
	return tree
}

func TestBuiltins(t *testing.T) {
	set := BuiltinSet(DefaultBuiltins)

	t.Run("counts calls and bare references", func(t *testing.T) {
		tree := parse(t, "print(len(items))\nf = len\n")
		counts, complete := Builtins(tree, set, testMaxDepth)

		assert.True(t, complete)
		assert.Equal(t, map[string]int{"print": 1, "len": 2}, counts)
	})

	t.Run("counts identifiers in attribute position", func(t *testing.T) {
		// No builtin is in scope here; the match is deliberately coarse.
		tree := parse(t, "x = obj.len\n")
		counts, _ := Builtins(tree, set, testMaxDepth)

		assert.Equal(t, map[string]int{"len": 1}, counts)
	})

	t.Run("ignores names outside the set", func(t *testing.T) {
		tree := parse(t, "foo(bar)\n")
		counts, _ := Builtins(tree, set, testMaxDepth)

		assert.Empty(t, counts)
	})

	t.Run("empty tree counts nothing", func(t *testing.T) {
		counts, complete := Builtins(pytree.Empty(), set, testMaxDepth)

		assert.True(t, complete)
		assert.Empty(t, counts)
	})

	t.Run("custom set restricts matching", func(t *testing.T) {
		tree := parse(t, "print(len(x))\n")
		counts, _ := Builtins(tree, BuiltinSet([]string{"len"}), testMaxDepth)

		assert.Equal(t, map[string]int{"len": 1}, counts)
	})

	t.Run("depth ceiling keeps partial counts", func(t *testing.T) {
		tree := &pytree.Tree{
			Nodes: []pytree.Node{
				{Kind: pytree.KindOther, Children: []int32{1, 3}},
				{Kind: pytree.KindName, Ident: "len", Children: []int32{2}},
				{Kind: pytree.KindName, Ident: "len"},
				{Kind: pytree.KindName, Ident: "print"},
			},
		}
		counts, complete := Builtins(tree, set, 1)

		assert.False(t, complete)
		assert.Equal(t, map[string]int{"len": 1, "print": 1}, counts)
	})
}
