package counter

import "github.com/dusk-indust/corpusstats/internal/pytree"

// ImportEntry records how a module is bound inside a snippet.
type ImportEntry struct {
	// Alias is the local name of the module: the asname of a plain import,
	// otherwise the module name itself.
	Alias string

	// Names holds the local binding names of from-imports, with "*" as the
	// wildcard marker. Empty for plain imports.
	Names []string
}

// ImportTable maps imported module names to their bindings. Scope is the
// whole snippet; only top-level statements contribute.
type ImportTable map[string]ImportEntry

// ExtractImports scans the snippet's top-level statements for plain-import
// and from-import forms. Repeated from-imports of the same module merge; a
// plain import rebinds the module and discards earlier from-import names.
func ExtractImports(t *pytree.Tree) ImportTable {
	table := make(ImportTable)
	for _, idx := range t.TopLevel() {
		n := &t.Nodes[idx]
		switch n.Kind {
		case pytree.KindImport:
			for _, spec := range n.Imports {
				table[spec.Module] = ImportEntry{Alias: spec.Alias}
			}
		case pytree.KindImportFrom:
			entry, ok := table[n.Module]
			if !ok {
				entry = ImportEntry{Alias: n.Module}
			}
			entry.Names = append(entry.Names, n.Names...)
			table[n.Module] = entry
		}
	}
	return table
}
