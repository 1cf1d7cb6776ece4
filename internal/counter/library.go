package counter

import (
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/dusk-indust/corpusstats/internal/apidict"
	"github.com/dusk-indust/corpusstats/internal/pytree"
)

// FromImportPrefix marks buckets of from-imported components. They live in
// a distinct counter namespace from plain module usage.
const FromImportPrefix = "from_import_"

// ResolvedLibrary is one imported library with the component buckets that
// are eligible for counting in a snippet.
type ResolvedLibrary struct {
	Library string
	Alias   string

	// Buckets maps a bucket name (a component type, optionally prefixed
	// with FromImportPrefix) to the component names to search for.
	Buckets map[string][]string
}

// ResolveComponents filters the dictionary down to the libraries a snippet
// imports:
//
//   - a plain import exposes all of the library's components under their
//     bucketed type;
//   - a from-import with explicit names restricts counting to components
//     matching an imported name, tagged as from-imported;
//   - a wildcard from-import expands to all components, tagged as
//     from-imported.
func ResolveComponents(imports ImportTable, dict apidict.Dictionary) map[string]ResolvedLibrary {
	resolved := make(map[string]ResolvedLibrary)

	for library, components := range dict {
		entry, imported := imports[library]
		if !imported {
			continue
		}

		r := ResolvedLibrary{
			Library: library,
			Alias:   entry.Alias,
			Buckets: make(map[string][]string),
		}

		switch {
		case slices.Contains(entry.Names, pytree.WildcardMarker):
			for bucket, names := range components {
				r.Buckets[FromImportPrefix+bucket] = slices.Clone(names)
			}
		case len(entry.Names) > 0:
			for _, direct := range entry.Names {
				for bucket, names := range components {
					if slices.Contains(names, direct) {
						key := FromImportPrefix + bucket
						r.Buckets[key] = append(r.Buckets[key], direct)
					}
				}
			}
		default:
			for bucket, names := range components {
				r.Buckets[bucket] = slices.Clone(names)
			}
		}

		resolved[library] = r
	}

	return resolved
}

// LibraryCounts maps library → bucket → component name → occurrence count.
// Libraries and buckets without matches carry no entry.
type LibraryCounts map[string]map[string]map[string]int

// LibraryUsage resolves a snippet's imports against the dictionary and
// counts textual occurrences of every eligible component in the normalized
// snippet text. The representation is sparse: a snippet producing no
// matches for a library yields no entry for it.
func LibraryUsage(text string, imports ImportTable, dict apidict.Dictionary) LibraryCounts {
	counts := make(LibraryCounts)

	for library, r := range ResolveComponents(imports, dict) {
		for bucket, names := range r.Buckets {
			if len(names) == 0 {
				continue
			}
			matches := countOccurrences(text, r.Alias, bucket, names)
			if len(matches) == 0 {
				continue
			}
			if counts[library] == nil {
				counts[library] = make(map[string]map[string]int)
			}
			counts[library][bucket] = matches
		}
	}

	return counts
}

// countOccurrences applies the per-bucket matching rule:
//
//   - function/exception names count only when accessed via the module
//     alias (`<alias>.<name>`);
//   - method/class/attribute names count in attribute-access position
//     (`.<name>`), alias-independent, since they are typically reached off
//     instances rather than the module;
//   - from-imported names bind free-standing, so they count as whole words
//     not preceded by a dot; a dotted occurrence is an attribute access
//     and must not be double counted.
func countOccurrences(text, alias, bucket string, names []string) map[string]int {
	alt := alternation(names)

	var pattern string
	switch bucket {
	case apidict.TypeFunction, apidict.TypeException:
		pattern = regexp.QuoteMeta(alias) + `\.(` + alt + `)`
	case apidict.TypeMethod, apidict.TypeClass, apidict.TypeAttribute:
		pattern = `\.(` + alt + `)`
	default:
		pattern = `(?:^|[^.\w])(` + alt + `)\b`
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil
	}

	matches := make(map[string]int)
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		matches[m[1]]++
	}
	return matches
}

// alternation joins quoted names longest-first so that prefix overlaps
// between component names resolve deterministically.
func alternation(names []string) string {
	sorted := make([]string, len(names))
	for i, n := range names {
		sorted[i] = regexp.QuoteMeta(n)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	return strings.Join(sorted, "|")
}
