// Package sink persists count datasets as Parquet files: one file per dump
// file during a run, concatenated into one final dataset at the end.
package sink

import (
	"sort"

	"github.com/dusk-indust/corpusstats/internal/orchestrator"
)

// StructuralRow is one snippet's structural metadata record.
type StructuralRow struct {
	ChunkID     string `parquet:"chunk_id"`
	Calls       int64  `parquet:"calls"`
	Assignments int64  `parquet:"assignments"`
	Attributes  int64  `parquet:"attributes"`
	Size        int64  `parquet:"size"`
	IsNotebook  bool   `parquet:"is_notebook"`
}

// BuiltinRow is one snippet's builtin-usage record. The per-name counts are
// a MAP column so the schema stays stable across the large builtin set;
// names with zero occurrences carry no key.
type BuiltinRow struct {
	ChunkID string           `parquet:"chunk_id"`
	Counts  map[string]int64 `parquet:"counts"`
}

// LibraryRow is one (snippet, library, bucket, component) occurrence count
// in long form.
type LibraryRow struct {
	ChunkID       string `parquet:"chunk_id"`
	LibraryName   string `parquet:"library_name"`
	ComponentType string `parquet:"component_type"`
	Component     string `parquet:"component"`
	Count         int64  `parquet:"count"`
}

// StructuralRows converts pipeline results to rows, sorted by chunk id so
// that parallel execution order never leaks into the output.
func StructuralRows(results []orchestrator.Result) []StructuralRow {
	rows := make([]StructuralRow, 0, len(results))
	for _, r := range results {
		if r.Structural == nil {
			continue
		}
		rows = append(rows, StructuralRow{
			ChunkID:     r.ChunkID,
			Calls:       int64(r.Structural.Calls),
			Assignments: int64(r.Structural.Assignments),
			Attributes:  int64(r.Structural.Attributes),
			Size:        int64(r.Structural.Size),
			IsNotebook:  r.Structural.IsNotebook,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ChunkID < rows[j].ChunkID })
	return rows
}

// BuiltinRows converts pipeline results to rows, sorted by chunk id.
func BuiltinRows(results []orchestrator.Result) []BuiltinRow {
	rows := make([]BuiltinRow, 0, len(results))
	for _, r := range results {
		if r.Builtins == nil {
			continue
		}
		counts := make(map[string]int64, len(r.Builtins))
		for name, n := range r.Builtins {
			counts[name] = int64(n)
		}
		rows = append(rows, BuiltinRow{ChunkID: r.ChunkID, Counts: counts})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ChunkID < rows[j].ChunkID })
	return rows
}

// LibraryRows melts the sparse library counts into long-form rows with a
// fully deterministic order.
func LibraryRows(results []orchestrator.Result) []LibraryRow {
	var rows []LibraryRow
	for _, r := range results {
		for library, buckets := range r.Library {
			for bucket, components := range buckets {
				for component, count := range components {
					rows = append(rows, LibraryRow{
						ChunkID:       r.ChunkID,
						LibraryName:   library,
						ComponentType: bucket,
						Component:     component,
						Count:         int64(count),
					})
				}
			}
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.ChunkID != b.ChunkID {
			return a.ChunkID < b.ChunkID
		}
		if a.LibraryName != b.LibraryName {
			return a.LibraryName < b.LibraryName
		}
		if a.ComponentType != b.ComponentType {
			return a.ComponentType < b.ComponentType
		}
		return a.Component < b.Component
	})
	return rows
}
