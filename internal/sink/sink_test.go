package sink

import (
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/corpusstats/internal/counter"
	"github.com/dusk-indust/corpusstats/internal/orchestrator"
)

const (
	idA = "aaaa1111bbbb2222cc33d4e5f6a7b8c9d0e1f2a3"
	idB = "bbbb1111bbbb2222cc33d4e5f6a7b8c9d0e1f2a3"
)

func TestStructuralRows(t *testing.T) {
	results := []orchestrator.Result{
		{ChunkID: idB, Structural: &counter.StructuralCounts{Calls: 2, Size: 10}},
		{ChunkID: idA, Structural: &counter.StructuralCounts{Assignments: 1, IsNotebook: true}},
	}

	rows := StructuralRows(results)

	require.Len(t, rows, 2)
	assert.Equal(t, idA, rows[0].ChunkID, "rows are sorted by chunk id")
	assert.True(t, rows[0].IsNotebook)
	assert.Equal(t, int64(2), rows[1].Calls)
}

func TestBuiltinRows(t *testing.T) {
	results := []orchestrator.Result{
		{ChunkID: idA, Builtins: map[string]int{"len": 3, "print": 1}},
		{ChunkID: idB, Builtins: map[string]int{}},
	}

	rows := BuiltinRows(results)

	require.Len(t, rows, 2)
	assert.Equal(t, map[string]int64{"len": 3, "print": 1}, rows[0].Counts)
	assert.Empty(t, rows[1].Counts, "zero occurrences carry no keys")
}

func TestLibraryRows(t *testing.T) {
	results := []orchestrator.Result{
		{ChunkID: idB, Library: counter.LibraryCounts{
			"math": {"function": {"sqrt": 1}},
		}},
		{ChunkID: idA, Library: counter.LibraryCounts{
			"os": {
				"from_import_function": {"getcwd": 2, "system": 1},
			},
		}},
	}

	rows := LibraryRows(results)

	require.Len(t, rows, 3)
	// Deterministic long-form order: chunk, library, bucket, component.
	assert.Equal(t, LibraryRow{idA, "os", "from_import_function", "getcwd", 2}, rows[0])
	assert.Equal(t, LibraryRow{idA, "os", "from_import_function", "system", 1}, rows[1])
	assert.Equal(t, LibraryRow{idB, "math", "function", "sqrt", 1}, rows[2])
}

func TestWriteAndConcatenate(t *testing.T) {
	dir := t.TempDir()
	partA := []StructuralRow{{ChunkID: idA, Calls: 1, Size: 46}}
	partB := []StructuralRow{{ChunkID: idB, Assignments: 4}}

	require.NoError(t, Write(filepath.Join(dir, "metadata_001.parquet"), partA))
	require.NoError(t, Write(filepath.Join(dir, "metadata_002.parquet"), partB))

	final := filepath.Join(t.TempDir(), "metadata.parquet")
	require.NoError(t, Concatenate[StructuralRow](dir, final))

	rows, err := parquet.ReadFile[StructuralRow](final)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, partA[0], rows[0])
	assert.Equal(t, partB[0], rows[1])
}
