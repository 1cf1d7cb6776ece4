package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/corpusstats/internal/apidict"
	"github.com/dusk-indust/corpusstats/internal/counter"
)

const (
	testID     = "ktu8qfsr2gv4myex6canjhblpz3dwoi75esatarm"
	otherID    = "aaaa1111bbbb2222cc33d4e5f6a7b8c9d0e1f2a3"
	testSource = "a = 1 + 2; b = a * 3; c = b.attr; d = e.func()"
)

// writeDump builds a dump file: a constant-width header row followed by
// records joined with the boundary pattern.
func writeDump(t *testing.T, records ...string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(strings.Repeat("h", 30))
	for i, rec := range records {
		if i > 0 {
			b.WriteString(`",false,123`)
		}
		b.WriteString(rec)
	}
	path := filepath.Join(t.TempDir(), "dump_001.txt")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func testPipeline(family Family, dict apidict.Dictionary) *Pipeline {
	return NewPipeline(Config{
		Family:   family,
		Workers:  2,
		MaxDepth: 200,
	}, dict, nil)
}

// ---------------------------------------------------------------------------
// ProcessFile
// ---------------------------------------------------------------------------

func TestProcessFile_Structural(t *testing.T) {
	path := writeDump(t, testID+`,38,"`+testSource)

	p := testPipeline(FamilyStructural, nil)
	defer p.Close()

	results, err := p.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, testID, r.ChunkID)
	require.NotNil(t, r.Structural)
	assert.Equal(t, counter.StructuralCounts{
		Calls:       1,
		Assignments: 4,
		Attributes:  2,
		Size:        46,
		IsNotebook:  false,
	}, *r.Structural)
}

func TestProcessFile_Builtin(t *testing.T) {
	path := writeDump(t, testID+`,20,"print(len(items))`)

	p := testPipeline(FamilyBuiltin, nil)
	defer p.Close()

	results, err := p.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, map[string]int{"print": 1, "len": 1}, results[0].Builtins)
}

func TestProcessFile_Library(t *testing.T) {
	dict := apidict.Dictionary{
		"math": {apidict.TypeFunction: []string{"sqrt"}},
	}
	path := writeDump(t, testID+`,30,"import math`+"\n"+`x = math.sqrt(16)`)

	p := testPipeline(FamilyLibrary, dict)
	defer p.Close()

	results, err := p.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, counter.LibraryCounts{
		"math": {apidict.TypeFunction: {"sqrt": 1}},
	}, results[0].Library)
}

func TestProcessFile_SkipsInvalidRecords(t *testing.T) {
	path := writeDump(t,
		"garbage without a header",
		testID+`,10,"x = 1`,
	)

	p := testPipeline(FamilyStructural, nil)
	defer p.Close()

	results, err := p.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, results, 1, "the invalid record yields no output")
	assert.Equal(t, testID, results[0].ChunkID)
}

func TestProcessFile_UnparseableRecordReadsZero(t *testing.T) {
	path := writeDump(t, testID+`,12,"def broken(:`)

	p := testPipeline(FamilyStructural, nil)
	defer p.Close()

	results, err := p.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, results, 1, "unparseable input still occupies a result slot")
	assert.Equal(t, counter.StructuralCounts{Size: 12}, *results[0].Structural)
}

func TestProcessFile_MissingFileIsFatal(t *testing.T) {
	p := testPipeline(FamilyStructural, nil)
	defer p.Close()

	_, err := p.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestProcessFile_ManyRecords(t *testing.T) {
	// More records than workers, to exercise the pool limit.
	records := make([]string, 20)
	ids := make(map[string]bool, 20)
	for i := range records {
		id := strings.Repeat(string(rune('a'+i%26)), 40)
		records[i] = id + `,10,"x = ` + strings.Repeat("1", i+1)
		ids[id] = true
	}

	p := testPipeline(FamilyStructural, nil)
	defer p.Close()

	results, err := p.ProcessFile(context.Background(), writeDump(t, records...))
	require.NoError(t, err)
	require.Len(t, results, len(ids), "results are keyed by identifier, not position")
	for _, r := range results {
		assert.True(t, ids[r.ChunkID])
	}
}

// ---------------------------------------------------------------------------
// Family
// ---------------------------------------------------------------------------

func TestFamilyValid(t *testing.T) {
	assert.True(t, FamilyBuiltin.Valid())
	assert.True(t, FamilyStructural.Valid())
	assert.True(t, FamilyLibrary.Valid())
	assert.False(t, Family("charts").Valid())
}
