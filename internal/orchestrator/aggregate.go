package orchestrator

// Duplicate records a chunk identifier contributed by more than one source.
type Duplicate struct {
	ChunkID string
	First   string // file that first contributed the identifier
	Again   string // file that repeated it
}

// Aggregator merges per-file result collections into one dataset keyed by
// chunk identifier. Duplicate identifiers are a data-quality anomaly: the
// first occurrence is kept and every repeat is recorded, never silently
// dropped.
type Aggregator struct {
	results map[string]Result
	source  map[string]string
	dups    []Duplicate
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		results: make(map[string]Result),
		source:  make(map[string]string),
	}
}

// AddFile merges one file's results into the run dataset.
func (a *Aggregator) AddFile(file string, results []Result) {
	for _, r := range results {
		if first, seen := a.source[r.ChunkID]; seen {
			a.dups = append(a.dups, Duplicate{ChunkID: r.ChunkID, First: first, Again: file})
			continue
		}
		a.source[r.ChunkID] = file
		a.results[r.ChunkID] = r
	}
}

// Results returns the merged dataset keyed by chunk identifier.
func (a *Aggregator) Results() map[string]Result {
	return a.results
}

// Duplicates returns every duplicate identifier seen so far, in the order
// they were encountered.
func (a *Aggregator) Duplicates() []Duplicate {
	return a.dups
}
