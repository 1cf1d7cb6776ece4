// Package orchestrator fans the record pipeline out over a worker pool, one
// dump file at a time, and merges per-file results into a per-run dataset.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/corpusstats/internal/apidict"
	"github.com/dusk-indust/corpusstats/internal/corpus"
	"github.com/dusk-indust/corpusstats/internal/counter"
	"github.com/dusk-indust/corpusstats/internal/pytree"
)

// Family selects which counter family a pipeline instance produces.
type Family string

const (
	FamilyBuiltin    Family = "builtin"
	FamilyStructural Family = "structural"
	FamilyLibrary    Family = "library"
)

// Valid reports whether f is one of the three counter families.
func (f Family) Valid() bool {
	switch f {
	case FamilyBuiltin, FamilyStructural, FamilyLibrary:
		return true
	}
	return false
}

// Result is the CountRecord of one snippet. Exactly one of the three count
// fields is populated, matching the pipeline's family.
type Result struct {
	ChunkID    string
	Builtins   map[string]int
	Structural *counter.StructuralCounts
	Library    counter.LibraryCounts
}

// Config holds the per-run pipeline settings.
type Config struct {
	// Family is the counter family this pipeline instance produces.
	Family Family

	// Workers is the fixed worker pool size per dump file.
	Workers int

	// MaxDepth is the recursion ceiling for tree building and traversal.
	// Exceeding it terminates that record's traversal only, never the pool.
	MaxDepth int

	// Blocklist holds chunk identifiers normalized to empty snippets.
	// Nil means the default corpus blocklist.
	Blocklist []string

	// Builtins overrides the builtin name set. Nil means the default set.
	Builtins []string
}

// Pipeline executes Normalize → Parse → Count for every record of a dump
// file across a worker pool. The dictionary is read-only shared state; a
// Pipeline is safe to reuse across files.
type Pipeline struct {
	cfg        Config
	normalizer *corpus.Normalizer
	builtins   map[string]struct{}
	dict       apidict.Dictionary
	logger     *slog.Logger
	progress   *ProgressReporter
}

// NewPipeline wires a pipeline for one counter family. dict may be nil for
// non-library families.
func NewPipeline(cfg Config, dict apidict.Dictionary, logger *slog.Logger) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Blocklist == nil {
		cfg.Blocklist = corpus.DefaultBlocklist
	}
	if cfg.Builtins == nil {
		cfg.Builtins = counter.DefaultBuiltins
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		cfg:        cfg,
		normalizer: corpus.NewNormalizer(cfg.Blocklist),
		builtins:   counter.BuiltinSet(cfg.Builtins),
		dict:       dict,
		logger:     logger,
		progress:   NewProgressReporter(),
	}
}

// Progress returns a channel that emits per-file progress events.
func (p *Pipeline) Progress() <-chan ProgressEvent {
	return p.progress.Subscribe()
}

// Close shuts down the progress reporter.
func (p *Pipeline) Close() {
	p.progress.Close()
}

// ProcessFile splits one dump file into records and processes them across
// the worker pool. Result order is unspecified; callers must key by chunk
// identifier, never by position. Only an unreadable file is an error;
// every per-record condition degrades to an empty or partial result.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) ([]Result, error) {
	start := time.Now()
	p.progress.Emit(ProgressEvent{File: path, Status: ProgressWorking})

	data, err := os.ReadFile(path)
	if err != nil {
		p.progress.Emit(ProgressEvent{File: path, Status: ProgressFailed, Message: err.Error()})
		return nil, fmt.Errorf("read dump file %s: %w", path, err)
	}

	records := corpus.SplitDump(string(data))
	results := make([]Result, len(records))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)
	for i, record := range records {
		g.Go(func() error {
			results[i] = p.processRecord(record)
			return nil
		})
	}
	// Workers never return errors; every fault is absorbed per record.
	_ = g.Wait()

	valid := make([]Result, 0, len(results))
	for _, r := range results {
		if r.ChunkID != "" {
			valid = append(valid, r)
		}
	}

	p.logger.Info("processed dump file",
		"file", path,
		"records", len(valid),
		"elapsed", time.Since(start).Round(time.Millisecond))
	p.progress.Emit(ProgressEvent{File: path, Status: ProgressComplete})

	return valid, nil
}

// processRecord runs the whole per-record pipeline synchronously. A panic
// anywhere inside is recovered here so a single record can never take down
// the pool; the record then contributes an empty result.
func (p *Pipeline) processRecord(record string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Debug("record pipeline fault", "chunk", result.ChunkID, "panic", r)
			result = Result{}
		}
	}()

	snippet := p.normalizer.Normalize(record)
	if !snippet.Valid() {
		return Result{}
	}

	tree := pytree.Parse(snippet.Text, p.cfg.MaxDepth)
	if tree.IsEmpty() && strings.TrimSpace(snippet.Text) != "" {
		p.logger.Debug("parse failure", "chunk", snippet.ChunkID)
	}

	result.ChunkID = snippet.ChunkID
	switch p.cfg.Family {
	case FamilyBuiltin:
		counts, complete := counter.Builtins(tree, p.builtins, p.cfg.MaxDepth)
		if !complete {
			p.logger.Debug("traversal depth ceiling reached", "chunk", snippet.ChunkID)
		}
		result.Builtins = counts

	case FamilyStructural:
		counts, complete := counter.Structural(tree, len(snippet.Text), snippet.IsNotebook, p.cfg.MaxDepth)
		if !complete {
			p.logger.Debug("traversal depth ceiling reached", "chunk", snippet.ChunkID)
		}
		result.Structural = &counts

	case FamilyLibrary:
		imports := counter.ExtractImports(tree)
		result.Library = counter.LibraryUsage(snippet.Text, imports, p.dict)
	}

	return result
}
