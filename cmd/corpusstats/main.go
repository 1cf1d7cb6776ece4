package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dusk-indust/corpusstats/internal/apidict"
	"github.com/dusk-indust/corpusstats/internal/config"
	"github.com/dusk-indust/corpusstats/internal/logging"
	"github.com/dusk-indust/corpusstats/internal/orchestrator"
	"github.com/dusk-indust/corpusstats/internal/sink"
)

// CLI flags parsed from command line.
type cliFlags struct {
	ConfigDir  string
	Family     string
	InputDir   string
	OutputDir  string
	FinalDir   string
	Dictionary string
	Workers    int
	Verbose    bool
	Version    bool
}

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var flags cliFlags

	fs := flag.NewFlagSet("corpusstats", flag.ContinueOnError)
	fs.StringVar(&flags.ConfigDir, "config-dir", ".", "directory containing corpusstats.yml")
	fs.StringVar(&flags.Family, "family", "structural", "counter family: builtin, structural, or library")
	fs.StringVar(&flags.InputDir, "input-dir", "", "directory containing *.txt dump files")
	fs.StringVar(&flags.OutputDir, "output-dir", "", "directory for per-file parquet outputs")
	fs.StringVar(&flags.FinalDir, "final-dir", "", "directory for the concatenated dataset")
	fs.StringVar(&flags.Dictionary, "dict", "", "path to the library API dictionary JSON")
	fs.IntVar(&flags.Workers, "workers", 0, "worker pool size per dump file (0 = CPU count)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "print per-file progress")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Println(version)
		return nil
	}

	cfg, err := config.Load(flags.ConfigDir)
	if err != nil {
		return err
	}
	applyFlags(cfg, flags)

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	family := orchestrator.Family(flags.Family)
	if !family.Valid() {
		return fmt.Errorf("unknown counter family %q", flags.Family)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Both fatal conditions are checked before any worker starts: input
	// files below, and the dictionary here.
	var dict apidict.Dictionary
	if family == orchestrator.FamilyLibrary {
		if cfg.Dictionary == "" {
			return fmt.Errorf("library-usage runs require a dictionary path")
		}
		dict, err = apidict.Load(cfg.Dictionary)
		if err != nil {
			return err
		}
	}

	files, err := filepath.Glob(filepath.Join(cfg.InputDir, "*.txt"))
	if err != nil {
		return fmt.Errorf("list dump files in %s: %w", cfg.InputDir, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no dump files found in %s", cfg.InputDir)
	}
	sort.Strings(files)

	pipeline := orchestrator.NewPipeline(orchestrator.Config{
		Family:    family,
		Workers:   cfg.Workers,
		MaxDepth:  cfg.MaxDepth,
		Blocklist: cfg.Normalize.Blocklist,
	}, dict, logger)
	defer pipeline.Close()

	if flags.Verbose {
		go func() {
			for ev := range pipeline.Progress() {
				fmt.Println(orchestrator.FormatProgress(ev))
			}
		}()
	}

	// The outer loop over dump files is sequential so result-aggregation
	// memory stays bounded to one file at a time.
	ctx := context.Background()
	agg := orchestrator.NewAggregator()
	for _, file := range files {
		results, err := pipeline.ProcessFile(ctx, file)
		if err != nil {
			return err
		}
		agg.AddFile(file, results)

		out := filepath.Join(cfg.OutputDir, perFileName(family, file))
		if err := writeResults(family, out, results); err != nil {
			return err
		}
	}

	for _, d := range agg.Duplicates() {
		logger.Warn("duplicate chunk identifier",
			"chunk", d.ChunkID, "first", d.First, "again", d.Again)
	}

	final := filepath.Join(cfg.FinalDir, finalName(family))
	if err := concatenate(family, cfg.OutputDir, final); err != nil {
		return err
	}
	logger.Info("run complete",
		"family", string(family), "snippets", len(agg.Results()), "output", final)

	return nil
}

// applyFlags overlays non-zero CLI flags onto the loaded config.
func applyFlags(cfg *config.Config, flags cliFlags) {
	if flags.InputDir != "" {
		cfg.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		cfg.OutputDir = flags.OutputDir
	}
	if flags.FinalDir != "" {
		cfg.FinalDir = flags.FinalDir
	}
	if flags.Dictionary != "" {
		cfg.Dictionary = flags.Dictionary
	}
	if flags.Workers > 0 {
		cfg.Workers = flags.Workers
	}
}

// perFileName names a per-dump-file output after the dump's trailing
// three-character suffix, e.g. dump_001.txt → metadata_001.parquet.
func perFileName(family orchestrator.Family, dumpPath string) string {
	base := strings.TrimSuffix(filepath.Base(dumpPath), ".txt")
	suffix := base
	if len(base) > 3 {
		suffix = base[len(base)-3:]
	}
	switch family {
	case orchestrator.FamilyBuiltin:
		return fmt.Sprintf("builtin_counts_%s.parquet", suffix)
	case orchestrator.FamilyLibrary:
		return fmt.Sprintf("library_counts_%s.parquet", suffix)
	default:
		return fmt.Sprintf("metadata_%s.parquet", suffix)
	}
}

// finalName is the concatenated dataset name per family.
func finalName(family orchestrator.Family) string {
	switch family {
	case orchestrator.FamilyBuiltin:
		return "functions_counts.parquet"
	case orchestrator.FamilyLibrary:
		return "library_counts.parquet"
	default:
		return "metadata.parquet"
	}
}

func writeResults(family orchestrator.Family, path string, results []orchestrator.Result) error {
	switch family {
	case orchestrator.FamilyBuiltin:
		return sink.Write(path, sink.BuiltinRows(results))
	case orchestrator.FamilyLibrary:
		return sink.Write(path, sink.LibraryRows(results))
	default:
		return sink.Write(path, sink.StructuralRows(results))
	}
}

func concatenate(family orchestrator.Family, inputDir, outPath string) error {
	switch family {
	case orchestrator.FamilyBuiltin:
		return sink.Concatenate[sink.BuiltinRow](inputDir, outPath)
	case orchestrator.FamilyLibrary:
		return sink.Concatenate[sink.LibraryRow](inputDir, outPath)
	default:
		return sink.Concatenate[sink.StructuralRow](inputDir, outPath)
	}
}
