package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds run-level settings loaded from corpusstats.yml.
type Config struct {
	// InputDir contains the *.txt dump files to process.
	InputDir string `yaml:"inputDir,omitempty"`

	// OutputDir receives one Parquet file per dump file.
	OutputDir string `yaml:"outputDir,omitempty"`

	// FinalDir receives the concatenated per-run dataset.
	FinalDir string `yaml:"finalDir,omitempty"`

	// Dictionary is the path to the library API dictionary JSON file.
	// Required only for library-usage runs.
	Dictionary string `yaml:"dictionary,omitempty"`

	// Workers is the per-file worker pool size. Defaults to the CPU count.
	Workers int `yaml:"workers,omitempty"`

	// MaxDepth is the syntax-tree recursion ceiling for pathological input.
	MaxDepth int `yaml:"maxDepth,omitempty"`

	Normalize NormalizeConfig `yaml:"normalize,omitempty"`
	Log       LogConfig       `yaml:"log,omitempty"`
}

// NormalizeConfig controls snippet normalization policy.
type NormalizeConfig struct {
	// Blocklist holds chunk identifiers that are always normalized to an
	// empty snippet. When empty, the built-in default list is used.
	Blocklist []string `yaml:"blocklist,omitempty"`
}

// LogConfig selects the slog handler and level.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // json or text
}

// DefaultMaxDepth matches the recursion limit the corpus was originally
// profiled against.
const DefaultMaxDepth = 3000

// Load attempts to read corpusstats.yml or corpusstats.yaml from the given
// directory. Returns a default-populated config (not an error) if no config
// file exists.
func Load(dir string) (*Config, error) {
	for _, name := range []string{"corpusstats.yml", "corpusstats.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		cfg.ApplyDefaults()
		return &cfg, nil
	}
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills zero-valued fields with usable defaults.
func (c *Config) ApplyDefaults() {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks the paths that must exist before any worker starts.
// A missing input directory is one of the two fatal run conditions.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("inputDir is required")
	}
	info, err := os.Stat(c.InputDir)
	if err != nil {
		return fmt.Errorf("input directory %s: %w", c.InputDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input path %s is not a directory", c.InputDir)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("outputDir is required")
	}
	if c.FinalDir == "" {
		return fmt.Errorf("finalDir is required")
	}
	return nil
}
