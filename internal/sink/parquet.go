package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/parquet-go/parquet-go"
)

// Write stores rows as a snappy-compressed Parquet file, creating the
// target directory if needed.
func Write[T any](path string, rows []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := parquet.NewGenericWriter[T](f, parquet.Compression(&parquet.Snappy))
	if _, err := w.Write(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close parquet writer %s: %w", path, err)
	}
	return f.Close()
}

// Concatenate reads every *.parquet file in inputDir (in name order) and
// writes their rows as one combined file at outPath.
func Concatenate[T any](inputDir, outPath string) error {
	files, err := filepath.Glob(filepath.Join(inputDir, "*.parquet"))
	if err != nil {
		return fmt.Errorf("list parquet files in %s: %w", inputDir, err)
	}
	sort.Strings(files)

	var rows []T
	for _, file := range files {
		part, err := parquet.ReadFile[T](file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}
		rows = append(rows, part...)
	}

	return Write(outPath, rows)
}
