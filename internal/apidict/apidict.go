// Package apidict loads the precomputed library API dictionary: for every
// catalogued library, the names of its components bucketed by type. The
// dictionary is produced by an external scraper, loaded once per run, and
// shared read-only across all workers.
package apidict

import (
	"encoding/json"
	"fmt"
	"os"
)

// Component type buckets as catalogued by the scraper.
const (
	TypeClass     = "class"
	TypeMethod    = "method"
	TypeFunction  = "function"
	TypeAttribute = "attribute"
	TypeException = "exception"
)

// Components maps a component type bucket to the set of component names in
// that bucket.
type Components map[string][]string

// Dictionary maps a library name to its component buckets.
type Dictionary map[string]Components

// Load reads the dictionary from its serialized JSON form. An unreadable
// dictionary is a fatal run condition; callers must abort before starting
// any worker.
func Load(path string) (Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read library dictionary %s: %w", path, err)
	}
	var dict Dictionary
	if err := json.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("decode library dictionary %s: %w", path, err)
	}
	return dict, nil
}
