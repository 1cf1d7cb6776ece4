package corpus

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// notebookDocument mirrors the cell layout of a notebook export. Only the
// fields needed for code extraction are decoded.
type notebookDocument struct {
	Cells []notebookCell `json:"cells"`
}

type notebookCell struct {
	CellType string   `json:"cell_type"`
	Source   []string `json:"source"`
}

// IsNotebook reports whether text contains a notebook export. Detection is a
// cheap substring probe, not a JSON parse.
func IsNotebook(text string) bool {
	return strings.Contains(text, `"cell_type": "code"`) ||
		strings.Contains(text, `"cell_type": "markdown"`)
}

// ExtractNotebookCode parses text as a notebook document and concatenates
// the source lines of every code cell, appending one newline per cell.
// Lines beginning with a magic directive marker are skipped. A malformed
// document degrades to an empty extraction rather than failing the record.
func ExtractNotebookCode(text string) string {
	var doc notebookDocument
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		slog.Debug("notebook parsing error", "err", err)
		return ""
	}

	var extracted strings.Builder
	for _, cell := range doc.Cells {
		if cell.CellType != "code" {
			continue
		}
		if len(cell.Source) == 1 && cell.Source[0] == "" {
			continue
		}
		for _, line := range cell.Source {
			if strings.HasPrefix(line, "%") {
				continue
			}
			extracted.WriteString(line)
		}
		extracted.WriteString("\n")
	}
	return extracted.String()
}
