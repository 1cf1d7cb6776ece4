package corpus

import (
	"regexp"
	"strings"
)

// recordHeader matches the mandatory `<40-hex-id>,<size>,"` prefix of a
// valid record.
var recordHeader = regexp.MustCompile(`[a-z0-9]{40},\d+,"`)

// Snippet is one cleaned unit of source code extracted from a dump record.
type Snippet struct {
	// ChunkID is the 40-hex-character identifier naming the snippet across
	// the corpus. Empty for invalid records.
	ChunkID string

	// Text is the normalized source text.
	Text string

	// IsNotebook reports whether the record was a notebook export whose
	// code cells were extracted into Text.
	IsNotebook bool
}

// Valid reports whether the record carried a well-formed header. Invalid
// records yield no output downstream.
func (s Snippet) Valid() bool {
	return s.ChunkID != ""
}

// DefaultBlocklist holds chunk identifiers known to produce degenerate
// output; they are always normalized to an empty snippet. The list is a
// deliberate data-quality policy carried over from corpus triage, not a
// derived rule.
var DefaultBlocklist = []string{
	"d85626964c4991f63f841afe6a28564559f8c4e5",
	"18d8b80f6f1e1d497d2356f1018756a0f6888320",
	"54e8c1952323686e1779c21fcbfd4c857add857e",
	"3bdb277771a4c7ed55385846bc133b0768a17bba",
	"21b296cde51a9f8d6667f6fd5a81e9125a59316e",
	"639acd34b2ae7cf9dbf93cb6c9a22552d4202a37",
	"051a03a391f81f5eb0fe3dfc1f7d39ca96a499f6",
	"c9a5a8ef568b6c867f1e84d84fcc1a6463a77637",
}

// Normalizer turns raw records into Snippets. The zero value uses no
// blocklist; NewNormalizer seeds one from a list of identifiers.
type Normalizer struct {
	blocklist map[string]struct{}
}

// NewNormalizer builds a Normalizer suppressing the given chunk identifiers.
func NewNormalizer(blocklist []string) *Normalizer {
	set := make(map[string]struct{}, len(blocklist))
	for _, id := range blocklist {
		set[id] = struct{}{}
	}
	return &Normalizer{blocklist: set}
}

// Normalize derives a Snippet from one raw record. It is total: no input
// can make it fail. Records without a valid header, or with an empty body,
// come back invalid. Blocklisted identifiers come back valid but empty.
func (n *Normalizer) Normalize(record string) Snippet {
	body, id := extractRecord(record)
	if body == "" {
		return Snippet{}
	}

	text := n.cleanup(body, id)

	isNotebook := IsNotebook(text)
	if isNotebook {
		text = ExtractNotebookCode(text)
	}

	return Snippet{ChunkID: id, Text: text, IsNotebook: isNotebook}
}

// extractRecord locates the record header and strips it from the body.
// Returns ("", "") when the header is absent.
func extractRecord(record string) (body, chunkID string) {
	header := recordHeader.FindString(record)
	if header == "" {
		return "", ""
	}
	chunkID = header[:strings.IndexByte(header, ',')]
	return strings.ReplaceAll(record, header, ""), chunkID
}

// cleanup reverses the dump's CSV-style quote escaping and removes
// version-control conflict markers. Blocklisted identifiers map to an empty
// snippet regardless of body content.
func (n *Normalizer) cleanup(body, chunkID string) string {
	if _, blocked := n.blocklist[chunkID]; blocked {
		return ""
	}
	body = strings.ReplaceAll(body, `""`, `"`)
	return RemoveConflictMarkers(body)
}

// RemoveConflictMarkers drops the lines of version-control conflict regions:
// everything from a `<<<<<<<` line through the matching `=======` line, plus
// any `>>>>>>>` terminator line. Lines outside a conflict region pass
// through unchanged. The operation is idempotent.
func RemoveConflictMarkers(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	inConflict := false

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "<<<<<<<"):
			inConflict = true
			continue
		case strings.HasPrefix(line, "======="):
			inConflict = false
			continue
		case strings.HasPrefix(line, ">>>>>>>"):
			continue
		}
		if !inConflict {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
