// Package corpus isolates snippet records from flat-text corpus dumps and
// normalizes them into parseable Python source.
package corpus

import (
	"regexp"
	"strings"
)

// recordBoundary matches the trailing fields of a dump CSV row. Everything
// between two boundaries is one raw record.
var recordBoundary = regexp.MustCompile(`",false,\d+`)

// dumpHeaderLen is the constant-width header row every dump file starts with.
const dumpHeaderLen = 30

// SplitDump divides a raw dump into individual record substrings. NUL bytes
// are stripped first, then the constant-width file header is skipped, then
// the text is split on the record boundary pattern.
//
// SplitDump is a pure function: re-splitting the same text always yields the
// same sequence. A dump with zero boundaries yields a single (possibly
// invalid) record.
func SplitDump(text string) []string {
	text = strings.ReplaceAll(text, "\x00", "")
	if len(text) >= dumpHeaderLen {
		text = text[dumpHeaderLen:]
	} else {
		text = ""
	}
	return recordBoundary.Split(text, -1)
}
