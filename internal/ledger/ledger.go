// Package ledger maintains the Markdown release ledger published alongside
// the chart repository. The ledger is a plain text document where each
// published release appears as one bullet line of the form "* [tag](uri)",
// newest release first. Non-entry lines (headings, prose, blanks) are
// preserved verbatim and never reordered.
package ledger

import (
	"strings"

	"github.com/chartpress/chartpress/schema"
)

// bulletMarker is both the entry-line sentinel and the placeholder appended
// to guarantee the insertion pass always has a match target.
const bulletMarker = "*"

// Update transforms the full ledger text so that it contains exactly one
// entry line for entry.Tag, positioned as the first entry line in the
// document. It is a pure function; reading and writing the ledger file is
// the caller's responsibility. A missing file should be passed as an empty
// document (see Seed).
//
// The transform runs four ordered passes:
//  1. drop every line containing the tag as a substring
//  2. append a bare "*" placeholder when no entry line exists
//  3. insert the new entry line before the first entry line
//  4. strip all bare "*" lines
//
// Note the deduplication in pass 1 matches the tag anywhere in a line, not
// only inside well-formed entry lines. Prose that mentions the tag string
// is removed too. This matches the historical behavior of the deployment
// scripts this replaces; do not tighten it without a migration plan.
func Update(doc string, entry schema.ReleaseEntry) string {
	lines := SplitLines(doc)

	// Pass 1: deduplicate. Guard against an empty tag, which would match
	// (and delete) every line in the document.
	if entry.Tag != "" {
		kept := make([]string, 0, len(lines))
		for _, line := range lines {
			if strings.Contains(line, entry.Tag) {
				continue
			}
			kept = append(kept, line)
		}
		lines = kept
	}

	// Pass 2: ensure the insertion pass has an anchor even on a ledger
	// with zero entries.
	if !hasEntryLine(lines) {
		lines = append(lines, bulletMarker)
	}

	// Pass 3: insert the new entry immediately before the first entry
	// line, leaving any preceding non-entry lines untouched above it.
	out := make([]string, 0, len(lines)+1)
	inserted := false
	for _, line := range lines {
		if !inserted && IsEntryLine(line) {
			out = append(out, entry.Markdown())
			inserted = true
		}
		out = append(out, line)
	}
	if !inserted {
		out = append(out, entry.Markdown())
	}

	// Pass 4: strip the placeholder and any other stray bare bullets.
	final := make([]string, 0, len(out))
	for _, line := range out {
		if line == bulletMarker {
			continue
		}
		final = append(final, line)
	}

	return JoinLines(final)
}

// Seed returns the initial document for a ledger file that does not exist
// yet. A non-empty preamble becomes the first line of the new ledger.
func Seed(preamble string) string {
	if preamble == "" {
		return ""
	}
	return preamble + "\n"
}

// IsEntryLine reports whether the line starts an entry (a bullet marker,
// possibly followed by other characters).
func IsEntryLine(line string) bool {
	return strings.HasPrefix(line, bulletMarker)
}

// hasEntryLine reports whether any line in the sequence is an entry line.
func hasEntryLine(lines []string) bool {
	for _, line := range lines {
		if IsEntryLine(line) {
			return true
		}
	}
	return false
}

// Entries returns the entry lines of a document in order. Useful for
// callers that want to report the ledger state after an update.
func Entries(doc string) []string {
	var entries []string
	for _, line := range SplitLines(doc) {
		if IsEntryLine(line) {
			entries = append(entries, line)
		}
	}
	return entries
}

// SplitLines splits a document into lines without a trailing phantom line.
// An empty document yields no lines.
func SplitLines(doc string) []string {
	if doc == "" {
		return nil
	}
	doc = strings.TrimSuffix(doc, "\n")
	return strings.Split(doc, "\n")
}

// JoinLines is the inverse of SplitLines: a non-empty sequence is joined
// with newlines and terminated with one.
func JoinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
