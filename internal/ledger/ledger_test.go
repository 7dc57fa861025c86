package ledger

import (
	"strings"
	"testing"

	"github.com/chartpress/chartpress/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdate(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		entry    schema.ReleaseEntry
		expected []string
	}{
		{
			name:     "empty document",
			doc:      "",
			entry:    schema.ReleaseEntry{Tag: "v1.0.0", URI: "https://example.com/releases/tag/v1.0.0"},
			expected: []string{"* [v1.0.0](https://example.com/releases/tag/v1.0.0)"},
		},
		{
			name:     "preamble only ledger",
			doc:      "# Releases\n",
			entry:    schema.ReleaseEntry{Tag: "v1.0.0", URI: "u1"},
			expected: []string{"# Releases", "* [v1.0.0](u1)"},
		},
		{
			name:     "distinct tags coexist newest first",
			doc:      "* [v1.0.0](u1)\n",
			entry:    schema.ReleaseEntry{Tag: "v2.0.0", URI: "u2"},
			expected: []string{"* [v2.0.0](u2)", "* [v1.0.0](u1)"},
		},
		{
			name:     "re-release replaces not duplicates",
			doc:      "# Releases\n* [v1.0.0](uri-old)\n",
			entry:    schema.ReleaseEntry{Tag: "v1.0.0", URI: "uri-new"},
			expected: []string{"# Releases", "* [v1.0.0](uri-new)"},
		},
		{
			name:     "existing entries keep relative order",
			doc:      "# Releases\n* [v2.0.0](u2)\n* [v1.0.0](u1)\n",
			entry:    schema.ReleaseEntry{Tag: "v3.0.0", URI: "u3"},
			expected: []string{"# Releases", "* [v3.0.0](u3)", "* [v2.0.0](u2)", "* [v1.0.0](u1)"},
		},
		{
			name:     "stale entry in the middle is removed",
			doc:      "* [v3.0.0](u3)\n* [v1.0.0](u1-old)\n* [v0.9.0](u09)\n",
			entry:    schema.ReleaseEntry{Tag: "v1.0.0", URI: "u1-new"},
			expected: []string{"* [v1.0.0](u1-new)", "* [v3.0.0](u3)", "* [v0.9.0](u09)"},
		},
		{
			name:     "stray bare bullets are dropped",
			doc:      "# Releases\n*\n* [v1.0.0](u1)\n*\n",
			entry:    schema.ReleaseEntry{Tag: "v2.0.0", URI: "u2"},
			expected: []string{"# Releases", "* [v2.0.0](u2)", "* [v1.0.0](u1)"},
		},
		{
			name:     "prose mentioning the tag is removed too",
			doc:      "# Releases\nSee v1.0.0 notes below.\n* [v1.0.0](u1)\n",
			entry:    schema.ReleaseEntry{Tag: "v1.0.0", URI: "u1"},
			expected: []string{"# Releases", "* [v1.0.0](u1)"},
		},
		{
			name:     "blank lines above entries stay put",
			doc:      "# Releases\n\n* [v1.0.0](u1)\n",
			entry:    schema.ReleaseEntry{Tag: "v2.0.0", URI: "u2"},
			expected: []string{"# Releases", "", "* [v2.0.0](u2)", "* [v1.0.0](u1)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Update(tt.doc, tt.entry)
			assert.Equal(t, tt.expected, SplitLines(got))
		})
	}
}

// TestUpdateIdempotent verifies that re-deploying the same release leaves
// exactly one entry line for the tag, no matter how often it runs.
func TestUpdateIdempotent(t *testing.T) {
	entry := schema.ReleaseEntry{Tag: "v1.2.3", URI: "https://example.com/releases/tag/v1.2.3"}
	doc := "# Releases\n* [v1.0.0](u1)\n"

	first := Update(doc, entry)
	second := Update(first, entry)
	third := Update(second, entry)

	assert.Equal(t, first, second)
	assert.Equal(t, second, third)

	count := 0
	for _, line := range SplitLines(third) {
		if strings.Contains(line, entry.Tag) {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

// TestUpdateNoBareBullets verifies the output never contains a bare bullet
// marker, regardless of how degenerate the input is.
func TestUpdateNoBareBullets(t *testing.T) {
	docs := []string{
		"",
		"*\n",
		"*\n*\n*\n",
		"# Releases\n*\n",
		"* [v0.1.0](u)\n*\n",
	}
	entry := schema.ReleaseEntry{Tag: "v1.0.0", URI: "u1"}

	for _, doc := range docs {
		for _, line := range SplitLines(Update(doc, entry)) {
			assert.NotEqual(t, "*", line, "input %q produced a bare bullet", doc)
		}
	}
}

// TestUpdateNewEntryIsFirst verifies the ordering invariant: the fresh
// entry is always the first entry line among all entry lines.
func TestUpdateNewEntryIsFirst(t *testing.T) {
	doc := "# Charts\n\nSome prose.\n* [v2.0.0](u2)\n* [v1.0.0](u1)\n"
	entry := schema.ReleaseEntry{Tag: "v3.0.0", URI: "u3"}

	entries := Entries(Update(doc, entry))
	require.NotEmpty(t, entries)
	assert.Equal(t, entry.Markdown(), entries[0])
	assert.Equal(t, []string{"* [v3.0.0](u3)", "* [v2.0.0](u2)", "* [v1.0.0](u1)"}, entries)
}

// TestUpdateEmptyTag guards the caller contract: an empty tag must not wipe
// the document via substring matching.
func TestUpdateEmptyTag(t *testing.T) {
	doc := "# Releases\n* [v1.0.0](u1)\n"
	got := Update(doc, schema.ReleaseEntry{Tag: "", URI: "u"})
	assert.Contains(t, got, "* [v1.0.0](u1)")
}

func TestSeed(t *testing.T) {
	assert.Equal(t, "", Seed(""))
	assert.Equal(t, "# Releases\n", Seed("# Releases"))
}

func TestSplitJoinLines(t *testing.T) {
	t.Run("empty document has no lines", func(t *testing.T) {
		assert.Nil(t, SplitLines(""))
		assert.Equal(t, "", JoinLines(nil))
	})

	t.Run("round trip preserves content", func(t *testing.T) {
		doc := "a\n\nb\n"
		assert.Equal(t, doc, JoinLines(SplitLines(doc)))
	})

	t.Run("missing trailing newline is normalized", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b"}, SplitLines("a\nb"))
	})
}

func TestEntries(t *testing.T) {
	doc := "# Releases\n* [v2.0.0](u2)\nprose\n* [v1.0.0](u1)\n"
	assert.Equal(t, []string{"* [v2.0.0](u2)", "* [v1.0.0](u1)"}, Entries(doc))
	assert.Nil(t, Entries("# Releases\n"))
}
