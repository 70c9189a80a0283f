package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkIDListTolerance(t *testing.T) {
	// Historically the field was written both as a joined string and a list.
	asString := Record{Fields: map[string]any{FieldChunkIDs: "doc1_chunk_0, doc1_chunk_1 ,doc1_chunk_2"}}
	assert.Equal(t, []string{"doc1_chunk_0", "doc1_chunk_1", "doc1_chunk_2"}, asString.ChunkIDList())

	asList := Record{Fields: map[string]any{FieldChunkIDs: []any{"a", "b"}}}
	assert.Equal(t, []string{"a", "b"}, asList.ChunkIDList())

	empty := Record{Fields: map[string]any{}}
	assert.Nil(t, empty.ChunkIDList())

	blank := Record{Fields: map[string]any{FieldChunkIDs: "   "}}
	assert.Nil(t, blank.ChunkIDList())
}

func TestRecordAccessors(t *testing.T) {
	r := Record{Fields: map[string]any{
		"Title":      "Doc",
		"Word Count": float64(42), // numbers decode as float64
		"Themes":     []any{"th1", "th2"},
	}}
	assert.Equal(t, "Doc", r.Str("Title"))
	assert.Equal(t, "", r.Str("Missing"))
	assert.Equal(t, 42, r.Int("Word Count"))
	assert.Equal(t, 0, r.Int("Missing"))
	assert.Equal(t, []string{"th1", "th2"}, r.StrList("Themes"))
	assert.Nil(t, r.StrList("Title"), "scalar field is not a list")
}

func TestAttachmentList(t *testing.T) {
	r := Record{Fields: map[string]any{
		FieldFile: []any{
			map[string]any{"url": "https://x.test/a.pdf", "filename": "a.pdf", "type": "application/pdf", "size": float64(1024)},
			map[string]any{"filename": "no-url.txt"}, // dropped: unusable without a URL
		},
	}}
	atts := r.AttachmentList()
	require.Len(t, atts, 1)
	assert.Equal(t, "https://x.test/a.pdf", atts[0].URL)
	assert.Equal(t, int64(1024), atts[0].Size)
}

func TestDocumentFromRecord(t *testing.T) {
	r := Record{
		ID: "rec1",
		Fields: map[string]any{
			FieldTitle:    "Doc",
			FieldFullText: "  body  ",
			FieldAuthor:   "Jane Doe",
			FieldThemes:   []any{"th1"},
			FieldChunkIDs: "rec1_chunk_0",
			FieldStatus:   StatusIndexed,
		},
	}
	doc := DocumentFromRecord(&r)
	assert.Equal(t, "rec1", doc.ID)
	assert.Equal(t, "body", doc.FullText, "stored text is trimmed")
	assert.True(t, doc.HasText())
	assert.False(t, doc.NeedsChunking())
	assert.Equal(t, []string{"th1"}, doc.ThemeIDs)
}

func TestMissingMetadata(t *testing.T) {
	doc := Document{Author: "Jane Doe", Language: "English"}
	missing := doc.MissingMetadata()
	assert.ElementsMatch(t, []string{FieldSummary, FieldWordCount, FieldDate, FieldThemes}, missing)
}

func TestIsComplete(t *testing.T) {
	doc := Document{
		FullText:  "body",
		ChunkIDs:  []string{"c0"},
		Author:    "Jane Doe",
		Summary:   "s",
		WordCount: 1,
		Language:  "English",
		Date:      "2021",
		ThemeIDs:  []string{"th1"},
	}
	assert.True(t, doc.IsComplete())

	doc.ThemeIDs = nil
	assert.False(t, doc.IsComplete())
}
