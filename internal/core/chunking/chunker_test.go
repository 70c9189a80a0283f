package chunking

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokens(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(parts, " ")
}

func TestSplitEmptyText(t *testing.T) {
	assert.Nil(t, Split("", "doc1", "Title", 500, 50))
	assert.Nil(t, Split("   \n\t ", "doc1", "Title", 500, 50))
}

func TestSplitShortText(t *testing.T) {
	chunks := Split("just a few words here", "doc1", "Title", 500, 50)
	require.Len(t, chunks, 1)
	assert.Equal(t, "doc1_chunk_0", chunks[0].ChunkID)
	assert.Equal(t, "doc1", chunks[0].DocumentID)
	assert.Equal(t, "Title", chunks[0].DocumentTitle)
	assert.Equal(t, 0, chunks[0].ChunkIndex)
	assert.Equal(t, "just a few words here", chunks[0].Content)
}

func TestSplitWindowsAndOverlap(t *testing.T) {
	text := tokens(1200)
	chunks := Split(text, "doc1", "Title", 500, 50)
	require.Len(t, chunks, 3)

	// Stride is size-overlap, so consecutive chunks share the overlap region.
	assert.True(t, strings.HasPrefix(chunks[0].Content, "w0 "))
	assert.True(t, strings.HasSuffix(chunks[0].Content, " w499"))
	assert.True(t, strings.HasPrefix(chunks[1].Content, "w450 "))
	assert.True(t, strings.HasSuffix(chunks[2].Content, " w1199"))

	for i, c := range chunks {
		assert.Equal(t, ChunkID("doc1", i), c.ChunkID)
		assert.Equal(t, i, c.ChunkIndex)
	}
}

func TestSplitCoversEveryToken(t *testing.T) {
	text := tokens(1234)
	chunks := Split(text, "doc1", "Title", 500, 50)

	seen := make(map[string]bool)
	for _, c := range chunks {
		for _, tok := range strings.Fields(c.Content) {
			seen[tok] = true
		}
	}
	for i := 0; i < 1234; i++ {
		assert.True(t, seen[fmt.Sprintf("w%d", i)], "token w%d missing from all chunks", i)
	}
}

func TestSplitAbsorbsSmallRemainder(t *testing.T) {
	// 530 tokens with size 500/overlap 50: the 30-token tail would sit entirely
	// inside the next window's overlap, so it joins the first chunk instead.
	chunks := Split(tokens(530), "doc1", "Title", 500, 50)
	require.Len(t, chunks, 1)
	assert.Len(t, strings.Fields(chunks[0].Content), 530)
}

func TestSplitDeterministic(t *testing.T) {
	text := tokens(987)
	a := Split(text, "doc1", "Title", 500, 50)
	b := Split(text, "doc1", "Title", 500, 50)
	assert.Equal(t, a, b)
}

func TestSplitDefaultsOnBadParameters(t *testing.T) {
	chunks := Split(tokens(10), "doc1", "Title", 0, -1)
	require.Len(t, chunks, 1)

	// Overlap >= size would never advance; the defaults take over.
	chunks = Split(tokens(10), "doc1", "Title", 5, 9)
	assert.NotEmpty(t, chunks)
}
