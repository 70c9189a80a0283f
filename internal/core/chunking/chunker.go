package chunking

import (
	"fmt"
	"strings"

	"github.com/Acurioustractor/aime-knowledge-hub/internal/models"
)

// Default window sizes, in word-equivalent tokens.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

// ChunkID builds the stable id for a document's chunk at the given index.
// Identical input text always yields identical boundaries, so the ids are
// deterministic across reprocessing runs.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", documentID, index)
}

// Split slides a window of size tokens across the text with stride
// size-overlap. The final chunk absorbs any remainder smaller than the
// overlap rather than emitting a near-empty trailing fragment.
func Split(text, documentID, title string, size, overlap int) []models.DocumentChunk {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
		if overlap >= size {
			overlap = size / 10
		}
	}

	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil
	}

	stride := size - overlap
	var chunks []models.DocumentChunk

	for start := 0; start < len(tokens); start += stride {
		end := start + size
		if end > len(tokens) {
			end = len(tokens)
		}
		// Absorb a remainder that would otherwise be fully contained in the
		// next window's overlap.
		if end < len(tokens) && len(tokens)-end <= overlap {
			end = len(tokens)
		}

		index := len(chunks)
		chunks = append(chunks, models.DocumentChunk{
			ChunkID:       ChunkID(documentID, index),
			DocumentID:    documentID,
			DocumentTitle: title,
			ChunkIndex:    index,
			Content:       strings.Join(tokens[start:end], " "),
		})

		if end == len(tokens) {
			break
		}
	}

	return chunks
}
