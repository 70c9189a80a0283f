package chunking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Acurioustractor/aime-knowledge-hub/internal/core"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/models"
)

// Writer embeds chunks in batches and persists them to the vector store.
type Writer struct {
	embedder  core.EmbeddingProvider
	vectors   core.VectorStore
	batchSize int
	now       func() time.Time
}

func NewWriter(embedder core.EmbeddingProvider, vectors core.VectorStore, batchSize int) *Writer {
	if batchSize <= 0 {
		batchSize = 32
	}
	return &Writer{embedder: embedder, vectors: vectors, batchSize: batchSize, now: time.Now}
}

// ReplaceDocumentChunks deletes the document's existing chunk rows and writes
// the given set: embed each batch, pair vectors with chunk metadata, insert.
// A failed batch is logged and skipped rather than aborting the rest, so the
// returned id list may be shorter than the input. Chunk ids are deterministic
// per Split, which keeps delete-then-insert idempotent.
func (w *Writer) ReplaceDocumentChunks(ctx context.Context, documentID string, chunks []models.DocumentChunk) ([]string, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	if err := w.vectors.DeleteDocumentChunks(ctx, documentID); err != nil {
		return nil, fmt.Errorf("clear chunks for %s: %w", documentID, err)
	}

	var persisted []string
	for start := 0; start < len(chunks); start += w.batchSize {
		end := start + w.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		ids, err := w.storeBatch(ctx, batch)
		if err != nil {
			log.Printf("chunking: batch %d-%d of document %s failed, skipping: %v", start, end-1, documentID, err)
			continue
		}
		persisted = append(persisted, ids...)
	}

	log.Printf("chunking: stored %d/%d chunks for document %s", len(persisted), len(chunks), documentID)
	return persisted, nil
}

func (w *Writer) storeBatch(ctx context.Context, batch []models.DocumentChunk) ([]string, error) {
	texts := make([]string, len(batch))
	for i := range batch {
		texts[i] = batch[i].Content
	}

	vecs, err := w.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	if len(vecs) != len(batch) {
		return nil, fmt.Errorf("embed size mismatch: got %d want %d", len(vecs), len(batch))
	}

	createdAt := w.now().UTC()
	rows := make([]models.DocumentChunk, len(batch))
	ids := make([]string, len(batch))
	for i := range batch {
		rows[i] = batch[i]
		rows[i].Embedding = vecs[i]
		rows[i].CreatedAt = createdAt
		ids[i] = rows[i].ChunkID
	}

	if err := w.vectors.InsertChunks(ctx, rows); err != nil {
		return nil, fmt.Errorf("insert chunks: %w", err)
	}
	return ids, nil
}
