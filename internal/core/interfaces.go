package core

import (
	"context"

	"github.com/Acurioustractor/aime-knowledge-hub/internal/models"
)

// RecordStore abstracts the tabular document/theme store so higher layers
// never depend on a specific backend. Records are addressed by table name and
// opaque record id; writes are partial field patches.
type RecordStore interface {
	ListAll(ctx context.Context, table string) ([]models.Record, error)
	Get(ctx context.Context, table, id string) (*models.Record, error)
	Update(ctx context.Context, table, id string, fields map[string]any) error
	Create(ctx context.Context, table string, fields map[string]any) (*models.Record, error)
}

// VectorStore persists embedded chunks and serves similarity lookups.
type VectorStore interface {
	InsertChunks(ctx context.Context, chunks []models.DocumentChunk) error
	DeleteDocumentChunks(ctx context.Context, documentID string) error
	GetChunksByDocument(ctx context.Context, documentID string) ([]models.DocumentChunk, error)
	SearchChunks(ctx context.Context, queryVec []float32, limit int) ([]models.DocumentChunk, error)
	Close() error
}

// EmbeddingProvider turns text into vectors.
type EmbeddingProvider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Prompt is one chat-completion request: a system instruction, a user
// message, and the sampling knobs the providers expose.
type Prompt struct {
	System      string
	User        string
	MaxTokens   int32
	Temperature float32
}

// LLMProvider is the opaque, rate-limited, fallible remote model call.
type LLMProvider interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}
