package models

import (
	"time"
)

// Document field names in the record store.
const (
	FieldTitle       = "Title"
	FieldFullText    = "Full Text"
	FieldFile        = "File"
	FieldAuthor      = "Author"
	FieldSummary     = "Summary"
	FieldWordCount   = "Word Count"
	FieldLanguage    = "Language"
	FieldDate        = "Date"
	FieldThemes      = "Themes"
	FieldChunkIDs    = "Chunk IDs"
	FieldStatus      = "Status"
	FieldProcessedAt = "Processed At"
)

// Theme field names in the record store.
const (
	FieldName        = "Name"
	FieldDescription = "Description"
	FieldCount       = "Count"
	FieldDocuments   = "Documents"
)

// Document processing states. The status field is advisory; the pipeline
// re-derives what is missing from actual field presence.
const (
	StatusNew     = "New"
	StatusIndexed = "Indexed"
)

// Attachment describes a file attached to a document record.
type Attachment struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
}

// Document is the typed view of a document record. Every metadata field is
// optional: a zero value means "not yet populated" and drives the pipeline's
// missing-field detection.
type Document struct {
	ID          string
	Title       string
	FullText    string
	Attachments []Attachment
	Author      string
	Summary     string
	WordCount   int
	Language    string
	Date        string
	ThemeIDs    []string
	ChunkIDs    []string
	Status      string
}

// HasText reports whether extracted full text is available.
func (d *Document) HasText() bool {
	return d.FullText != ""
}

// NeedsExtraction reports whether the document still needs text extraction.
func (d *Document) NeedsExtraction() bool {
	return !d.HasText() && len(d.Attachments) > 0
}

// NeedsChunking reports whether the document has text but no chunk references.
func (d *Document) NeedsChunking() bool {
	return d.HasText() && len(d.ChunkIDs) == 0
}

// MissingMetadata returns the names of metadata fields that are still empty.
func (d *Document) MissingMetadata() []string {
	var missing []string
	if d.Author == "" {
		missing = append(missing, FieldAuthor)
	}
	if d.Summary == "" {
		missing = append(missing, FieldSummary)
	}
	if d.WordCount == 0 {
		missing = append(missing, FieldWordCount)
	}
	if d.Language == "" {
		missing = append(missing, FieldLanguage)
	}
	if d.Date == "" {
		missing = append(missing, FieldDate)
	}
	if len(d.ThemeIDs) == 0 {
		missing = append(missing, FieldThemes)
	}
	return missing
}

// IsComplete reports whether text, chunks and every metadata field are present.
func (d *Document) IsComplete() bool {
	return d.HasText() && len(d.ChunkIDs) > 0 && len(d.MissingMetadata()) == 0
}

// Theme is the typed view of a theme record. Count is a cached denormalization
// of how many documents link the theme; the Documents reverse links are the
// source of truth.
type Theme struct {
	ID          string
	Name        string
	Description string
	Count       int
	DocumentIDs []string
}

// DocumentChunk is one embedded text segment of a document, stored in the
// vector store. Chunks are immutable; a document's chunk set is replaced
// wholesale on reprocessing.
type DocumentChunk struct {
	ChunkID       string    `db:"chunk_id" json:"chunk_id"`
	DocumentID    string    `db:"document_id" json:"document_id"`
	DocumentTitle string    `db:"document_title" json:"document_title"`
	ChunkIndex    int       `db:"chunk_index" json:"chunk_index"`
	Content       string    `db:"content" json:"content"`
	Embedding     []float32 `db:"embedding" json:"embedding"` // pgvector column
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
