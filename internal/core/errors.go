package core

import (
	"errors"
	"fmt"
)

// Extraction failures. The document is left unmodified and retried on the
// next sweep.
var (
	ErrUnsupportedFormat = errors.New("unsupported attachment format")
	ErrAttachmentFetch   = errors.New("attachment fetch failed")
	ErrDecode            = errors.New("attachment decode failed")
	ErrNoContent         = errors.New("document has no text and no attachment")
)

// ExtractionError wraps one of the extraction sentinels with the document it
// failed on.
type ExtractionError struct {
	DocumentID string
	Err        error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for document %s: %v", e.DocumentID, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// EnrichmentFieldError records a single metadata sub-extractor failing. The
// field keeps its documented default; other fields are unaffected.
type EnrichmentFieldError struct {
	Field string
	Err   error
}

func (e *EnrichmentFieldError) Error() string {
	return fmt.Sprintf("enrichment of %s failed: %v", e.Field, e.Err)
}

func (e *EnrichmentFieldError) Unwrap() error { return e.Err }
