package extraction

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"

	"github.com/Acurioustractor/aime-knowledge-hub/internal/core"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/core/objectclient"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/models"
)

// TruncationMarker annotates a stored full text that was cut at the record
// store's field cap. The untruncated text still flows to chunking/embedding.
const TruncationMarker = "[Text truncated - full content processed for search]"

type attachmentKind int

const (
	kindUnsupported attachmentKind = iota
	kindPDF
	kindMarkdown
	kindText
)

// Extractor normalizes a document's raw text or attachment into plain text
// and persists the result back onto the record so extraction never re-runs.
type Extractor struct {
	records        core.RecordStore
	fetcher        Fetcher
	archive        *objectclient.S3Client // optional oversized-text archive
	documentsTable string
	storedTextCap  int
	truncateTo     int
}

func NewExtractor(records core.RecordStore, fetcher Fetcher, archive *objectclient.S3Client, documentsTable string, storedTextCap, truncateTo int) *Extractor {
	return &Extractor{
		records:        records,
		fetcher:        fetcher,
		archive:        archive,
		documentsTable: documentsTable,
		storedTextCap:  storedTextCap,
		truncateTo:     truncateTo,
	}
}

// Extract returns the document's plain text. Already-extracted text is
// returned unchanged; otherwise the attachment is fetched, decoded by type,
// and the result is written back to the record store before being returned.
func (e *Extractor) Extract(ctx context.Context, doc *models.Document) (string, error) {
	if doc.HasText() {
		return doc.FullText, nil
	}
	if len(doc.Attachments) == 0 {
		return "", &core.ExtractionError{DocumentID: doc.ID, Err: core.ErrNoContent}
	}

	var (
		combined strings.Builder
		lastErr  error
	)
	for _, att := range doc.Attachments {
		text, err := e.extractAttachment(ctx, att)
		if err != nil {
			log.Printf("extraction: attachment %q of document %s: %v", att.Filename, doc.ID, err)
			lastErr = err
			continue
		}
		combined.WriteString(text)
		combined.WriteString("\n")
	}

	fullText := strings.TrimSpace(combined.String())
	if fullText == "" {
		if lastErr == nil {
			lastErr = core.ErrDecode
		}
		return "", &core.ExtractionError{DocumentID: doc.ID, Err: lastErr}
	}

	if err := e.persist(ctx, doc, fullText); err != nil {
		return "", &core.ExtractionError{DocumentID: doc.ID, Err: err}
	}

	doc.FullText = fullText
	return fullText, nil
}

func (e *Extractor) extractAttachment(ctx context.Context, att models.Attachment) (string, error) {
	kind := classify(att)
	if kind == kindUnsupported {
		return "", fmt.Errorf("%w: filename=%q type=%q", core.ErrUnsupportedFormat, att.Filename, att.Type)
	}

	data, err := e.fetcher.Fetch(ctx, att)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrAttachmentFetch, err)
	}

	switch kind {
	case kindPDF:
		res, err := docconv.Convert(bytes.NewReader(data), "application/pdf", false)
		if err != nil {
			return "", fmt.Errorf("%w: %v", core.ErrDecode, err)
		}
		return res.Body, nil
	case kindMarkdown:
		return stripMarkdown(string(data)), nil
	default:
		return string(data), nil
	}
}

// persist writes the extracted text onto the document record, truncating at
// the field cap. Oversized text is archived to object storage when a bucket
// is configured, so the untruncated copy survives somewhere durable.
func (e *Extractor) persist(ctx context.Context, doc *models.Document, fullText string) error {
	stored := fullText
	if len(fullText) > e.storedTextCap {
		cut := e.truncateTo
		for cut > 0 && !utf8.RuneStart(fullText[cut]) {
			cut--
		}
		stored = fullText[:cut] + "\n\n" + TruncationMarker
		log.Printf("extraction: document %s text is %d chars, storing truncated copy", doc.ID, len(fullText))

		if e.archive != nil {
			key := fmt.Sprintf("full-text/%s.txt", doc.ID)
			if url, err := e.archive.UploadFile(ctx, key, []byte(fullText), "text/plain; charset=utf-8"); err != nil {
				log.Printf("extraction: archiving full text for %s failed: %v", doc.ID, err)
			} else {
				log.Printf("extraction: archived full text for %s at %s", doc.ID, url)
			}
		}
	}

	return e.records.Update(ctx, e.documentsTable, doc.ID, map[string]any{
		models.FieldFullText: stored,
	})
}

// classify picks a decoding strategy from the attachment's filename extension
// and declared content type.
func classify(att models.Attachment) attachmentKind {
	name := strings.ToLower(att.Filename)
	ctype := strings.ToLower(att.Type)
	url := strings.ToLower(att.URL)

	switch {
	case strings.HasSuffix(name, ".pdf"),
		strings.HasPrefix(ctype, "application/pdf"),
		strings.HasSuffix(url, ".pdf"):
		return kindPDF
	case strings.HasSuffix(name, ".md"), strings.HasSuffix(name, ".markdown"),
		ctype == "text/markdown", ctype == "text/x-markdown",
		strings.HasSuffix(url, ".md"), strings.HasSuffix(url, ".markdown"):
		return kindMarkdown
	case strings.HasSuffix(name, ".txt"), strings.HasSuffix(name, ".text"),
		strings.HasPrefix(ctype, "text/plain"),
		strings.HasSuffix(url, ".txt"), strings.HasSuffix(url, ".text"):
		return kindText
	default:
		return kindUnsupported
	}
}
