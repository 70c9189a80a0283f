package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Acurioustractor/aime-knowledge-hub/internal/core"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/core/chunking"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/core/enrichment"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/core/extraction"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/core/themes"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/models"
)

// errNothingToDo marks a document that cannot progress yet (no text and no
// attachment). It is counted as skipped, not failed.
var errNothingToDo = errors.New("nothing to do")

// Orchestrator sweeps all documents and completes whatever is missing on each
// one. State is derived from field presence, never from the advisory status
// flag, so re-running a sweep over processed documents is a no-op and a
// partially processed document converges over repeated sweeps.
type Orchestrator struct {
	records        core.RecordStore
	extractor      *extraction.Extractor
	enricher       *enrichment.Enricher
	registry       *themes.Registry
	writer         *chunking.Writer
	documentsTable string
	chunkSize      int
	chunkOverlap   int
	delay          time.Duration
	now            func() time.Time
}

func NewOrchestrator(
	records core.RecordStore,
	extractor *extraction.Extractor,
	enricher *enrichment.Enricher,
	registry *themes.Registry,
	writer *chunking.Writer,
	documentsTable string,
	chunkSize, chunkOverlap int,
	delay time.Duration,
) *Orchestrator {
	return &Orchestrator{
		records:        records,
		extractor:      extractor,
		enricher:       enricher,
		registry:       registry,
		writer:         writer,
		documentsTable: documentsTable,
		chunkSize:      chunkSize,
		chunkOverlap:   chunkOverlap,
		delay:          delay,
		now:            time.Now,
	}
}

// SweepResult summarizes one full pass over the document table.
type SweepResult struct {
	RunID      string    `json:"run_id"`
	Total      int       `json:"total"`
	Processed  int       `json:"processed"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	Skipped    int       `json:"skipped"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Sweep lists every document, completes the missing parts of each, and runs
// one theme-count reconciliation for the whole batch. A failure on one
// document never aborts the rest; cancellation is honored between documents.
func (o *Orchestrator) Sweep(ctx context.Context) (*SweepResult, error) {
	res := &SweepResult{
		RunID:     uuid.NewString(),
		StartedAt: o.now(),
	}
	log.Printf("sweep %s: starting", res.RunID)

	if err := o.registry.Reload(ctx); err != nil {
		return res, fmt.Errorf("sweep %s: %w", res.RunID, err)
	}

	recs, err := o.records.ListAll(ctx, o.documentsTable)
	if err != nil {
		return res, fmt.Errorf("sweep %s: list documents: %w", res.RunID, err)
	}
	res.Total = len(recs)

	for i := range recs {
		if ctx.Err() != nil {
			log.Printf("sweep %s: cancelled after %d documents", res.RunID, res.Processed)
			break
		}

		doc := models.DocumentFromRecord(&recs[i])
		if doc.IsComplete() {
			res.Skipped++
			continue
		}

		res.Processed++
		if err := o.processOne(ctx, &doc, false); err != nil {
			if errors.Is(err, errNothingToDo) {
				res.Processed--
				res.Skipped++
				continue
			}
			log.Printf("sweep %s: document %s (%q): %v", res.RunID, doc.ID, doc.Title, err)
			res.Failed++
		} else {
			res.Succeeded++
		}

		// Polite backpressure toward the external stores.
		select {
		case <-time.After(o.delay):
		case <-ctx.Done():
		}
	}

	if res.Succeeded > 0 {
		if err := o.registry.ReconcileCounts(ctx); err != nil {
			log.Printf("sweep %s: %v", res.RunID, err)
		}
	}

	res.FinishedAt = o.now()
	log.Printf("sweep %s: done, %d/%d documents succeeded (%d skipped, %d failed)",
		res.RunID, res.Succeeded, res.Processed, res.Skipped, res.Failed)
	return res, nil
}

// Reprocess forces a full re-run for one document: chunks are replaced and
// every metadata field is regenerated, overwriting existing values. This is
// the deliberate operator path; sweeps never overwrite populated fields.
func (o *Orchestrator) Reprocess(ctx context.Context, documentID string) error {
	if err := o.registry.Reload(ctx); err != nil {
		return err
	}
	rec, err := o.records.Get(ctx, o.documentsTable, documentID)
	if err != nil {
		return err
	}
	doc := models.DocumentFromRecord(rec)
	if err := o.processOne(ctx, &doc, true); err != nil {
		return err
	}
	return o.registry.ReconcileCounts(ctx)
}

// processOne completes the missing parts of a single document, in dependency
// order: text extraction, chunking+embedding, then metadata enrichment.
func (o *Orchestrator) processOne(ctx context.Context, doc *models.Document, force bool) error {
	if !doc.HasText() && len(doc.Attachments) == 0 {
		return errNothingToDo
	}

	text, err := o.extractor.Extract(ctx, doc)
	if err != nil {
		return err
	}

	if force || doc.NeedsChunking() {
		if err := o.rechunk(ctx, doc, text); err != nil {
			return err
		}
	}

	if force || len(doc.MissingMetadata()) > 0 {
		if err := o.enrichMissing(ctx, doc, text, force); err != nil {
			return err
		}
	}

	if doc.IsComplete() && doc.Status != models.StatusIndexed {
		if err := o.records.Update(ctx, o.documentsTable, doc.ID, map[string]any{
			models.FieldStatus: models.StatusIndexed,
		}); err != nil {
			return fmt.Errorf("mark indexed: %w", err)
		}
		doc.Status = models.StatusIndexed
	}
	return nil
}

// rechunk replaces the document's chunk set wholesale and persists the new
// chunk references.
func (o *Orchestrator) rechunk(ctx context.Context, doc *models.Document, text string) error {
	chunks := chunking.Split(text, doc.ID, doc.Title, o.chunkSize, o.chunkOverlap)
	if len(chunks) == 0 {
		return fmt.Errorf("no chunks produced for document %s", doc.ID)
	}

	ids, err := o.writer.ReplaceDocumentChunks(ctx, doc.ID, chunks)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		// Every batch failed; leave the field empty so the next sweep retries.
		return fmt.Errorf("no chunks persisted for document %s", doc.ID)
	}

	if err := o.records.Update(ctx, o.documentsTable, doc.ID, map[string]any{
		models.FieldChunkIDs:    strings.Join(ids, ", "),
		models.FieldProcessedAt: o.now().UTC().Format(time.RFC3339),
	}); err != nil {
		return fmt.Errorf("persist chunk ids: %w", err)
	}
	doc.ChunkIDs = ids
	return nil
}

// enrichMissing runs the enrichment engine and persists only the fields the
// document is missing, so manually corrected values are never discarded.
// With force set, every field is overwritten.
func (o *Orchestrator) enrichMissing(ctx context.Context, doc *models.Document, text string, force bool) error {
	md := o.enricher.Enrich(ctx, text, doc.Title, o.registry.Names())

	updates := map[string]any{}
	if force || doc.Author == "" {
		updates[models.FieldAuthor] = md.Author
		doc.Author = md.Author
	}
	if force || doc.Summary == "" {
		updates[models.FieldSummary] = md.Summary
		doc.Summary = md.Summary
	}
	if force || doc.WordCount == 0 {
		updates[models.FieldWordCount] = md.WordCount
		doc.WordCount = md.WordCount
	}
	if force || doc.Language == "" {
		updates[models.FieldLanguage] = md.Language
		doc.Language = md.Language
	}
	if force || doc.Date == "" {
		updates[models.FieldDate] = md.Date
		doc.Date = md.Date
	}

	if force || len(doc.ThemeIDs) == 0 {
		ids, err := o.resolveThemes(ctx, doc, text, md.Themes)
		if err != nil {
			log.Printf("pipeline: themes for document %s: %v", doc.ID, err)
		} else if len(ids) > 0 {
			updates[models.FieldThemes] = ids
			doc.ThemeIDs = ids
		}
	}

	if len(updates) == 0 {
		return nil
	}
	if err := o.records.Update(ctx, o.documentsTable, doc.ID, updates); err != nil {
		return fmt.Errorf("persist metadata: %w", err)
	}
	return nil
}

// resolveThemes maps selected vocabulary names to ids. When the closed-set
// selection found nothing (or the vocabulary is empty), a discovery call
// proposes new themes, which go through create-or-reuse resolution first.
func (o *Orchestrator) resolveThemes(ctx context.Context, doc *models.Document, text string, selected []string) ([]string, error) {
	if len(selected) > 0 {
		return o.registry.IDsForNames(selected), nil
	}

	proposals, err := o.enricher.DiscoverThemes(ctx, text, doc.Title)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, p := range proposals {
		if _, err := o.registry.ResolveOrCreate(ctx, p.Name, p.Description); err != nil {
			log.Printf("pipeline: theme %q: %v", p.Name, err)
			continue
		}
		names = append(names, p.Name)
	}
	return o.registry.IDsForNames(names), nil
}
