package enrichment

import (
	"context"
	"log"
	"time"

	"github.com/Acurioustractor/aime-knowledge-hub/internal/core"
)

// Metadata is the full set of derived fields for one document.
type Metadata struct {
	Author    string
	Summary   string
	WordCount int
	Language  string
	Date      string
	Themes    []string
}

// Enricher derives metadata fields from document text. It is a pure function
// of (text, title, vocabulary): it never writes to any store. Each field is
// computed independently; a failure in one leaves the others intact and the
// failed field at its documented default.
type Enricher struct {
	llm core.LLMProvider
	now func() time.Time
}

func NewEnricher(llm core.LLMProvider) *Enricher {
	return &Enricher{llm: llm, now: time.Now}
}

// WithClock overrides the processing-date source. Used by tests.
func (e *Enricher) WithClock(now func() time.Time) *Enricher {
	e.now = now
	return e
}

// Enrich computes every metadata field for the given text and title. The
// theme selection is constrained to the supplied vocabulary.
func (e *Enricher) Enrich(ctx context.Context, text, title string, vocabulary []string) Metadata {
	md := Metadata{
		WordCount: WordCount(text),
		Language:  DetectLanguage(text),
	}

	author, err := ExtractAuthor(ctx, e.llm, text, title)
	if err != nil {
		log.Printf("enrichment: %v", err)
	}
	md.Author = author

	summary, err := GenerateSummary(ctx, e.llm, text, title)
	if err != nil {
		log.Printf("enrichment: %v", err)
	}
	md.Summary = summary

	md.Date = e.DateOrDefault(text)

	themes, err := SelectThemes(ctx, e.llm, text, title, vocabulary)
	if err != nil {
		log.Printf("enrichment: %v", err)
	}
	md.Themes = themes

	return md
}

// DateOrDefault runs the date strategy chain, defaulting to the current
// processing date when nothing in the text validates. The default is a
// documented fallback, not a true extraction.
func (e *Enricher) DateOrDefault(text string) string {
	if date, ok := ExtractDate(text); ok {
		return date
	}
	return e.now().Format("2006-01-02")
}

// DiscoverThemes proposes new themes for text whose content matches nothing
// in the current vocabulary.
func (e *Enricher) DiscoverThemes(ctx context.Context, text, title string) ([]ThemeProposal, error) {
	return DiscoverThemes(ctx, e.llm, text, title)
}

// SelectThemes picks themes for the text from the given vocabulary.
func (e *Enricher) SelectThemes(ctx context.Context, text, title string, vocabulary []string) ([]string, error) {
	return SelectThemes(ctx, e.llm, text, title, vocabulary)
}
