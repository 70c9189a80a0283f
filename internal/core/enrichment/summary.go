package enrichment

import (
	"context"
	"fmt"
	"strings"

	"github.com/Acurioustractor/aime-knowledge-hub/internal/core"
)

const summarySampleChars = 10000

const summarySystemPrompt = `Generate a comprehensive 4-5 sentence summary that captures:
1. The main purpose and scope of the document
2. Key themes and concepts discussed
3. Important insights or findings
4. Practical implications or applications
5. Target audience or use cases

Make the summary informative and useful for someone deciding whether to read the full document.`

// GenerateSummary asks the model for a fixed-length summary over a truncated
// prefix of the text. On failure the templated one-liner built from the title
// is the documented fallback.
func GenerateSummary(ctx context.Context, llm core.LLMProvider, text, title string) (string, error) {
	sample := text
	if len(sample) > summarySampleChars {
		sample = sample[:summarySampleChars]
	}

	resp, err := llm.Generate(ctx, core.Prompt{
		System:      summarySystemPrompt,
		User:        fmt.Sprintf("Title: %s\n\nContent: %s", title, sample),
		MaxTokens:   250,
		Temperature: 0.3,
	})
	if err != nil {
		return FallbackSummary(title), &core.EnrichmentFieldError{Field: "summary", Err: err}
	}

	summary := strings.TrimSpace(resp)
	if summary == "" {
		return FallbackSummary(title), nil
	}
	return summary, nil
}

// FallbackSummary is the templated one-line summary used when generation fails.
func FallbackSummary(title string) string {
	return fmt.Sprintf("This document titled '%s' covers topics relevant to the knowledge base. Please refer to the full text for complete details.", title)
}
