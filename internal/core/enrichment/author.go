package enrichment

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Acurioustractor/aime-knowledge-hub/internal/core"
)

// UnknownAuthor is the documented default when neither the structural
// patterns nor the AI fallback find a name.
const UnknownAuthor = "Unknown"

const authorSampleChars = 2000

var (
	bylineColonRe   = regexp.MustCompile(`(?i)(?:Author|By|Written by|Created by|Authored by):\s*([^\n\r]+)`)
	bylineSpaceRe   = regexp.MustCompile(`(?im)^(?:Written by|Created by|Authored by|By)\s+([^\n\r]+)`)
	nameYearRe      = regexp.MustCompile(`(?m)^([A-Z][a-z]+ [A-Z][a-z]+)(?:,|\s+\d{4})`)
	copyrightNameRe = regexp.MustCompile(`(?i)Copyright[^\n\r]*?\d{4}[^\n\r]*?([A-Z][a-z]+ [A-Z][a-z]+)`)

	// Tokens that signal a matched span is prose, not a name.
	authorStopWords = map[string]bool{
		"the": true, "and": true, "for": true, "with": true,
		"document": true, "report": true,
	}

	hasLetterRe = regexp.MustCompile(`[A-Za-z]`)
)

// authorChain holds the structural byline strategies, in priority order.
var authorChain = []Strategy{
	patternAuthor(bylineColonRe),
	patternAuthor(bylineSpaceRe),
	patternAuthor(nameYearRe),
	patternAuthor(copyrightNameRe),
}

func patternAuthor(re *regexp.Regexp) Strategy {
	return func(text string) (string, bool) {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if name, ok := validAuthor(m[1]); ok {
				return name, true
			}
		}
		return "", false
	}
}

// validAuthor trims a candidate to its first clause and accepts it only when
// it is short, contains letters, and carries no prose stop-words.
func validAuthor(candidate string) (string, bool) {
	candidate = strings.TrimSpace(candidate)
	if i := strings.IndexAny(candidate, ".;("); i > 0 {
		candidate = strings.TrimSpace(candidate[:i])
	}
	if candidate == "" || len(candidate) >= 50 || !hasLetterRe.MatchString(candidate) {
		return "", false
	}
	for _, tok := range strings.Fields(strings.ToLower(candidate)) {
		if authorStopWords[strings.Trim(tok, ",")] {
			return "", false
		}
	}
	return candidate, true
}

const authorSystemPrompt = `Extract the author name from this document. Look for:
- Author bylines
- Copyright information
- Document headers/footers
- Signature lines

Return only the full name (first and last), or 'Unknown' if no clear author is found.`

// ExtractAuthor tries the structural byline chain over the leading text, then
// falls back to an AI extraction constrained to a name or "Unknown".
func ExtractAuthor(ctx context.Context, llm core.LLMProvider, text, title string) (string, error) {
	if name, ok := firstMatch(text, authorChain); ok {
		return name, nil
	}

	sample := text
	if len(sample) > authorSampleChars {
		sample = sample[:authorSampleChars]
	}

	resp, err := llm.Generate(ctx, core.Prompt{
		System:      authorSystemPrompt,
		User:        fmt.Sprintf("Title: %s\n\nFirst %d characters: %s", title, authorSampleChars, sample),
		MaxTokens:   50,
		Temperature: 0,
	})
	if err != nil {
		return UnknownAuthor, &core.EnrichmentFieldError{Field: "author", Err: err}
	}

	author := strings.TrimSpace(resp)
	if author == "" || strings.EqualFold(author, UnknownAuthor) {
		return UnknownAuthor, nil
	}
	return author, nil
}
