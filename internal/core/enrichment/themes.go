package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/Acurioustractor/aime-knowledge-hub/internal/core"
)

const (
	themesSampleChars = 8000
	maxSelectedThemes = 6
	maxProposedThemes = 8
)

// ThemeProposal is a candidate theme suggested by the discovery call, before
// it has been resolved against the registry.
type ThemeProposal struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

const selectThemesSystemTemplate = `Analyze this document and identify the most relevant themes from this list: %s

Instructions:
- Select 3-6 themes that strongly match the document content
- Only use themes from the provided list
- Focus on primary themes, not minor mentions
- Consider both explicit content and implicit themes
- Return as a JSON array of theme names
- Be selective but comprehensive`

// SelectThemes asks the model to pick themes for the text from the existing
// vocabulary only. This is closed-set classification: any returned name that
// is not in the vocabulary is discarded so hallucinated themes never pollute
// the taxonomy.
func SelectThemes(ctx context.Context, llm core.LLMProvider, text, title string, vocabulary []string) ([]string, error) {
	if len(vocabulary) == 0 {
		return nil, nil
	}

	sample := text
	if len(sample) > themesSampleChars {
		sample = sample[:themesSampleChars]
	}

	resp, err := llm.Generate(ctx, core.Prompt{
		System:      fmt.Sprintf(selectThemesSystemTemplate, strings.Join(vocabulary, ", ")),
		User:        fmt.Sprintf("Title: %s\n\nContent: %s", title, sample),
		MaxTokens:   200,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, &core.EnrichmentFieldError{Field: "themes", Err: err}
	}

	names := decodeNameList(resp)

	// Keep only vocabulary names, preserving the canonical spelling.
	canonical := make(map[string]string, len(vocabulary))
	for _, v := range vocabulary {
		canonical[strings.ToLower(v)] = v
	}
	var selected []string
	for _, name := range names {
		if v, ok := canonical[strings.ToLower(name)]; ok {
			selected = append(selected, v)
		}
		if len(selected) == maxSelectedThemes {
			break
		}
	}
	return selected, nil
}

const discoverThemesSystem = "You are an expert at analyzing documents and extracting relevant themes for knowledge organization."

const discoverThemesTemplate = `Analyze the following document and extract the main themes/topics it covers.

Document Title: %s

Document Content:
%s

Please identify 3-8 main themes that this document covers. For each theme, provide:
1. A concise theme name (2-4 words)
2. A brief description of what this theme encompasses

Focus on themes that would be useful for organizing and finding documents in a knowledge management system.

Respond in JSON format:
{
    "themes": [
        {
            "name": "Theme Name",
            "description": "Brief description of what this theme covers"
        }
    ]
}`

// DiscoverThemes proposes new themes for a document. Used when the vocabulary
// is empty or nothing in it matches; proposals still go through the
// registry's create-or-reuse resolution before any document links them.
func DiscoverThemes(ctx context.Context, llm core.LLMProvider, text, title string) ([]ThemeProposal, error) {
	sample := text
	if len(sample) > themesSampleChars {
		sample = sample[:themesSampleChars] + "..."
	}

	resp, err := llm.Generate(ctx, core.Prompt{
		System:      discoverThemesSystem,
		User:        fmt.Sprintf(discoverThemesTemplate, title, sample),
		MaxTokens:   1000,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, &core.EnrichmentFieldError{Field: "themes", Err: err}
	}

	proposals := decodeProposals(resp)
	if len(proposals) > maxProposedThemes {
		proposals = proposals[:maxProposedThemes]
	}
	return proposals, nil
}

// decodeNameList is the two-stage defensive decode for theme selections:
// structured JSON array first, comma-separated text as fallback.
func decodeNameList(resp string) []string {
	cleaned := stripCodeFence(resp)

	var names []string
	if err := json.Unmarshal([]byte(cleaned), &names); err == nil {
		return trimAll(names)
	}

	return trimAll(strings.Split(cleaned, ","))
}

type proposalEnvelope struct {
	Themes []ThemeProposal `json:"themes"`
}

var proposalLineRe = regexp.MustCompile(`^(?:[-*]\s*)?([A-Za-z][A-Za-z\s]{1,40}?):\s*(.{10,})$`)

// decodeProposals parses a theme-discovery response: structured JSON first,
// then a line-oriented "Name: description" fallback.
func decodeProposals(resp string) []ThemeProposal {
	cleaned := stripCodeFence(resp)

	var envelope proposalEnvelope
	if err := json.Unmarshal([]byte(cleaned), &envelope); err == nil && len(envelope.Themes) > 0 {
		var out []ThemeProposal
		for _, p := range envelope.Themes {
			p.Name = strings.TrimSpace(p.Name)
			p.Description = strings.TrimSpace(p.Description)
			if p.Name != "" && p.Description != "" {
				out = append(out, p)
			}
		}
		return out
	}

	var out []ThemeProposal
	for _, line := range strings.Split(cleaned, "\n") {
		m := proposalLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		out = append(out, ThemeProposal{
			Name:        strings.TrimSpace(m[1]),
			Description: strings.TrimSpace(m[2]),
		})
	}
	return out
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.Trim(strings.TrimSpace(s), `"`)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
