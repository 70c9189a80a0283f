package enrichment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Acurioustractor/aime-knowledge-hub/internal/core"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/core/coretest"
)

const enricherText = `Author: Jane Doe

Published 2021 by the research institute.

Education is the foundation of opportunity. When young people are
connected with mentors who believe in them, their confidence grows and
their communities thrive. This report presents findings from a decade
of mentoring programs across many regions.`

func scriptedLLM() *coretest.FakeLLM {
	return &coretest.FakeLLM{
		GenerateFunc: func(ctx context.Context, p core.Prompt) (string, error) {
			switch {
			case strings.Contains(p.System, "summary"):
				return "A study of a decade of mentoring programs.", nil
			case strings.Contains(p.System, "relevant themes"):
				return `["Education", "Mentoring"]`, nil
			default:
				return "", errors.New("unexpected prompt")
			}
		},
	}
}

func TestEnrichComputesAllFields(t *testing.T) {
	e := NewEnricher(scriptedLLM())
	md := e.Enrich(context.Background(), enricherText, "Decade Report", []string{"Education", "Mentoring", "Finance"})

	assert.Equal(t, "Jane Doe", md.Author)
	assert.Equal(t, "A study of a decade of mentoring programs.", md.Summary)
	assert.Equal(t, "2021", md.Date)
	assert.Equal(t, "English", md.Language)
	assert.Greater(t, md.WordCount, 30)
	assert.Equal(t, []string{"Education", "Mentoring"}, md.Themes)
}

func TestEnrichSurvivesFieldFailures(t *testing.T) {
	llm := &coretest.FakeLLM{
		GenerateFunc: func(ctx context.Context, p core.Prompt) (string, error) {
			return "", errors.New("model down")
		},
	}
	fixed := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	e := NewEnricher(llm).WithClock(func() time.Time { return fixed })

	text := "Plain text without byline or date, discussing mentoring and education programs at length."
	md := e.Enrich(context.Background(), text, "Untitled", []string{"Education"})

	// Each failed AI field lands on its documented default; the deterministic
	// fields are unaffected.
	assert.Equal(t, UnknownAuthor, md.Author)
	assert.Equal(t, FallbackSummary("Untitled"), md.Summary)
	assert.Equal(t, "2026-01-02", md.Date)
	assert.Equal(t, "English", md.Language)
	require.NotZero(t, md.WordCount)
	assert.Empty(t, md.Themes)
}
