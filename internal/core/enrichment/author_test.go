package enrichment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Acurioustractor/aime-knowledge-hub/internal/core"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/core/coretest"
)

func TestExtractAuthorFromBylines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"colon byline", "Author: Jane Doe\n\nIntroduction follows.", "Jane Doe"},
		{"byline trimmed at period", "Author: Jane Doe. Senior Researcher at the institute.", "Jane Doe"},
		{"written by", "Written by John Smith\n\nChapter one.", "John Smith"},
		{"by prefix", "By Maria Garcia\n\nThe report begins here.", "Maria Garcia"},
		{"name comma line", "Alice Munro,\nCollected Essays", "Alice Munro"},
		{"copyright name", "Copyright © 2020 by Robert Jones published worldwide.", "Robert Jones"},
	}

	llm := &coretest.FakeLLM{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractAuthor(context.Background(), llm, tt.text, "Doc")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	// The structural chain handled every case; the model was never consulted.
	assert.Empty(t, llm.Prompts)
}

func TestExtractAuthorFallsBackToModel(t *testing.T) {
	llm := &coretest.FakeLLM{
		GenerateFunc: func(ctx context.Context, p core.Prompt) (string, error) {
			return "Maria Garcia", nil
		},
	}

	// "The Research Team" trips the stop-word filter, so the byline does not
	// count as a name and the model decides.
	got, err := ExtractAuthor(context.Background(), llm, "Author: The Research Team\n\nBody.", "Doc")
	require.NoError(t, err)
	assert.Equal(t, "Maria Garcia", got)
	require.Len(t, llm.Prompts, 1)
	assert.EqualValues(t, 50, llm.Prompts[0].MaxTokens)
	assert.EqualValues(t, 0, llm.Prompts[0].Temperature)
}

func TestExtractAuthorModelSaysUnknown(t *testing.T) {
	llm := &coretest.FakeLLM{
		GenerateFunc: func(ctx context.Context, p core.Prompt) (string, error) {
			return "unknown", nil
		},
	}
	got, err := ExtractAuthor(context.Background(), llm, "No byline anywhere in this text.", "Doc")
	require.NoError(t, err)
	assert.Equal(t, UnknownAuthor, got)
}

func TestExtractAuthorModelFailure(t *testing.T) {
	llm := &coretest.FakeLLM{
		GenerateFunc: func(ctx context.Context, p core.Prompt) (string, error) {
			return "", errors.New("rate limited")
		},
	}
	got, err := ExtractAuthor(context.Background(), llm, "No byline anywhere in this text.", "Doc")
	assert.Equal(t, UnknownAuthor, got)

	var fieldErr *core.EnrichmentFieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "author", fieldErr.Field)
}

func TestValidAuthorRejectsProse(t *testing.T) {
	for _, candidate := range []string{
		"",
		"the quick brown fox jumps over a lazy dog and keeps on running far",
		"a report for the committee",
		"1234 5678",
	} {
		_, ok := validAuthor(candidate)
		assert.False(t, ok, "candidate %q should be rejected", candidate)
	}

	name, ok := validAuthor("  Jane Doe. Senior Researcher ")
	assert.True(t, ok)
	assert.Equal(t, "Jane Doe", name)
}
