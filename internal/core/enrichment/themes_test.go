package enrichment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Acurioustractor/aime-knowledge-hub/internal/core"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/core/coretest"
)

func TestDecodeNameList(t *testing.T) {
	tests := []struct {
		name string
		resp string
		want []string
	}{
		{"json array", `["Education", "Mentoring"]`, []string{"Education", "Mentoring"}},
		{"fenced json", "```json\n[\"Education\", \"Mentoring\"]\n```", []string{"Education", "Mentoring"}},
		{"comma fallback", "Education, Mentoring, Leadership", []string{"Education", "Mentoring", "Leadership"}},
		{"quoted comma fallback", `"Education", "Mentoring"`, []string{"Education", "Mentoring"}},
		{"single name", "Education", []string{"Education"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeNameList(tt.resp))
		})
	}
}

func TestSelectThemesEmptyVocabulary(t *testing.T) {
	llm := &coretest.FakeLLM{}
	got, err := SelectThemes(context.Background(), llm, "some text", "Doc", nil)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, llm.Prompts, "no model call without a vocabulary")
}

func TestSelectThemesFiltersToVocabulary(t *testing.T) {
	vocab := []string{"Education", "Mentoring", "Leadership"}
	llm := &coretest.FakeLLM{
		GenerateFunc: func(ctx context.Context, p core.Prompt) (string, error) {
			return `["education", "Completely Invented", "Leadership"]`, nil
		},
	}

	got, err := SelectThemes(context.Background(), llm, "text", "Doc", vocab)
	require.NoError(t, err)
	// Canonical casing is restored; names outside the vocabulary are dropped.
	assert.Equal(t, []string{"Education", "Leadership"}, got)
}

func TestSelectThemesCapsSelection(t *testing.T) {
	vocab := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	llm := &coretest.FakeLLM{
		GenerateFunc: func(ctx context.Context, p core.Prompt) (string, error) {
			return `["A","B","C","D","E","F","G","H"]`, nil
		},
	}
	got, err := SelectThemes(context.Background(), llm, "text", "Doc", vocab)
	require.NoError(t, err)
	assert.Len(t, got, maxSelectedThemes)
}

func TestSelectThemesModelFailure(t *testing.T) {
	llm := &coretest.FakeLLM{
		GenerateFunc: func(ctx context.Context, p core.Prompt) (string, error) {
			return "", context.DeadlineExceeded
		},
	}
	_, err := SelectThemes(context.Background(), llm, "text", "Doc", []string{"Education"})
	var fieldErr *core.EnrichmentFieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "themes", fieldErr.Field)
}

func TestDiscoverThemesJSONEnvelope(t *testing.T) {
	llm := &coretest.FakeLLM{
		GenerateFunc: func(ctx context.Context, p core.Prompt) (string, error) {
			return `{"themes": [
				{"name": "Mentoring Networks", "description": "Programs pairing students with mentors."},
				{"name": "Community Impact", "description": "Effects of programs on local communities."}
			]}`, nil
		},
	}

	got, err := DiscoverThemes(context.Background(), llm, "text", "Doc")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Mentoring Networks", got[0].Name)
	assert.Equal(t, "Community Impact", got[1].Name)
}

func TestDiscoverThemesLineFallback(t *testing.T) {
	llm := &coretest.FakeLLM{
		GenerateFunc: func(ctx context.Context, p core.Prompt) (string, error) {
			return "- Mentoring Networks: Programs pairing students with mentors.\n" +
				"- Community Impact: Effects of programs on local communities.\n" +
				"not a proposal line\n", nil
		},
	}

	got, err := DiscoverThemes(context.Background(), llm, "text", "Doc")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Mentoring Networks", got[0].Name)
	assert.Equal(t, "Effects of programs on local communities.", got[1].Description)
}

func TestDiscoverThemesDropsIncompleteProposals(t *testing.T) {
	llm := &coretest.FakeLLM{
		GenerateFunc: func(ctx context.Context, p core.Prompt) (string, error) {
			return `{"themes": [
				{"name": "", "description": "No name on this one."},
				{"name": "Valid Theme", "description": "Has both pieces."}
			]}`, nil
		},
	}
	got, err := DiscoverThemes(context.Background(), llm, "text", "Doc")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Valid Theme", got[0].Name)
}
