package enrichment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const englishParagraph = `Education is the foundation of opportunity. When young people are
connected with mentors who believe in them, their confidence grows and
their imagination expands. This program has supported thousands of
students across many communities, and the results speak for themselves
in graduation rates, university admissions, and long-term wellbeing.`

const spanishParagraph = `La educación es la base de la oportunidad. Cuando los jóvenes se
conectan con mentores que creen en ellos, su confianza crece y su
imaginación se expande. Este programa ha apoyado a miles de estudiantes
en muchas comunidades diferentes, y los resultados hablan por sí mismos
en las tasas de graduación y el bienestar a largo plazo de las familias.`

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "English", DetectLanguage(englishParagraph))
	assert.Equal(t, "Spanish", DetectLanguage(spanishParagraph))
}

func TestDetectLanguageDefaults(t *testing.T) {
	assert.Equal(t, "English", DetectLanguage(""))
	assert.Equal(t, "English", DetectLanguage("   \n  "))
}

func TestDetectLanguageSamplesLeadingText(t *testing.T) {
	// A long document is judged by its opening slice only.
	text := englishParagraph + strings.Repeat(" more english words follow here", 500)
	assert.Equal(t, "English", DetectLanguage(text))
}
