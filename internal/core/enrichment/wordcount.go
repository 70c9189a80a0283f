package enrichment

import "regexp"

var wordRe = regexp.MustCompile(`[\pL\pN_]+`)

// WordCount counts word tokens delimited by whitespace and punctuation.
// Deterministic; no AI involved. Empty text counts zero.
func WordCount(text string) int {
	if text == "" {
		return 0
	}
	return len(wordRe.FindAllStringIndex(text, -1))
}
