package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"whitespace only", "   \n\t  ", 0},
		{"simple sentence", "one two three", 3},
		{"punctuation delimits", "Hello, world!", 2},
		{"apostrophe splits", "don't", 2},
		{"hyphen splits", "well-known fact", 3},
		{"numbers count", "chapter 7 covers 42 topics", 5},
		{"newlines", "first line\nsecond line", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WordCount(tt.text))
		})
	}
}
