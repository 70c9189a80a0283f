package extraction

import (
	"regexp"
	"strings"
)

var (
	mdHeaderRe    = regexp.MustCompile(`(?m)^#+\s*(.+)$`)
	mdBoldRe      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	mdItalicRe    = regexp.MustCompile(`\*(.*?)\*`)
	mdCodeBlockRe = regexp.MustCompile("(?s)```.*?```")
	mdLinkRe      = regexp.MustCompile(`\[([^\]]+)\]\([^\)]+\)`)
	mdBlankRe     = regexp.MustCompile(`\n\s*\n`)
)

// stripMarkdown reduces markdown source to plain prose: headers become
// regular lines, emphasis markers and fenced code blocks are dropped, links
// keep their text, and runs of blank lines collapse to one.
func stripMarkdown(text string) string {
	text = mdHeaderRe.ReplaceAllString(text, "$1")
	text = mdBoldRe.ReplaceAllString(text, "$1")
	text = mdItalicRe.ReplaceAllString(text, "$1")
	text = mdCodeBlockRe.ReplaceAllString(text, "")
	text = mdLinkRe.ReplaceAllString(text, "$1")
	text = mdBlankRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
