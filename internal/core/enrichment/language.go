package enrichment

import (
	"github.com/abadojack/whatlanggo"
)

const languageSampleChars = 2000

// Detector ISO 639-3 codes mapped to the canonical names stored on records.
var languageNames = map[string]string{
	"eng": "English",
	"spa": "Spanish",
	"fra": "French",
	"deu": "German",
	"ita": "Italian",
	"por": "Portuguese",
	"cmn": "Chinese",
	"jpn": "Japanese",
	"kor": "Korean",
	"rus": "Russian",
	"arb": "Arabic",
	"nld": "Dutch",
	"swe": "Swedish",
	"dan": "Danish",
	"nob": "Norwegian",
	"fin": "Finnish",
}

// DetectLanguage runs statistical detection on the leading slice of text and
// maps the result to a canonical language name. The "English" result on empty
// text or detector failure is a documented default, not a true detection.
func DetectLanguage(text string) string {
	sample := text
	if len(sample) > languageSampleChars {
		sample = sample[:languageSampleChars]
	}
	if sample == "" {
		return "English"
	}

	info := whatlanggo.Detect(sample)
	if !info.IsReliable() {
		return "English"
	}

	code := whatlanggo.LangToString(info.Lang)
	if name, ok := languageNames[code]; ok {
		return name
	}
	if name, ok := whatlanggo.Langs[info.Lang]; ok && name != "" {
		return name
	}
	return "English"
}
