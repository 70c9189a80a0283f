package enrichment

import (
	"regexp"
	"strconv"
)

// Years outside this range are treated as false matches (page numbers, ids).
const (
	minPlausibleYear = 1990
	maxPlausibleYear = 2030
)

const (
	academicDateWindow = 5000
	generalDateWindow  = 3000
)

// Academic/publication markers are tried first: they are more reliable for
// papers than arbitrary in-text dates.
var academicDateRes = []*regexp.Regexp{
	regexp.MustCompile(`©[^0-9\n]*(\d{4})`),
	regexp.MustCompile(`The Author\(s\)\s*(\d{4})`),
	regexp.MustCompile(`(?i)Published[^0-9\n]*(\d{4})`),
	regexp.MustCompile(`(?i)Publication Date:?\s*([A-Za-z]+ \d{4})`),
	regexp.MustCompile(`(?i)Date[^0-9\n]*(\d{4})`),
}

var generalDateRes = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`),
	regexp.MustCompile(`\d{1,2}-\d{1,2}-\d{4}`),
	regexp.MustCompile(`[A-Za-z]+ \d{1,2},? \d{4}`),
	regexp.MustCompile(`\d{1,2} [A-Za-z]+ \d{4}`),
	regexp.MustCompile(`[A-Za-z]+ \d{4}`),
}

var yearRe = regexp.MustCompile(`(19|20)\d{2}`)

// dateChain tries academic markers, then generic date formats. The caller
// supplies the processing-date default when nothing validates.
var dateChain = []Strategy{academicDate, generalDate}

// ExtractDate searches the leading text for a publication date. The first
// match with a plausible year wins.
func ExtractDate(text string) (string, bool) {
	return firstMatch(text, dateChain)
}

func academicDate(text string) (string, bool) {
	window := text
	if len(window) > academicDateWindow {
		window = window[:academicDateWindow]
	}
	for _, re := range academicDateRes {
		for _, m := range re.FindAllStringSubmatch(window, -1) {
			candidate := m[1]
			if year, ok := plausibleYear(candidate); ok {
				if len(candidate) > 4 {
					return candidate, true
				}
				return strconv.Itoa(year), true
			}
		}
	}
	return "", false
}

func generalDate(text string) (string, bool) {
	window := text
	if len(window) > generalDateWindow {
		window = window[:generalDateWindow]
	}
	for _, re := range generalDateRes {
		for _, candidate := range re.FindAllString(window, -1) {
			if _, ok := plausibleYear(candidate); ok {
				return candidate, true
			}
		}
	}
	return "", false
}

func plausibleYear(s string) (int, bool) {
	m := yearRe.FindString(s)
	if m == "" {
		return 0, false
	}
	year, err := strconv.Atoi(m)
	if err != nil || year < minPlausibleYear || year > maxPlausibleYear {
		return 0, false
	}
	return year, true
}
