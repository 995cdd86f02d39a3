package extract

import (
	"regexp"
	"strings"
	"time"
)

const monthNamePattern = `(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|` +
	`May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:t(?:ember)?)?|` +
	`Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)`

// dateFinderRe matches the first recognizable date token in a span: a
// month-name date ("March 3, 2025") or a numeric MM/DD/YYYY-family date.
var dateFinderRe = regexp.MustCompile(`(?i)(` + monthNamePattern +
	`\.?\s+\d{1,2},?\s+\d{4}|\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`)

// dateLayouts is the fixed, ordered list of calendar formats tried during
// normalization. First successful parse wins.
var dateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"1/2/2006",
	"1/2/06",
	"1-2-2006",
	"1-2-06",
}

var isoDateReplacer = strings.NewReplacer("\n", " ", "\r", " ", "\u00a0", " ", ".", "")

// FirstDate rescans a captured span for the first recognizable date token,
// discarding trailing text the label capture may have swallowed. When no
// token is found the trimmed span is returned as-is.
func FirstDate(value string) string {
	if value == "" {
		return ""
	}
	if match := dateFinderRe.FindString(value); match != "" {
		return strings.TrimSpace(match)
	}
	return strings.TrimSpace(value)
}

// ParseDateISO converts a display date to YYYY-MM-DD, or "" when no known
// format matches.
func ParseDateISO(value string) string {
	if value == "" {
		return ""
	}

	cleaned := isoDateReplacer.Replace(value)
	cleaned = strings.TrimSpace(spaceRunRe.ReplaceAllString(cleaned, " "))

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, cleaned); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	return ""
}
