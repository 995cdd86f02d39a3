package extract

import (
	"html"
	"io"
	"mime/quotedprintable"
	"regexp"
	"strings"
)

// snippetLength caps the body preview carried on a bill record.
const snippetLength = 240

var (
	// Block-level tags become newlines before stripping so that values keep
	// their separation from labels ("Account Number:</td><td>123" must not
	// collapse to "Account Number:123").
	blockTagRe  = regexp.MustCompile(`(?i)</?(?:tr|p|div|li|table|tbody|thead|section|article|td|th)[^>]*>`)
	lineBreakRe = regexp.MustCompile(`(?i)<br\s*/?>`)
	tagRe       = regexp.MustCompile(`<[^>]+>`)
	spaceRunRe  = regexp.MustCompile(`\s+`)
)

// Normalize flattens a raw email body, possibly quoted-printable encoded
// HTML, into a single whitespace-collapsed line of searchable text. Empty
// input yields an empty string; it never fails.
func Normalize(body string) string {
	if body == "" {
		return ""
	}

	text := body
	if decoded, err := io.ReadAll(quotedprintable.NewReader(strings.NewReader(body))); err == nil {
		text = string(decoded)
	}

	text = html.UnescapeString(text)
	text = blockTagRe.ReplaceAllString(text, "\n")
	text = lineBreakRe.ReplaceAllString(text, "\n")
	text = tagRe.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	text = spaceRunRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Snippet returns a bounded-length preview of normalized text for display.
func Snippet(text string) string {
	runes := []rune(text)
	if len(runes) > snippetLength {
		runes = runes[:snippetLength]
	}
	return string(runes)
}
