package extract

import (
	"strconv"
	"strings"
)

// ParseAmount splits a captured amount into its display form and numeric
// value. The display keeps the original formatting with a leading dollar
// sign ensured; the value is nil when the digits do not parse. It never
// fails.
func ParseAmount(raw string) (string, *float64) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	display := raw
	if !strings.HasPrefix(display, "$") {
		display = "$" + display
	}

	normalized := strings.TrimPrefix(raw, "$")
	normalized = strings.ReplaceAll(normalized, ",", "")
	value, err := strconv.ParseFloat(strings.TrimSpace(normalized), 64)
	if err != nil {
		return display, nil
	}
	return display, &value
}
