package extract

import "regexp"

// RaleighWater matches City of Raleigh utility bill emails, which typically
// arrive forwarded; the original sender is recovered from the quoted headers
// in the body.
func RaleighWater() *Provider {
	return &Provider{
		ID:          "raleigh_water",
		DisplayName: "City of Raleigh Water",
		Identifiers: [][]string{{"raleigh", "utility bill"}},

		AccountRe:         regexp.MustCompile(`(?i)Account:\s*([0-9\-]+)`),
		AmountRe:          regexp.MustCompile(`(?i)Amount\s+Due:\s*\$?([0-9,]+(?:\.[0-9]{2})?)`),
		DueDateRe:         regexp.MustCompile(`(?i)Due\s+Date:\s*([A-Za-z0-9.,\-/ ]+)`),
		CustomerNameRe:    regexp.MustCompile(`(?i)Customer\s+Name:\s*([A-Za-z ,.'-]+)`),
		ServiceAddressRe:  regexp.MustCompile(`(?i)Service\s+Address:\s*([A-Za-z0-9.,#' \-]+)`),
		ForwardedSenderRe: regexp.MustCompile(`(?i)From:\s*(?:<)?([^\s>]+@raleighnc\.gov)(?:>)?`),
	}
}
