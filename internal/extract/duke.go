package extract

import "regexp"

// DukeEnergy matches Duke Energy billing notification emails.
func DukeEnergy() *Provider {
	return &Provider{
		ID:          "duke_energy",
		DisplayName: "Duke Energy",
		Identifiers: [][]string{{"duke energy"}},

		AccountRe:     regexp.MustCompile(`(?i)Account\s+Number:\s*([0-9\-]+)`),
		AmountRe:      regexp.MustCompile(`(?i)Amount\s+Due:\s*\$?([0-9,]+(?:\.[0-9]{2})?)`),
		DueDateRe:     regexp.MustCompile(`(?i)Due\s+Date:\s*([A-Za-z0-9.,\-/ ]+)`),
		BillingDateRe: regexp.MustCompile(`(?i)Billing\s+Date:\s*([A-Za-z0-9.,\-/ ]+)`),
	}
}
