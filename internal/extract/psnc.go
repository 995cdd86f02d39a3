package extract

import "regexp"

var accountMaskRe = regexp.MustCompile(`[^0-9*]`)

// PSNCEnergy matches PSNC Energy / Dominion Energy gas draft notifications.
// The "due date" on these is the bank draft date.
func PSNCEnergy() *Provider {
	return &Provider{
		ID:          "psnc_energy",
		DisplayName: "PSNC Energy",
		Identifiers: [][]string{
			{"psnc energy"},
			{"messages.psncenergy.com"},
			{"dominion energy"},
			{"enbridge gas"},
			{"dominionenergync.com"},
		},

		AccountRe:        regexp.MustCompile(`(?i)Account\s+Ending\s+In:\s*([A-Za-z0-9*]+)`),
		AmountRe:         regexp.MustCompile(`(?i)Amount\s+to\s+Be\s+Drafted:\s*\$?([0-9,]+(?:\.[0-9]{2})?)`),
		DueDateRe:        regexp.MustCompile(`(?i)Date\s+of\s+Bank\s+Draft:\s*([A-Za-z0-9.,\-/ ]+)`),
		ServiceAddressRe: regexp.MustCompile(`(?i)Service\s+Address:\s*([A-Za-z0-9.,#*\- ]+)`),

		// Accounts arrive masked ("** ** 1234"); keep digits and asterisks.
		NormalizeAccount: func(value string) string {
			return accountMaskRe.ReplaceAllString(value, "")
		},
	}
}
