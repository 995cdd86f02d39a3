package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/zombor/bill-tracker/internal/bill"
	"github.com/zombor/bill-tracker/internal/mail"
)

// Extractor turns one fetched message into zero or more bill records. An
// extractor that does not recognize the message returns nil; it must never
// fail outright.
type Extractor interface {
	Name() string
	Extract(msg mail.Message, now time.Time) []bill.Bill
}

// Provider is a declarative structured-field extractor: identifying markers
// gate extraction, then each labeled-field regex captures one output field
// from the normalized body. Nil regexes are simply skipped, so a provider
// declares only the labels its emails carry.
type Provider struct {
	ID          string // registry name
	DisplayName string

	// Identifiers gate extraction against the lowercased subject+body:
	// the outer list matches if any group matches, a group matches only if
	// all of its substrings appear.
	Identifiers [][]string

	AccountRe         *regexp.Regexp
	AmountRe          *regexp.Regexp
	DueDateRe         *regexp.Regexp
	BillingDateRe     *regexp.Regexp
	ServiceAddressRe  *regexp.Regexp
	CustomerNameRe    *regexp.Regexp
	ForwardedSenderRe *regexp.Regexp

	// NormalizeAccount optionally cleans a captured account value, e.g.
	// masked digits pasted with spaces.
	NormalizeAccount func(string) string
}

func (p *Provider) Name() string { return p.ID }

// Extract applies the provider's field table to one message. A record is
// emitted only when at least one of account number, amount, due date or
// billing date was located; a bare identifier match is not a bill.
func (p *Provider) Extract(msg mail.Message, now time.Time) []bill.Bill {
	subject := strings.TrimSpace(msg.Subject)
	normalized := Normalize(msg.Body)
	combined := strings.ToLower(subject + " " + normalized)

	if !p.identified(combined) {
		return nil
	}

	account := searchGroup(p.AccountRe, normalized)
	if account != "" && p.NormalizeAccount != nil {
		account = p.NormalizeAccount(account)
	}

	amountDisplay, amountValue := ParseAmount(searchGroup(p.AmountRe, normalized))

	dueDisplay := FirstDate(searchGroup(p.DueDateRe, normalized))
	dueISO := ParseDateISO(dueDisplay)

	billingDisplay := FirstDate(searchGroup(p.BillingDateRe, normalized))
	billingISO := ParseDateISO(billingDisplay)

	if account == "" && amountDisplay == "" && dueDisplay == "" && billingDisplay == "" {
		return nil
	}

	b := bill.Bill{
		ID:             msg.ID(),
		Provider:       p.DisplayName,
		Subject:        subject,
		Received:       msg.ReceivedAt,
		AmountDue:      amountDisplay,
		AmountDueValue: amountValue,
		DueDate:        dueDisplay,
		DueDateISO:     dueISO,
		Status:         DeriveStatus(combined, dueISO, now),
		Snippet:        Snippet(normalized),
		From:           msg.FromName,
		FromAddress:    msg.FromAddress,
		AccountNumber:  account,
		BillingDate:    billingDisplay,
		BillingDateISO: billingISO,
		ServiceAddress: searchGroup(p.ServiceAddressRe, normalized),
		CustomerName:   searchGroup(p.CustomerNameRe, normalized),
	}

	// A forwarded bill carries the original biller's address in the body;
	// attribute the record to that sender rather than the forwarding account.
	if forwarded := searchGroup(p.ForwardedSenderRe, normalized); forwarded != "" {
		b.ForwardedSender = forwarded
		b.FromAddress = forwarded
		b.From = p.DisplayName
	}

	return []bill.Bill{b}
}

func (p *Provider) identified(combined string) bool {
	for _, group := range p.Identifiers {
		if len(group) == 0 {
			continue
		}
		all := true
		for _, marker := range group {
			if !strings.Contains(combined, marker) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// searchGroup returns the trimmed first capture group of a regex, or "" when
// the regex is nil or does not match.
func searchGroup(re *regexp.Regexp, text string) string {
	if re == nil {
		return ""
	}
	if match := re.FindStringSubmatch(text); len(match) > 1 {
		return strings.TrimSpace(match[1])
	}
	return ""
}
