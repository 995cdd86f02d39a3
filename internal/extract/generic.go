package extract

import (
	netmail "net/mail"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/zombor/bill-tracker/internal/bill"
	"github.com/zombor/bill-tracker/internal/mail"
)

// utilityKeywords gates the generic extractor: at least one must appear in
// the combined subject+body. Broad enough to catch unrecognized billers,
// narrow enough to skip ordinary e-commerce receipts.
var utilityKeywords = []string{
	"bill",
	"statement",
	"payment",
	"due",
	"utility",
	"electric",
	"gas",
	"water",
	"sewer",
	"trash",
	"invoice",
}

var (
	dateWordRe = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December|` +
		`Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sept|Oct|Nov|Dec)\s+\d{1,2}(?:,\s*\d{2,4})?`)
	dateNumericRe = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)

	// amountHintRe anchors a dollar amount to a nearby billing keyword;
	// amountLooseRe is the fallback for a bare $amount anywhere. The window
	// is lazy so the capture binds the first amount after the keyword, not
	// the last digits inside the window.
	amountHintRe = regexp.MustCompile(`(?i)(amount(?:\s+due|\s+owed|\s+payable)?|total(?:\s+due)?|balance(?:\s+due)?|payment)` +
		`[^\n\r]{0,32}?\$?\s*([0-9]{1,3}(?:,[0-9]{3})*(?:\.[0-9]{2})?|[0-9]+(?:\.[0-9]{2})?)`)
	amountLooseRe = regexp.MustCompile(`\$\s*([0-9]{1,3}(?:,[0-9]{3})*(?:\.[0-9]{2})?|[0-9]+(?:\.[0-9]{2})?)`)
)

// Generic is the fallback extractor for bill-like emails from senders no
// specific provider claims.
type Generic struct{}

func NewGeneric() *Generic { return &Generic{} }

func (g *Generic) Name() string { return "generic" }

// Extract attempts a best-effort extraction from any utility-looking email.
// Like every extractor, it refuses to emit a record when no concrete fact
// (amount or date) was found, so a lone keyword hit is not a bill.
func (g *Generic) Extract(msg mail.Message, now time.Time) []bill.Bill {
	subject := strings.TrimSpace(msg.Subject)
	normalized := Normalize(msg.Body)
	if subject == "" && normalized == "" {
		return nil
	}

	combined := subject + " " + normalized
	lower := strings.ToLower(combined)

	if !containsAny(lower, utilityKeywords) {
		return nil
	}

	amountDisplay, amountValue := extractAmount(normalized)
	dueDisplay := extractDueDate(combined)
	dueISO := ParseDateISO(dueDisplay)

	if amountDisplay == "" && dueDisplay == "" {
		return nil
	}

	b := bill.Bill{
		ID:             msg.ID(),
		Provider:       deriveProvider(msg),
		Subject:        subject,
		Received:       msg.ReceivedAt,
		AmountDue:      amountDisplay,
		AmountDueValue: amountValue,
		DueDate:        dueDisplay,
		DueDateISO:     dueISO,
		Status:         DeriveStatus(lower, dueISO, now),
		Snippet:        Snippet(normalized),
		From:           msg.FromName,
		FromAddress:    msg.FromAddress,
	}
	return []bill.Bill{b}
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func extractAmount(text string) (string, *float64) {
	if match := amountHintRe.FindStringSubmatch(text); len(match) > 2 {
		return ParseAmount(match[2])
	}
	if match := amountLooseRe.FindStringSubmatch(text); len(match) > 1 {
		return ParseAmount(match[1])
	}
	return "", nil
}

func extractDueDate(text string) string {
	if match := dateWordRe.FindString(text); match != "" {
		return strings.TrimSpace(match)
	}
	if match := dateNumericRe.FindString(text); match != "" {
		return strings.TrimSpace(match)
	}
	return ""
}

// deriveProvider picks the most useful label for an unrecognized biller:
// the sender's display name, else the sending domain title-cased.
func deriveProvider(msg mail.Message) string {
	display := strings.TrimSpace(msg.FromName)
	address := strings.TrimSpace(msg.FromAddress)

	if display == "" && address != "" {
		if parsed, err := netmail.ParseAddress(address); err == nil {
			display = strings.TrimSpace(parsed.Name)
			address = parsed.Address
		}
	}
	if address == "" && display != "" {
		if parsed, err := netmail.ParseAddress(display); err == nil {
			address = parsed.Address
			if parsed.Name != "" {
				display = parsed.Name
			}
		}
	}

	if display != "" {
		return display
	}
	if address != "" {
		domain := address
		if at := strings.LastIndex(address, "@"); at >= 0 {
			domain = address[at+1:]
		}
		name := domain
		if dot := strings.Index(domain, "."); dot >= 0 {
			name = domain[:dot]
		}
		name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
		return titleWords(name)
	}
	return "Unknown"
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
