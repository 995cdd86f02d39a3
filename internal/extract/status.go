package extract

import (
	"strings"
	"time"

	"github.com/zombor/bill-tracker/internal/bill"
)

// statusHints maps explicit phrases to a status, checked in order against the
// lowercased subject+body. The same table applies to every extractor.
var statusHints = []struct {
	phrase string
	status bill.Status
}{
	{"past due", bill.StatusOverdue},
	{"overdue", bill.StatusOverdue},
	{"late fee", bill.StatusOverdue},
	{"paid", bill.StatusPaid},
	{"payment received", bill.StatusPaid},
}

// DeriveStatus infers a bill's status. Explicit keywords in the combined
// lowercased text win; otherwise a resolvable due date strictly before today
// (UTC) means overdue, and everything else is due.
func DeriveStatus(combined, dueISO string, now time.Time) bill.Status {
	for _, hint := range statusHints {
		if strings.Contains(combined, hint.phrase) {
			return hint.status
		}
	}

	if dueISO != "" {
		if due, err := time.Parse("2006-01-02", dueISO); err == nil {
			today := now.UTC()
			todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
			if due.Before(todayDate) {
				return bill.StatusOverdue
			}
		}
	}
	return bill.StatusDue
}
