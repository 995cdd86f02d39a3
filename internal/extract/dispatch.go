package extract

import (
	"log/slog"
	"time"

	"github.com/zombor/bill-tracker/internal/bill"
	"github.com/zombor/bill-tracker/internal/mail"
)

// Dispatcher runs an ordered extractor list over a fetched batch. Ordering
// matters: when two extractors claim the same email, both records are kept
// and downstream deduplication (which keys on record identity) lets the
// earlier extractor's record survive.
type Dispatcher struct {
	extractors []Extractor
}

// NewDispatcher builds a dispatcher over the given extractors, run in order.
func NewDispatcher(extractors ...Extractor) *Dispatcher {
	return &Dispatcher{extractors: extractors}
}

// DefaultExtractors returns the registered extractors in dispatch order.
// The generic fallback stays last so specific providers win deduplication.
func DefaultExtractors() []Extractor {
	return []Extractor{
		DukeEnergy(),
		PSNCEnergy(),
		RaleighWater(),
		NewGeneric(),
	}
}

// ExtractBills runs every extractor over every message and flattens the
// results in order. A failing extractor contributes nothing for that message;
// the remaining extractors and messages are unaffected.
func (d *Dispatcher) ExtractBills(msgs []mail.Message, now time.Time) []bill.Bill {
	var bills []bill.Bill
	for _, msg := range msgs {
		for _, extractor := range d.extractors {
			bills = append(bills, runExtractor(extractor, msg, now)...)
		}
	}
	return bills
}

func runExtractor(extractor Extractor, msg mail.Message, now time.Time) (result []bill.Bill) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("Extractor failed",
				"extractor", extractor.Name(),
				"message", msg.ID(),
				"panic", r,
			)
			result = nil
		}
	}()
	return extractor.Extract(msg, now)
}
