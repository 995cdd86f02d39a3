package bill

import (
	"math"
	"sort"
	"time"
)

// Aggregate deduplicates, orders and limits one extraction batch, then
// computes its summary. It is a pure function of its input: calling it again
// on its own output yields the same result.
func Aggregate(bills []Bill, max int) ([]Bill, Summary) {
	unique := dedupe(bills)

	// Most recent first; records without a received date sort last.
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Received > unique[j].Received
	})

	if max > 0 && len(unique) > max {
		unique = unique[:max]
	}

	return unique, Summarize(unique)
}

// dedupe keeps the first occurrence of each non-empty identifier. Records
// without an identifier are never deduplicated against each other.
func dedupe(bills []Bill) []Bill {
	seen := make(map[string]struct{}, len(bills))
	unique := make([]Bill, 0, len(bills))
	for _, b := range bills {
		if b.ID != "" {
			if _, ok := seen[b.ID]; ok {
				continue
			}
			seen[b.ID] = struct{}{}
		}
		unique = append(unique, b)
	}
	return unique
}

// Summarize computes the aggregate metrics over a deduplicated bill list.
func Summarize(bills []Bill) Summary {
	summary := Summary{ByProvider: make(map[string]int)}

	var total float64
	for _, b := range bills {
		provider := b.Provider
		if provider == "" {
			provider = "Unknown"
		}
		summary.ByProvider[provider]++

		if b.AmountDueValue != nil {
			total += *b.AmountDueValue
		}
		if b.DueDateISO != "" {
			summary.NextDueDate = minISODate(summary.NextDueDate, b.DueDateISO)
		}
		if b.Status == StatusOverdue {
			summary.OverdueCount++
		}
	}

	summary.TotalAmountDue = math.Round(total*100) / 100
	return summary
}

// minISODate returns the earlier of two ISO dates. An unparseable candidate
// keeps the existing value.
func minISODate(existing, candidate string) string {
	if existing == "" {
		return candidate
	}

	existingDate, err := time.Parse("2006-01-02", existing)
	if err != nil {
		return existing
	}
	candidateDate, err := time.Parse("2006-01-02", candidate)
	if err != nil {
		return existing
	}

	if candidateDate.Before(existingDate) {
		return candidate
	}
	return existing
}
