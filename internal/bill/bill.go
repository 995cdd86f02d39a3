package bill

// Status is the derived payment state of a bill.
type Status string

const (
	StatusDue     Status = "due"
	StatusOverdue Status = "overdue"
	StatusPaid    Status = "paid"
)

// Bill represents one detected utility invoice extracted from one email.
// The ID comes from the source message identifier and is never recomputed
// from content; deduplication depends on that.
type Bill struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
	Subject  string `json:"subject"`
	Received string `json:"received,omitempty"` // RFC3339, as reported by the mail source

	AmountDue      string   `json:"amount_due,omitempty"`
	AmountDueValue *float64 `json:"amount_due_value,omitempty"`
	DueDate        string   `json:"due_date,omitempty"`
	DueDateISO     string   `json:"due_date_iso,omitempty"`
	Status         Status   `json:"status"`
	Snippet        string   `json:"snippet,omitempty"`

	From        string `json:"from,omitempty"`
	FromAddress string `json:"from_address,omitempty"`

	// Provider-specific extras.
	AccountNumber   string `json:"account_number,omitempty"`
	BillingDate     string `json:"billing_date,omitempty"`
	BillingDateISO  string `json:"billing_date_iso,omitempty"`
	ServiceAddress  string `json:"service_address,omitempty"`
	CustomerName    string `json:"customer_name,omitempty"`
	ForwardedSender string `json:"forwarded_sender,omitempty"`
}

// Summary holds the aggregate metrics computed over one snapshot's bills.
type Summary struct {
	ByProvider     map[string]int `json:"by_provider"`
	TotalAmountDue float64        `json:"total_amount_due"`
	NextDueDate    string         `json:"next_due_date,omitempty"`
	OverdueCount   int            `json:"overdue_count"`
}

// Snapshot is the full result of one poll cycle.
type Snapshot struct {
	Bills      []Bill  `json:"bills"`
	Summary    Summary `json:"summary"`
	Count      int     `json:"count"`
	LastUpdate string  `json:"last_update,omitempty"`
}

// EmptySnapshot returns the snapshot served before the first successful poll.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Bills:   []Bill{},
		Summary: Summary{ByProvider: map[string]int{}},
	}
}
