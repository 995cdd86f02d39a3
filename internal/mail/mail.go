package mail

import (
	"context"
	"time"
)

// Message is one fetched email, flattened to the fields the extraction
// pipeline consumes. Fields may be empty when the source message lacked them.
type Message struct {
	UID         string
	MessageID   string
	FromName    string
	FromAddress string
	Subject     string
	Body        string
	ReceivedAt  string // RFC3339, empty when the server reported no date
}

// ID returns the stable identifier used for bill deduplication: the RFC 5322
// message id when present, else the mailbox-assigned UID.
func (m Message) ID() string {
	if m.MessageID != "" {
		return m.MessageID
	}
	return m.UID
}

// Mailbox fetches messages received since a given time.
type Mailbox interface {
	Fetch(ctx context.Context, since time.Time) ([]Message, error)
}
