package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zombor/bill-tracker/internal/bill"
	"github.com/zombor/bill-tracker/internal/extract"
	"github.com/zombor/bill-tracker/internal/mail"
)

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Options bounds one poll cycle. Both values are validated at construction,
// matching the limits the mailbox owner configures.
type Options struct {
	LookbackDays int // how far back to search, 1-90
	MaxBills     int // retained records per snapshot, 10-500
}

func (o Options) validate() error {
	if o.LookbackDays < 1 || o.LookbackDays > 90 {
		return fmt.Errorf("lookback days must be between 1 and 90, got %d", o.LookbackDays)
	}
	if o.MaxBills < 10 || o.MaxBills > 500 {
		return fmt.Errorf("max bills must be between 10 and 500, got %d", o.MaxBills)
	}
	return nil
}

// Service runs the bill pipeline: fetch, extract, aggregate, persist.
type Service struct {
	mailbox    mail.Mailbox
	dispatcher *extract.Dispatcher
	db         DB
	opts       Options
	timeSource TimeSource
}

// NewService creates a new Service with the default time source
func NewService(mailbox mail.Mailbox, dispatcher *extract.Dispatcher, db DB, opts Options) (*Service, error) {
	return NewServiceWithDeps(mailbox, dispatcher, db, opts, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with a custom time source for testing
func NewServiceWithDeps(mailbox mail.Mailbox, dispatcher *extract.Dispatcher, db DB, opts Options, timeSource TimeSource) (*Service, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Service{
		mailbox:    mailbox,
		dispatcher: dispatcher,
		db:         db,
		opts:       opts,
		timeSource: timeSource,
	}, nil
}

// Refresh performs one full poll cycle and stores the result. A fetch
// failure returns an error and leaves the previously stored snapshot
// untouched, so callers keep serving the stale result.
func (s *Service) Refresh(ctx context.Context) (*bill.Snapshot, error) {
	now := s.timeSource.Now()
	since := now.AddDate(0, 0, -s.opts.LookbackDays)

	msgs, err := s.mailbox.Fetch(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("fetching mail: %w", err)
	}

	extracted := s.dispatcher.ExtractBills(msgs, now)
	bills, summary := bill.Aggregate(extracted, s.opts.MaxBills)

	snapshot := &bill.Snapshot{
		Bills:      bills,
		Summary:    summary,
		Count:      len(bills),
		LastUpdate: now.UTC().Format(time.RFC3339),
	}

	if err := s.db.SaveSnapshot(snapshot); err != nil {
		return nil, fmt.Errorf("saving snapshot: %w", err)
	}
	return snapshot, nil
}

// Latest returns the most recently stored snapshot, or an empty snapshot
// when no poll has succeeded yet.
func (s *Service) Latest() (*bill.Snapshot, error) {
	snapshot, err := s.db.GetSnapshot()
	if errors.Is(err, ErrNoSnapshot) {
		return bill.EmptySnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting snapshot: %w", err)
	}
	return snapshot, nil
}
