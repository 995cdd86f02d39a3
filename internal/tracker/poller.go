package tracker

import (
	"context"
	"log/slog"
	"time"
)

// Poller refreshes the service on a fixed interval.
type Poller struct {
	service  *Service
	interval time.Duration
}

// NewPoller creates a new Poller
func NewPoller(service *Service, interval time.Duration) *Poller {
	return &Poller{service: service, interval: interval}
}

// Run refreshes immediately, then on every tick until the context is done.
// A failed cycle is logged and the previous snapshot stays current.
func (p *Poller) Run(ctx context.Context) {
	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

func (p *Poller) refresh(ctx context.Context) {
	snapshot, err := p.service.Refresh(ctx)
	if err != nil {
		slog.Error("Refresh failed, keeping previous snapshot", "error", err)
		return
	}
	slog.Info("Refreshed bills",
		"count", snapshot.Count,
		"overdue", snapshot.Summary.OverdueCount,
		"total_due", snapshot.Summary.TotalAmountDue,
	)
}
