package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/xavierca1/lead-ledger/internal/entity"
	"github.com/xavierca1/lead-ledger/internal/infra/metrics"
)

type UnprocessedLister interface {
	ListUnprocessed(ctx context.Context) ([]entity.Lead, error)
}

// UnprocessedWorker publishes the size of the New backlog and warns about stale leads.
type UnprocessedWorker struct {
	lister       UnprocessedLister
	staleAfter   time.Duration
	tickInterval time.Duration
	now          func() time.Time
	logger       *slog.Logger
}

func NewUnprocessedWorker(lister UnprocessedLister, interval time.Duration, now func() time.Time, logger *slog.Logger) *UnprocessedWorker {
	return &UnprocessedWorker{
		lister:       lister,
		staleAfter:   72 * time.Hour,
		tickInterval: interval,
		now:          now,
		logger:       logger,
	}
}

func (w *UnprocessedWorker) Start(ctx context.Context) {
	w.logger.Info("unprocessed lead monitor started", "interval", w.tickInterval.String())

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("unprocessed lead monitor stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce returns how many leads are still New and how many of them are stale.
func (w *UnprocessedWorker) RunOnce(ctx context.Context) (pending, stale int) {
	leads, err := w.lister.ListUnprocessed(ctx)
	if err != nil {
		w.logger.Error("failed to list unprocessed leads", "error", err)
		return 0, 0
	}

	cutoff := entity.TruncateDay(w.now().Add(-w.staleAfter))
	for _, l := range leads {
		if l.SignupDate.Before(cutoff) {
			stale++
		}
	}

	metrics.SetUnprocessedLeads(len(leads))
	if stale > 0 {
		w.logger.Warn("stale unprocessed leads", "pending", len(leads), "stale", stale)
	} else {
		w.logger.Debug("unprocessed leads checked", "pending", len(leads))
	}
	return len(leads), stale
}
