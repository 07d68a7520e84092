package remind

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dtran/taskpulse/internal/clock"
	"github.com/dtran/taskpulse/internal/config"
	"github.com/dtran/taskpulse/internal/store"
	"github.com/dtran/taskpulse/internal/sweep"
)

// Retention purges aged-out records: read notifications past the
// notification age, abandonment records past the abandonment age
// regardless of resumed state. Deletes are best-effort bulk
// operations; only counts come back.
type Retention struct {
	store  store.Store
	clock  clock.Clock
	cfg    config.RetentionConfig
	logger *slog.Logger
}

// NewRetention creates the retention sweep.
func NewRetention(s store.Store, c clock.Clock, cfg config.RetentionConfig, logger *slog.Logger) *Retention {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retention{store: s, clock: c, cfg: cfg, logger: logger}
}

// Run performs one cleanup pass. A failure on one delete does not stop
// the other.
func (r *Retention) Run(ctx context.Context) (sweep.Summary, error) {
	var summary sweep.Summary
	now := r.clock.Now().UTC()

	notifCutoff := now.Add(-time.Duration(r.cfg.NotificationDays) * 24 * time.Hour)
	deletedNotifs, err := r.store.DeleteReadNotificationsBefore(ctx, notifCutoff)
	if err != nil {
		summary.Fail(fmt.Errorf("purging notifications: %w", err))
	} else {
		summary.Emitted += int(deletedNotifs)
	}

	abandonCutoff := now.Add(-time.Duration(r.cfg.AbandonmentDays) * 24 * time.Hour)
	deletedAbandonments, err := r.store.DeleteAbandonmentsBefore(ctx, abandonCutoff)
	if err != nil {
		summary.Fail(fmt.Errorf("purging abandonments: %w", err))
	} else {
		summary.Emitted += int(deletedAbandonments)
	}

	r.logger.Info("retention sweep done",
		"notifications_deleted", deletedNotifs,
		"abandonments_deleted", deletedAbandonments,
	)
	return summary, nil
}
