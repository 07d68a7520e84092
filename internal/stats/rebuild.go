// Package stats rebuilds the per-user statistics snapshot from source
// data. The snapshot is a cache, never a source of truth; a rebuild is
// always safe to repeat.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/dtran/taskpulse/internal/clock"
	"github.com/dtran/taskpulse/internal/model"
	"github.com/dtran/taskpulse/internal/store"
	"github.com/dtran/taskpulse/internal/streak"
	"github.com/dtran/taskpulse/internal/sweep"
)

// Rebuilder derives UserStats snapshots.
type Rebuilder struct {
	store  store.Store
	clock  clock.Clock
	loc    *time.Location
	logger *slog.Logger
}

// NewRebuilder creates a Rebuilder. loc is the user's reference
// timezone for calendar-date derivations; nil means local time.
func NewRebuilder(s store.Store, c clock.Clock, loc *time.Location, logger *slog.Logger) *Rebuilder {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Rebuilder{store: s, clock: c, loc: loc, logger: logger}
}

// RebuildUser recomputes and upserts one user's snapshot.
func (r *Rebuilder) RebuildUser(ctx context.Context, userID string) error {
	counts, err := r.store.CountTasksByStatus(ctx, userID)
	if err != nil {
		return fmt.Errorf("counting tasks: %w", err)
	}

	completionRate := 0.0
	if counts.Total > 0 {
		completionRate = float64(counts.Completed) / float64(counts.Total) * 100
		completionRate = math.Round(completionRate*100) / 100
	}

	totalMinutes, sessionCount, err := r.store.SessionTotals(ctx, userID)
	if err != nil {
		return fmt.Errorf("summing sessions: %w", err)
	}
	avgDuration := 0
	if sessionCount > 0 {
		avgDuration = int(math.Round(float64(totalMinutes) / float64(sessionCount)))
	}

	stamps, err := r.store.CompletionTimestamps(ctx, userID)
	if err != nil {
		return fmt.Errorf("listing completions: %w", err)
	}
	now := r.clock.Now()
	today := streak.DateOf(now, r.loc)
	current, longest := streak.Compute(streak.Days(stamps, r.loc), today)

	snapshot := model.UserStats{
		UserID:                 userID,
		TotalTasks:             counts.Total,
		CompletedTasks:         counts.Completed,
		PendingTasks:           counts.Pending,
		InProgressTasks:        counts.InProgress,
		CompletionRate:         completionRate,
		TotalFocusMinutes:      totalMinutes,
		TotalFocusSessions:     sessionCount,
		AverageSessionDuration: avgDuration,
		CurrentStreak:          current,
		LongestStreak:          longest,
		LastCalculatedAt:       now.UTC(),
	}
	if err := r.store.UpsertUserStats(ctx, snapshot); err != nil {
		return err
	}

	r.logger.Debug("user stats rebuilt",
		"user_id", userID,
		"completion_rate", completionRate,
		"current_streak", current,
		"longest_streak", longest,
	)
	return nil
}

// RebuildAll recomputes snapshots for every known user. One user's
// failure is collected and the rest still rebuild.
func (r *Rebuilder) RebuildAll(ctx context.Context) (sweep.Summary, error) {
	var summary sweep.Summary

	userIDs, err := r.store.ListUserIDs(ctx)
	if err != nil {
		return summary, fmt.Errorf("listing users: %w", err)
	}

	for _, userID := range userIDs {
		summary.Record()
		if err := r.RebuildUser(ctx, userID); err != nil {
			r.logger.Error("stats rebuild failed", "user_id", userID, "error", err)
			summary.Fail(fmt.Errorf("user %s: %w", userID, err))
			continue
		}
		summary.Emit()
	}
	return summary, nil
}
