package db

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// CleanExpiredSessions removes sessions whose expiry is before now and
// returns the number of deleted rows.
func CleanExpiredSessions(ctx context.Context, db *sqlx.DB, now time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, db.Rebind(`DELETE FROM sessions WHERE expires_at < ?`), now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows, nil
}

// StartSessionCleaner schedules CleanExpiredSessions every interval.
// The scheduler stops when ctx is cancelled.
func StartSessionCleaner(
	ctx context.Context,
	db *sqlx.DB,
	interval time.Duration,
	log *zap.Logger,
) (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(time.UTC)
	_, err := s.Every(interval).Do(func() {
		rows, err := CleanExpiredSessions(ctx, db, time.Now())
		if err != nil {
			log.Error("failed to clean expired sessions", zap.Error(err))
			return
		}
		if rows > 0 {
			log.Info("cleaned expired sessions", zap.Int64("removed", rows))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule session cleaner: %w", err)
	}

	s.StartAsync()
	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return s, nil
}
