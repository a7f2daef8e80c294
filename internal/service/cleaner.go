package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartSessionCleaner deletes expired sessions with interval
func StartSessionCleaner(
	ctx context.Context,
	sessions *SessionService,
	interval time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := sessions.repo.DeleteExpiredSessions(ctx, sessions.now())
				if err != nil {
					log.Error("failed to clean expired sessions", zap.Error(err))
					continue
				}
				if removed > 0 {
					log.Info("cleaned expired sessions", zap.Int("removed", removed))
				}
			}
		}
	}()
}
