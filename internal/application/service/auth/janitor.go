package auth_service

import (
	"context"
	"log/slog"
	"time"

	auth_service "landing/internal/domain/ports/input/auth"
	ports "landing/internal/domain/ports/output"
)

// RunSessionJanitor purges expired sessions every interval until ctx is
// done. A failed purge is logged and retried on the next tick.
func RunSessionJanitor(ctx context.Context, svc auth_service.Service, interval time.Duration, log ports.Logger) {
	if interval <= 0 {
		log.Warn("Session janitor disabled", slog.Duration("interval", interval))
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("Session janitor started", slog.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			log.Info("Session janitor stopped")
			return
		case <-ticker.C:
			if _, err := svc.PurgeExpiredSessions(ctx); err != nil {
				log.Error("Failed to purge expired sessions", slog.String("error", err.Error()))
			}
		}
	}
}
