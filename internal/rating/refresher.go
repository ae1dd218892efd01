package rating

import (
	"context"
	"log/slog"
	"time"
)

// Refresher periodically runs a full rating refresh. Each tick is
// gated on the rating service's health so a known-down upstream is not
// hammered with per-caregiver requests.
type Refresher struct {
	service  *Service
	interval time.Duration
	logger   *slog.Logger
}

func NewRefresher(service *Service, interval time.Duration, logger *slog.Logger) *Refresher {
	return &Refresher{service: service, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled, refreshing on every tick. It is
// meant to be started in its own goroutine.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Refresher) tick(ctx context.Context) {
	if !r.service.Healthy(ctx) {
		r.logger.WarnContext(ctx, "rating service unhealthy, skipping refresh")
		return
	}

	start := time.Now()
	if err := r.service.RefreshAll(ctx); err != nil {
		r.logger.ErrorContext(ctx, "rating refresh sweep failed", "error", err)
		return
	}
	r.logger.InfoContext(ctx, "rating refresh completed", "duration_ms", time.Since(start).Milliseconds())
}
