package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// StaleOrderExpirer fails pending orders created before cutoff.
type StaleOrderExpirer interface {
	ExpireStale(ctx context.Context, cutoff time.Time) (int, error)
}

// Sweeper periodically fails pending orders that outlived their TTL.
type Sweeper struct {
	orders   StaleOrderExpirer
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

// NewSweeper creates a sweeper. A nil now uses time.Now.
func NewSweeper(orders StaleOrderExpirer, ttl, interval time.Duration, now func() time.Time, logger zerolog.Logger) *Sweeper {
	if now == nil {
		now = time.Now
	}
	return &Sweeper{
		orders:   orders,
		ttl:      ttl,
		interval: interval,
		now:      now,
		logger:   logger.With().Str("component", "order-sweeper").Logger(),
	}
}

// Run sweeps once immediately and then on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().
		Dur("ttl", s.ttl).
		Dur("interval", s.interval).
		Msg("order sweeper started")

	s.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("order sweeper stopped")
			return nil
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs a single pass. Failures are logged and retried on the next tick.
func (s *Sweeper) Sweep(ctx context.Context) int {
	cutoff := s.now().Add(-s.ttl)

	n, err := s.orders.ExpireStale(ctx, cutoff)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error().Err(err).Time("cutoff", cutoff).Msg("failed to sweep pending orders")
		}
		return 0
	}

	if n > 0 {
		s.logger.Info().Int("expired", n).Time("cutoff", cutoff).Msg("stale pending orders expired")
	}
	return n
}
