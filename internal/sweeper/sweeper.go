// Package sweeper runs the periodic inactivity eviction. The tick
// period doubles as the staleness threshold.
package sweeper

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecocaval/Bate-Papo-UOL-API/internal/service"
)

type Sweeper struct {
	svc      *service.ChatService
	interval time.Duration
	log      zerolog.Logger
}

func New(svc *service.ChatService, interval time.Duration, log zerolog.Logger) *Sweeper {
	return &Sweeper{svc: svc, interval: interval, log: log}
}

// Run ticks until ctx is cancelled. A failed tick is logged and the
// next one runs as scheduled; a store error never stops the sweep.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			evicted, err := s.svc.EvictInactive(ctx, s.interval)
			if err != nil {
				s.log.Error().Err(err).Msg("sweep failed")
				continue
			}
			if evicted > 0 {
				s.log.Info().Int("evicted", evicted).Msg("swept inactive participants")
			}
		}
	}
}
