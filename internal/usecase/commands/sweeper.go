package commands

import (
	"context"
	"log/slog"
	"time"

	"pos-checkout/internal/pkg/clock"
	"pos-checkout/internal/usecase/shared"
)

// IdempotencySweeper deletes expired guard records so they do not accumulate.
type IdempotencySweeper struct {
	repo     shared.IdempotencyRepository
	clock    clock.Clock
	interval time.Duration
}

func NewIdempotencySweeper(uow shared.UnitOfWork, clk clock.Clock, interval time.Duration) *IdempotencySweeper {
	return &IdempotencySweeper{repo: uow.Idempotency(), clock: clk, interval: interval}
}

func (s *IdempotencySweeper) SweepOnce(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.Info("expired idempotency keys removed", "count", n)
	}
	return n, nil
}

// Run sweeps every interval until ctx is done.
func (s *IdempotencySweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				slog.Error("idempotency sweep failed", "error", err.Error())
			}
		}
	}
}
