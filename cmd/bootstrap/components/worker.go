package components

import (
	"context"
	"log/slog"

	"pos-checkout/internal/infra/messaging"
	"pos-checkout/internal/pkg/clock"
	"pos-checkout/internal/pkg/config"
	"pos-checkout/internal/usecase/commands"
	"pos-checkout/internal/usecase/shared"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Invoke(
		startIdempotencySweeper,
		startOutboxRelay,
	),
)

func startIdempotencySweeper(lc fx.Lifecycle, sweeper *commands.IdempotencySweeper) {
	runInBackground(lc, "idempotency sweeper", sweeper.Run)
}

// Without Kafka the outbox still records events; they stay pending until a relay runs.
func startOutboxRelay(lc fx.Lifecycle, cfg config.Config, outbox shared.OutboxStore, clk clock.Clock) {
	if !cfg.Kafka.Enabled {
		return
	}
	writer := messaging.NewKafkaWriter(cfg.Kafka)
	relay := messaging.NewOutboxRelay(outbox, writer, clk, cfg.Kafka)
	// hooks stop in reverse order, so the writer closes after the relay has returned
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return writer.Close()
		},
	})
	runInBackground(lc, "outbox relay", relay.Run)
}

func runInBackground(lc fx.Lifecycle, name string, run func(ctx context.Context)) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			slog.Info("starting background worker", "worker", name)
			go func() {
				defer close(done)
				run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
			return nil
		},
	})
}
