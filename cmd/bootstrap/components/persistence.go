package components

import (
	"context"
	"log/slog"

	"pos-checkout/internal/infra/cache"
	"pos-checkout/internal/pkg/config"
	"pos-checkout/internal/usecase/shared"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence/cache",
	fx.Provide(
		NewReplayCache,
	),
)

// NewReplayCache returns nil when Redis is disabled; checkout then replays from the
// durable guard record only.
func NewReplayCache(lc fx.Lifecycle, cfg config.Config) shared.ReplayCache {
	if !cfg.Redis.Enabled {
		return nil
	}

	client := cache.NewRedisClient(cfg.Redis)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				// an unreachable cache degrades replays, it does not block startup
				slog.Warn("redis replay cache unreachable", "addr", cfg.Redis.Addr, "error", err.Error())
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	return cache.NewReplayCache(client, cfg.Redis.ReplayTTL)
}
