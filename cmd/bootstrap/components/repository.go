package components

import (
	"context"
	"log/slog"

	"pos-checkout/internal/infra/db"
	"pos-checkout/internal/infra/memstore"
	"pos-checkout/internal/infra/readstore"
	"pos-checkout/internal/infra/repository"
	"pos-checkout/internal/infra/uow"
	"pos-checkout/internal/pkg/clock"
	"pos-checkout/internal/pkg/config"
	"pos-checkout/internal/usecase/queries"
	"pos-checkout/internal/usecase/shared"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewStorage,
	),
)

// Storage is every port backed by the configured store.
type Storage struct {
	fx.Out

	UnitOfWork shared.UnitOfWork
	Sequence   shared.InvoiceSequence
	ReadStore  queries.SaleReadStore
	Outbox     shared.OutboxStore
}

func NewStorage(lc fx.Lifecycle, cfg config.Config, clk clock.Clock) (Storage, error) {
	if cfg.Store.Backend == config.StoreBackendMemory {
		slog.Warn("using in-memory store, data is lost on restart")
		store := memstore.New(clk)
		return Storage{
			UnitOfWork: store,
			Sequence:   store,
			ReadStore:  memstore.NewSaleReadStore(store),
			Outbox:     memstore.NewOutboxStore(store),
		}, nil
	}

	pool, cleanup, err := db.Connect(context.Background(), cfg.DB)
	if err != nil {
		return Storage{}, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	return Storage{
		UnitOfWork: uow.NewPostgresUoW(pool, clk),
		Sequence:   repository.NewInvoiceSequenceRepository(pool),
		ReadStore:  readstore.NewSaleReadStore(pool),
		Outbox:     repository.NewOutboxRepository(pool),
	}, nil
}
