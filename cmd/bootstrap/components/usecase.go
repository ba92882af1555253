package components

import (
	"pos-checkout/internal/pkg/clock"
	"pos-checkout/internal/pkg/config"
	"pos-checkout/internal/usecase"
	"pos-checkout/internal/usecase/commands"
	"pos-checkout/internal/usecase/queries"
	"pos-checkout/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewInvoiceNumberGenerator,
		commands.NewSaleCommands,
		func(uow shared.UnitOfWork, clk clock.Clock, cfg config.CheckoutConfig) *commands.IdempotencySweeper {
			return commands.NewIdempotencySweeper(uow, clk, cfg.SweepInterval)
		},
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewSaleQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
