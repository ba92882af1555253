package commands

import (
	"context"
	"fmt"
	"log/slog"

	"pos-checkout/internal/pkg/clock"
	"pos-checkout/internal/pkg/config"
	"pos-checkout/internal/pkg/errs"
	"pos-checkout/internal/pkg/logctx"
	"pos-checkout/internal/usecase/shared"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

const fallbackInvoicePrefix = "INV-"

type InvoiceNumberGenerator interface {
	// Next never fails: when the sequence source is unavailable it returns a fallback identifier.
	Next(ctx context.Context, businessID uuid.UUID) string
}

// invoiceGenerator formats numbers from the per-business sequence as <PREFIX>-<YYYY>-<000000n>.
// Numbers are allocated outside the commit unit, so failed commits leave gaps.
//
// Fallback ids are snowflake ids: unique per node up to 4096 per millisecond. Two processes
// configured with the same node id can collide; each fallback is logged so the risk is visible.
type invoiceGenerator struct {
	seq     shared.InvoiceSequence
	breaker *gobreaker.CircuitBreaker[int64]
	node    *snowflake.Node
	prefix  string
	clock   clock.Clock
}

func NewInvoiceNumberGenerator(seq shared.InvoiceSequence, cfg config.CheckoutConfig, clk clock.Clock) (InvoiceNumberGenerator, error) {
	node, err := snowflake.NewNode(cfg.InvoiceNodeID)
	if err != nil {
		return nil, errs.Wrapf(err, "invoice node id %d", cfg.InvoiceNodeID)
	}

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 1
	}
	breaker := gobreaker.NewCircuitBreaker[int64](gobreaker.Settings{
		Name:    "invoice-sequence",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &invoiceGenerator{
		seq:     seq,
		breaker: breaker,
		node:    node,
		prefix:  cfg.InvoicePrefix,
		clock:   clk,
	}, nil
}

func (g *invoiceGenerator) Next(ctx context.Context, businessID uuid.UUID) string {
	year := g.clock.Now().Year()

	n, err := g.breaker.Execute(func() (int64, error) {
		return g.seq.Next(ctx, businessID, year)
	})
	if err == nil {
		return fmt.Sprintf("%s-%04d-%07d", g.prefix, year, n)
	}

	id := fallbackInvoicePrefix + g.node.Generate().String()
	logctx.From(ctx).Warn("invoice sequence unavailable, using fallback number",
		"business_id", businessID,
		"invoice_number", id,
		"error", err.Error())
	return id
}
