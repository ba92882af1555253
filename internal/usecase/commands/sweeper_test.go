//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"pos-checkout/internal/infra"
	"pos-checkout/internal/infra/memstore"
	"pos-checkout/internal/pkg/clock"
	"pos-checkout/internal/usecase/commands"
	"pos-checkout/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencySweeper_SweepOnce(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC))
	store := memstore.New(clk)
	businessID := uuid.New()
	repo := store.Idempotency()

	for key, ttl := range map[string]time.Duration{
		"short": 30 * time.Second,
		"long":  24 * time.Hour,
	} {
		ok, err := repo.TryAcquire(ctx, shared.IdempotencyRecord{
			BusinessID:  businessID,
			Key:         key,
			RequestHash: "hash-" + key,
			ExpiresAt:   clk.Now().Add(ttl),
		})
		require.NoError(t, err)
		require.True(t, ok)
	}

	sweeper := commands.NewIdempotencySweeper(store, clk, time.Minute)

	n, err := sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	clk.Add(time.Minute)
	n, err = sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = repo.Get(ctx, businessID, "short")
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
	rec, err := repo.Get(ctx, businessID, "long")
	require.NoError(t, err)
	assert.Equal(t, shared.IdempotencyStatusProcessing, rec.Status)
}

func TestIdempotencySweeper_RunStopsWithContext(t *testing.T) {
	store := memstore.New(clock.NewRealClock())
	sweeper := commands.NewIdempotencySweeper(store, clock.NewRealClock(), time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
