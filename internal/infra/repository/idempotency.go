package repository

import (
	"context"
	"time"

	"pos-checkout/internal/infra"
	"pos-checkout/internal/infra/db"
	"pos-checkout/internal/pkg/clock"
	"pos-checkout/internal/pkg/pgconv"
	"pos-checkout/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	// An expired record is taken over in place so a stale key never blocks a retry.
	tryAcquireIdempotencySQL = `
INSERT INTO idempotency_keys (business_id, key, status, request_hash, result_sale_id, expires_at, created_at)
VALUES ($1, $2, 'processing', $3, NULL, $4, $5)
ON CONFLICT (business_id, key) DO UPDATE
SET status = 'processing',
    request_hash = EXCLUDED.request_hash,
    result_sale_id = NULL,
    expires_at = EXCLUDED.expires_at,
    created_at = EXCLUDED.created_at
WHERE idempotency_keys.expires_at <= EXCLUDED.created_at`

	getIdempotencySQL = `
SELECT status, request_hash, result_sale_id, expires_at
FROM idempotency_keys
WHERE business_id = $1 AND key = $2`

	completeIdempotencySQL = `
UPDATE idempotency_keys
SET status = 'completed', result_sale_id = $3
WHERE business_id = $1 AND key = $2 AND status = 'processing'`

	releaseIdempotencySQL = `
DELETE FROM idempotency_keys
WHERE business_id = $1 AND key = $2 AND status = 'processing'`

	deleteExpiredIdempotencySQL = `
DELETE FROM idempotency_keys WHERE expires_at <= $1`
)

type IdempotencyRepository struct {
	db    db.DBTX
	clock clock.Clock
}

func NewIdempotencyRepository(dbtx db.DBTX, clk clock.Clock) *IdempotencyRepository {
	return &IdempotencyRepository{db: dbtx, clock: clk}
}

func (r *IdempotencyRepository) TryAcquire(ctx context.Context, rec shared.IdempotencyRecord) (bool, error) {
	tag, err := r.db.Exec(ctx, tryAcquireIdempotencySQL,
		rec.BusinessID,
		rec.Key,
		rec.RequestHash,
		pgconv.TimeToPgtype(rec.ExpiresAt),
		pgconv.TimeToPgtype(r.clock.Now()),
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to acquire idempotency key", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, businessID uuid.UUID, key string) (*shared.IdempotencyRecord, error) {
	var (
		rec       = shared.IdempotencyRecord{BusinessID: businessID, Key: key}
		resultID  pgtype.UUID
		expiresAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, getIdempotencySQL, businessID, key).
		Scan(&rec.Status, &rec.RequestHash, &resultID, &expiresAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}
	rec.ResultSaleID = pgconv.UUIDPtrFromPgtype(resultID)
	rec.ExpiresAt = pgconv.TimeFromPgtype(expiresAt)
	return &rec, nil
}

func (r *IdempotencyRepository) Complete(ctx context.Context, businessID uuid.UUID, key string, saleID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, completeIdempotencySQL, businessID, key, saleID)
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("no processing idempotency key to complete", nil, infra.KindConflict)
	}
	return nil
}

func (r *IdempotencyRepository) Release(ctx context.Context, businessID uuid.UUID, key string) error {
	if _, err := r.db.Exec(ctx, releaseIdempotencySQL, businessID, key); err != nil {
		return infra.WrapRepoErr("failed to release idempotency key", err)
	}
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, deleteExpiredIdempotencySQL, pgconv.TimeToPgtype(now))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}
	return tag.RowsAffected(), nil
}
