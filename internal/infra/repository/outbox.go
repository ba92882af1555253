package repository

import (
	"context"
	"time"

	"pos-checkout/internal/infra"
	"pos-checkout/internal/infra/db"
	"pos-checkout/internal/pkg/pgconv"
	"pos-checkout/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	insertOutboxSQL = `
INSERT INTO outbox_events (id, kind, business_id, aggregate_id, payload, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	fetchPendingOutboxSQL = `
SELECT id, kind, business_id, aggregate_id, payload, created_at
FROM outbox_events
WHERE published_at IS NULL
ORDER BY created_at, id
LIMIT $1`

	markOutboxPublishedSQL = `
UPDATE outbox_events SET published_at = $2 WHERE id = ANY($1::uuid[])`
)

type OutboxRepository struct {
	db db.DBTX
}

func NewOutboxRepository(dbtx db.DBTX) *OutboxRepository {
	return &OutboxRepository{db: dbtx}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, ev shared.OutboxEvent) error {
	_, err := r.db.Exec(ctx, insertOutboxSQL,
		ev.ID,
		ev.Kind,
		ev.BusinessID,
		ev.AggregateID,
		ev.Payload,
		pgconv.TimeToPgtype(ev.CreatedAt),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue outbox event", err)
	}
	return nil
}

func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]shared.OutboxEvent, error) {
	rows, err := r.db.Query(ctx, fetchPendingOutboxSQL, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to fetch pending outbox events", err)
	}
	defer rows.Close()

	var events []shared.OutboxEvent
	for rows.Next() {
		var (
			ev        shared.OutboxEvent
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&ev.ID, &ev.Kind, &ev.BusinessID, &ev.AggregateID, &ev.Payload, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan outbox event", err)
		}
		ev.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate outbox events", err)
	}
	return events, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	if _, err := r.db.Exec(ctx, markOutboxPublishedSQL, raw, pgconv.TimeToPgtype(at)); err != nil {
		return infra.WrapRepoErr("failed to mark outbox events published", err)
	}
	return nil
}
