package shared

import (
	"time"

	"github.com/google/uuid"
)

const (
	IdempotencyStatusProcessing = "processing"
	IdempotencyStatusCompleted  = "completed"
)

type IdempotencyRecord struct {
	BusinessID   uuid.UUID
	Key          string
	Status       string
	RequestHash  string
	ResultSaleID *uuid.UUID
	ExpiresAt    time.Time
}

func (r IdempotencyRecord) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

type ReplayEntry struct {
	SaleID      uuid.UUID `json:"sale_id"`
	RequestHash string    `json:"request_hash"`
}

const EventSaleCommitted = "sale.committed"

type OutboxEvent struct {
	ID          uuid.UUID
	Kind        string
	BusinessID  uuid.UUID
	AggregateID uuid.UUID
	Payload     []byte
	CreatedAt   time.Time
}
