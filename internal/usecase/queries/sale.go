package queries

import (
	"context"
	"time"

	"pos-checkout/internal/domain/tender"
	"pos-checkout/internal/infra"
	"pos-checkout/internal/pkg/errs"
	"pos-checkout/internal/pkg/logctx"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SaleReadStore interface {
	FindByID(ctx context.Context, businessID, id uuid.UUID) (*SaleView, error)
	FindByBusinessFirstPage(ctx context.Context, businessID uuid.UUID, limit int32) ([]*SaleListItem, error)
	FindByBusinessKeyset(ctx context.Context, businessID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*SaleListItem, error)
}

type SaleQueries interface {
	GetByID(ctx context.Context, businessID, id uuid.UUID) (*SaleView, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID, cursor *Cursor, limit int) ([]*SaleListItem, *Cursor, error)
}

type saleQueriesImpl struct {
	repo SaleReadStore
}

func NewSaleQueries(repo SaleReadStore) SaleQueries {
	return &saleQueriesImpl{repo: repo}
}

func (q *saleQueriesImpl) GetByID(ctx context.Context, businessID, id uuid.UUID) (*SaleView, error) {
	view, err := q.repo.FindByID(ctx, businessID, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrSaleNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if derived := derivedStatus(view); derived != view.PaymentStatus {
		logctx.From(ctx).Error("stored payment status disagrees with payments",
			"sale_id", view.ID,
			"stored", view.PaymentStatus,
			"derived", derived)
	}
	return view, nil
}

// Newest sales first.
func (q *saleQueriesImpl) ListByBusiness(ctx context.Context, businessID uuid.UUID, cursor *Cursor, limit int) ([]*SaleListItem, *Cursor, error) {
	limit = ValidateLimit(limit)
	var rows []*SaleListItem
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.repo.FindByBusinessFirstPage(ctx, businessID, int32(limit+1))
	} else {
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, derr
		}
		rows, err = q.repo.FindByBusinessKeyset(ctx, businessID, lastCreatedAt, lastID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
		rows = rows[:limit]
	}
	return rows, next, nil
}

func derivedStatus(v *SaleView) string {
	paid := decimal.Zero
	for _, p := range v.Payments {
		paid = paid.Add(p.Amount)
	}
	return tender.DeriveStatus(paid, v.TotalAmount).String()
}
