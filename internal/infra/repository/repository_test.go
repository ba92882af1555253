//go:build unit

package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pos-checkout/internal/domain/sale"
	"pos-checkout/internal/domain/tender"
	"pos-checkout/internal/infra"
	"pos-checkout/internal/infra/repository"
	"pos-checkout/internal/pkg/clock"
	"pos-checkout/internal/usecase/shared"
	"pos-checkout/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errConnectionLost = errors.New("database connection lost")

// MockDBTX implements db.DBTX
type MockDBTX struct {
	mock.Mock
}

func (m *MockDBTX) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgconn.CommandTag), mockArgs.Error(1)
}

func (m *MockDBTX) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	mockArgs := m.Called(ctx, query, args)
	rows, _ := mockArgs.Get(0).(pgx.Rows)
	return rows, mockArgs.Error(1)
}

func (m *MockDBTX) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgx.Row)
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

type int64Row struct{ v int64 }

func (r int64Row) Scan(dest ...any) error {
	*(dest[0].(*int64)) = r.v
	return nil
}

func tag(s string) pgconn.CommandTag {
	return pgconn.NewCommandTag(s)
}

func TestStockRepository_ConditionalDecrement(t *testing.T) {
	ctx := context.Background()
	businessID, productID := uuid.New(), uuid.New()

	testCases := []struct {
		name       string
		tag        pgconn.CommandTag
		execErr    error
		expectOK   bool
		expectKind infra.RepositoryErrorKind
	}{
		{name: "success: row updated", tag: tag("UPDATE 1"), expectOK: true},
		{name: "condition failed: not enough stock", tag: tag("UPDATE 0"), expectOK: false},
		{name: "error: database failure", tag: tag(""), execErr: errConnectionLost, expectKind: infra.KindDBFailure},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockDB := new(MockDBTX)
			mockDB.On("Exec", ctx, mock.Anything, []any{businessID, productID, 3}).Return(tc.tag, tc.execErr)
			repo := repository.NewStockRepository(mockDB)

			ok, err := repo.ConditionalDecrement(ctx, businessID, productID, 3)

			if tc.expectKind != "" {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, tc.expectKind), "expected kind [%v] but got (%v)", tc.expectKind, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectOK, ok)
			mockDB.AssertExpectations(t)
		})
	}
}

func TestStockRepository_Available_NotFound(t *testing.T) {
	ctx := context.Background()
	mockDB := new(MockDBTX)
	mockDB.On("QueryRow", ctx, mock.Anything, mock.Anything).Return(errRow{err: pgx.ErrNoRows})

	_, err := repository.NewStockRepository(mockDB).Available(ctx, uuid.New(), uuid.New())

	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}

func TestCreditRepository_ConditionalCharge(t *testing.T) {
	ctx := context.Background()
	businessID, customerID := uuid.New(), uuid.New()
	amount := decimal.RequireFromString("1200")

	mockDB := new(MockDBTX)
	mockDB.On("Exec", ctx, mock.Anything, []any{businessID, customerID, amount}).Return(tag("UPDATE 0"), nil).Once()
	mockDB.On("Exec", ctx, mock.Anything, []any{businessID, customerID, amount}).Return(tag("UPDATE 1"), nil).Once()
	repo := repository.NewCreditRepository(mockDB)

	ok, err := repo.ConditionalCharge(ctx, businessID, customerID, amount)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.ConditionalCharge(ctx, businessID, customerID, amount)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSaleRepository_Create(t *testing.T) {
	ctx := context.Background()

	newSale := func(t *testing.T) *sale.Sale {
		d := builder.NewSaleBuilder().
			WithLines(
				builder.LineSpec{ProductID: uuid.New(), UnitPrice: "10", Quantity: 1},
				builder.LineSpec{ProductID: uuid.New(), UnitPrice: "20", Quantity: 2},
			).
			WithCash("50").
			MustBuildDraft()
		q, err := sale.Evaluate(d)
		require.NoError(t, err)
		sl, err := sale.NewSale(uuid.New(), "SI-2026-0000001", d, q, time.Now())
		require.NoError(t, err)
		return sl
	}

	t.Run("success: sale and every line inserted", func(t *testing.T) {
		mockDB := new(MockDBTX)
		mockDB.On("Exec", ctx, mock.Anything, mock.Anything).Return(tag("INSERT 0 1"), nil).Times(3)

		err := repository.NewSaleRepository(mockDB).Create(ctx, newSale(t))

		require.NoError(t, err)
		mockDB.AssertNumberOfCalls(t, "Exec", 3)
	})

	t.Run("error: duplicate invoice number", func(t *testing.T) {
		mockDB := new(MockDBTX)
		dup := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
		mockDB.On("Exec", ctx, mock.Anything, mock.Anything).Return(tag(""), dup).Once()

		err := repository.NewSaleRepository(mockDB).Create(ctx, newSale(t))

		assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))
		mockDB.AssertNumberOfCalls(t, "Exec", 1)
	})
}

func TestPaymentRepository_Create(t *testing.T) {
	ctx := context.Background()
	payment := &sale.Payment{
		ID:        uuid.New(),
		SaleID:    uuid.New(),
		Method:    tender.MethodCard,
		Amount:    decimal.RequireFromString("100"),
		CreatedAt: time.Now(),
	}

	testCases := []struct {
		name       string
		execErr    error
		expectKind infra.RepositoryErrorKind
	}{
		{name: "success"},
		{name: "error: unknown sale", execErr: &pgconn.PgError{Code: "23503"}, expectKind: infra.KindForeignKeyViolated},
		{name: "error: duplicate sequence", execErr: &pgconn.PgError{Code: "23505"}, expectKind: infra.KindDuplicateKey},
		{name: "error: database failure", execErr: errConnectionLost, expectKind: infra.KindDBFailure},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockDB := new(MockDBTX)
			mockDB.On("Exec", ctx, mock.Anything, mock.Anything).Return(tag("INSERT 0 1"), tc.execErr)

			err := repository.NewPaymentRepository(mockDB).Create(ctx, payment)

			if tc.expectKind == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, infra.IsKind(err, tc.expectKind), "expected kind [%v] but got (%v)", tc.expectKind, err)
		})
	}
}

func TestIdempotencyRepository(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC))
	businessID := uuid.New()

	t.Run("TryAcquire reports whether the row was written", func(t *testing.T) {
		mockDB := new(MockDBTX)
		mockDB.On("Exec", ctx, mock.Anything, mock.Anything).Return(tag("INSERT 0 1"), nil).Once()
		mockDB.On("Exec", ctx, mock.Anything, mock.Anything).Return(tag("INSERT 0 0"), nil).Once()
		repo := repository.NewIdempotencyRepository(mockDB, clk)
		rec := shared.IdempotencyRecord{BusinessID: businessID, Key: "k", RequestHash: "h", ExpiresAt: clk.Now().Add(time.Hour)}

		first, err := repo.TryAcquire(ctx, rec)
		require.NoError(t, err)
		second, err := repo.TryAcquire(ctx, rec)
		require.NoError(t, err)

		assert.True(t, first)
		assert.False(t, second)
	})

	t.Run("Complete without a processing row is a conflict", func(t *testing.T) {
		mockDB := new(MockDBTX)
		mockDB.On("Exec", ctx, mock.Anything, mock.Anything).Return(tag("UPDATE 0"), nil)

		err := repository.NewIdempotencyRepository(mockDB, clk).Complete(ctx, businessID, "k", uuid.New())

		assert.True(t, infra.IsKind(err, infra.KindConflict))
	})

	t.Run("Get missing key", func(t *testing.T) {
		mockDB := new(MockDBTX)
		mockDB.On("QueryRow", ctx, mock.Anything, []any{businessID, "missing"}).Return(errRow{err: pgx.ErrNoRows})

		_, err := repository.NewIdempotencyRepository(mockDB, clk).Get(ctx, businessID, "missing")

		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("DeleteExpired returns affected rows", func(t *testing.T) {
		mockDB := new(MockDBTX)
		mockDB.On("Exec", ctx, mock.Anything, mock.Anything).Return(tag("DELETE 4"), nil)

		n, err := repository.NewIdempotencyRepository(mockDB, clk).DeleteExpired(ctx, clk.Now())

		require.NoError(t, err)
		assert.EqualValues(t, 4, n)
	})
}

func TestInvoiceSequenceRepository_Next(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockDB := new(MockDBTX)
		mockDB.On("QueryRow", ctx, mock.Anything, []any{businessID, 2026}).Return(int64Row{v: 42})

		n, err := repository.NewInvoiceSequenceRepository(mockDB).Next(ctx, businessID, 2026)

		require.NoError(t, err)
		assert.EqualValues(t, 42, n)
	})

	t.Run("error: database failure", func(t *testing.T) {
		mockDB := new(MockDBTX)
		mockDB.On("QueryRow", ctx, mock.Anything, mock.Anything).Return(errRow{err: errConnectionLost})

		_, err := repository.NewInvoiceSequenceRepository(mockDB).Next(ctx, businessID, 2026)

		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}

func TestOutboxRepository_MarkPublished_Empty(t *testing.T) {
	mockDB := new(MockDBTX)

	err := repository.NewOutboxRepository(mockDB).MarkPublished(context.Background(), nil, time.Now())

	assert.NoError(t, err)
	mockDB.AssertNotCalled(t, "Exec", mock.Anything, mock.Anything, mock.Anything)
}
