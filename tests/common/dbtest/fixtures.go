//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func SeedStock(t *testing.T, db DBLike, businessID, productID uuid.UUID, quantity int) {
	t.Helper()

	_, err := db.Exec(context.Background(), `
		INSERT INTO stock_levels (business_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (business_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`,
		businessID, productID, quantity)
	require.NoError(t, err)
}

func SeedCreditAccount(t *testing.T, db DBLike, businessID, customerID uuid.UUID, limit, outstanding string) {
	t.Helper()

	_, err := db.Exec(context.Background(), `
		INSERT INTO credit_accounts (business_id, customer_id, credit_limit, outstanding_balance)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (business_id, customer_id) DO UPDATE
		SET credit_limit = EXCLUDED.credit_limit, outstanding_balance = EXCLUDED.outstanding_balance, updated_at = now()`,
		businessID, customerID, decimal.RequireFromString(limit), decimal.RequireFromString(outstanding))
	require.NoError(t, err)
}

func StockQuantity(t *testing.T, db DBLike, businessID, productID uuid.UUID) int {
	t.Helper()

	var qty int
	err := db.QueryRow(context.Background(),
		"SELECT quantity FROM stock_levels WHERE business_id = $1 AND product_id = $2",
		businessID, productID).Scan(&qty)
	require.NoError(t, err)
	return qty
}

func OutstandingBalance(t *testing.T, db DBLike, businessID, customerID uuid.UUID) decimal.Decimal {
	t.Helper()

	var balance decimal.Decimal
	err := db.QueryRow(context.Background(),
		"SELECT outstanding_balance FROM credit_accounts WHERE business_id = $1 AND customer_id = $2",
		businessID, customerID).Scan(&balance)
	require.NoError(t, err)
	return balance
}

func CountRows(t *testing.T, db DBLike, table string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM "+table).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates every checkout table
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('atlas_schema_revisions')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
