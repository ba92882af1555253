//go:build e2e

package sale_test

import (
	"fmt"
	"net/http"
	neturl "net/url"
	"sync"
	"testing"

	resdto "pos-checkout/internal/handler/dto/response"
	"pos-checkout/internal/handler/httperr"
	"pos-checkout/tests/common/authtest"
	"pos-checkout/tests/common/builder"
	"pos-checkout/tests/common/dbtest"
	"pos-checkout/tests/common/helper"
	"pos-checkout/tests/common/httptest"
	"pos-checkout/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	salesURL = "/api/sales"
	saleURL  = "/api/sales/%s"
)

type SaleSuite struct {
	e2e.SharedSuite

	businessID uuid.UUID
	cashierID  uuid.UUID
	token      string
}

func (s *SaleSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
	s.businessID = uuid.New()
	s.cashierID = uuid.New()
	s.token = authtest.NewJWTHelper(s.Config.JWT).GenerateToken(s.T(), s.businessID, s.cashierID)
}

func TestSaleSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(SaleSuite))
}

func (s *SaleSuite) commit(body any, key string) (int, *resdto.CommitSaleResponse, http.Header) {
	t := s.T()
	w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, salesURL, body,
		map[string]string{"Idempotency-Key": key}, s.token)
	if w.Code != http.StatusCreated && w.Code != http.StatusOK {
		return w.Code, nil, w.Header()
	}
	var res resdto.CommitSaleResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	return w.Code, &res, w.Header()
}

// =============================================================================
// TestCommitSale
// =============================================================================

func (s *SaleSuite) TestCommitSale() {
	s.Run("Normal case: cash sale decrements stock and returns change", func() {
		t := s.T()
		productID := uuid.New()
		dbtest.SeedStock(t, s.DB, s.businessID, productID, 10)

		req := builder.NewSaleBuilder().
			WithSingleLine(productID, "500", 2).
			WithFixedDiscount("100").
			WithCash("1000").
			BuildCommitRequestDTO()

		code, res, header := s.commit(req, uuid.NewString())

		require.Equal(t, http.StatusCreated, code)
		require.Regexp(t, `^SI-\d{4}-\d{7}$`, res.Sale.InvoiceNumber)
		require.Equal(t, fmt.Sprintf(saleURL, res.Sale.ID), header.Get("Location"))
		helper.AssertMoney(t, "900", res.Sale.TotalAmount)
		helper.AssertMoney(t, "100", res.Change)
		require.Equal(t, "paid", res.Sale.PaymentStatus)
		require.Equal(t, 8, dbtest.StockQuantity(t, s.DB, s.businessID, productID))
		require.Equal(t, 1, dbtest.CountRows(t, s.DB, "outbox_events"))
	})

	s.Run("Normal case: partial payment charges the customer's credit", func() {
		t := s.T()
		productID, customerID := uuid.New(), uuid.New()
		dbtest.SeedStock(t, s.DB, s.businessID, productID, 5)
		dbtest.SeedCreditAccount(t, s.DB, s.businessID, customerID, "5000", "1000")

		req := builder.NewSaleBuilder().
			WithCustomer(customerID).
			WithSingleLine(productID, "1000", 2).
			WithCash("800").
			BuildCommitRequestDTO()

		code, res, _ := s.commit(req, uuid.NewString())

		require.Equal(t, http.StatusCreated, code)
		require.Equal(t, "partial", res.Sale.PaymentStatus)
		helper.AssertMoney(t, "1200", res.Sale.CreditAmount)
		helper.AssertMoney(t, "2200", dbtest.OutstandingBalance(t, s.DB, s.businessID, customerID))
	})

	s.Run("Idempotent replay: same key and body returns the first sale", func() {
		t := s.T()
		productID := uuid.New()
		dbtest.SeedStock(t, s.DB, s.businessID, productID, 3)
		req := builder.NewSaleBuilder().WithSingleLine(productID, "1000", 1).BuildCommitRequestDTO()
		key := uuid.NewString()

		firstCode, first, _ := s.commit(req, key)
		secondCode, second, header := s.commit(req, key)

		require.Equal(t, http.StatusCreated, firstCode)
		require.Equal(t, http.StatusOK, secondCode)
		require.Equal(t, "true", header.Get("Idempotent-Replayed"))
		require.Equal(t, first.Sale.ID, second.Sale.ID)
		require.Equal(t, 2, dbtest.StockQuantity(t, s.DB, s.businessID, productID))
		require.Equal(t, 1, dbtest.CountRows(t, s.DB, "sales"))
	})

	s.Run("Error case: key reused for a different checkout", func() {
		t := s.T()
		productID := uuid.New()
		dbtest.SeedStock(t, s.DB, s.businessID, productID, 3)
		key := uuid.NewString()

		code, _, _ := s.commit(builder.NewSaleBuilder().WithSingleLine(productID, "1000", 1).BuildCommitRequestDTO(), key)
		require.Equal(t, http.StatusCreated, code)

		code, _, _ = s.commit(builder.NewSaleBuilder().WithSingleLine(productID, "1000", 1).WithCash("2000").BuildCommitRequestDTO(), key)
		require.Equal(t, http.StatusConflict, code)
	})

	s.Run("Error case: insufficient stock leaves nothing behind", func() {
		t := s.T()
		productID := uuid.New()
		dbtest.SeedStock(t, s.DB, s.businessID, productID, 1)
		req := builder.NewSaleBuilder().WithSingleLine(productID, "100", 3).WithCash("300").BuildCommitRequestDTO()

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, salesURL, req,
			map[string]string{"Idempotency-Key": uuid.NewString()}, s.token)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var body httperr.Response
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.Equal(t, "Insufficient stock", body.Error.Message)
		require.Equal(t, httperr.CodeInsufficientStock, body.Error.Code)
		require.Equal(t, 1, dbtest.StockQuantity(t, s.DB, s.businessID, productID))
		require.Zero(t, dbtest.CountRows(t, s.DB, "sales"))
	})

	s.Run("Error case: credit limit exceeded", func() {
		t := s.T()
		productID, customerID := uuid.New(), uuid.New()
		dbtest.SeedStock(t, s.DB, s.businessID, productID, 5)
		dbtest.SeedCreditAccount(t, s.DB, s.businessID, customerID, "1000", "800")
		req := builder.NewSaleBuilder().
			WithCustomer(customerID).
			WithSingleLine(productID, "1000", 1).
			WithTenders().
			BuildCommitRequestDTO()

		code, _, _ := s.commit(req, uuid.NewString())

		require.Equal(t, http.StatusUnprocessableEntity, code)
		require.Equal(t, 5, dbtest.StockQuantity(t, s.DB, s.businessID, productID))
		helper.AssertMoney(t, "800", dbtest.OutstandingBalance(t, s.DB, s.businessID, customerID))
	})

	s.Run("Concurrency: the last unit is sold exactly once", func() {
		t := s.T()
		productID := uuid.New()
		dbtest.SeedStock(t, s.DB, s.businessID, productID, 1)

		const buyers = 5
		codes := make([]int, buyers)
		var wg sync.WaitGroup
		for i := range buyers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				req := builder.NewSaleBuilder().WithSingleLine(productID, "1000", 1).WithCash(fmt.Sprintf("%d", 1000+i)).BuildCommitRequestDTO()
				w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, salesURL, req,
					map[string]string{"Idempotency-Key": uuid.NewString()}, s.token)
				codes[i] = w.Code
			}()
		}
		wg.Wait()

		created := 0
		for _, c := range codes {
			if c == http.StatusCreated {
				created++
				continue
			}
			require.Contains(t, []int{http.StatusUnprocessableEntity, http.StatusConflict}, c)
		}
		require.Equal(t, 1, created)
		require.Zero(t, dbtest.StockQuantity(t, s.DB, s.businessID, productID))
	})

	s.Run("Error case: missing token", func() {
		t := s.T()
		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, salesURL,
			builder.NewSaleBuilder().BuildCommitRequestDTO(), map[string]string{"Idempotency-Key": uuid.NewString()}, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	s.Run("Error case: expired token", func() {
		t := s.T()
		expired := authtest.NewJWTHelper(s.Config.JWT).CreateExpiredToken(t, s.businessID, s.cashierID)
		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, salesURL,
			builder.NewSaleBuilder().BuildCommitRequestDTO(), map[string]string{"Idempotency-Key": uuid.NewString()}, expired)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// =============================================================================
// TestReadSales
// =============================================================================

func (s *SaleSuite) TestReadSales() {
	s.Run("Normal case: committed sale reads back with lines and payments", func() {
		t := s.T()
		productID, otherID := uuid.New(), uuid.New()
		dbtest.SeedStock(t, s.DB, s.businessID, productID, 10)
		dbtest.SeedStock(t, s.DB, s.businessID, otherID, 10)
		req := builder.NewSaleBuilder().
			WithSingleLine(productID, "250", 4).
			WithLine(otherID, "100", 1).
			WithCash("1100").
			WithNote("table 4").
			BuildCommitRequestDTO()

		code, committed, _ := s.commit(req, uuid.NewString())
		require.Equal(t, http.StatusCreated, code)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(saleURL, committed.Sale.ID), nil, s.token)
		require.Equal(t, http.StatusOK, w.Code)
		var got resdto.SaleResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &got))

		require.Equal(t, committed.Sale.ID, got.ID)
		require.Equal(t, committed.Sale.InvoiceNumber, got.InvoiceNumber)
		require.Len(t, got.Lines, 2)
		require.Len(t, got.Payments, 1)
		helper.AssertMoney(t, "1000", got.Lines[0].LineTotal)
		helper.AssertMoney(t, "100", got.Lines[1].LineTotal)
		helper.AssertMoney(t, "1100", got.TotalAmount)
		require.NotNil(t, got.Note)
		require.Equal(t, "table 4", *got.Note)
	})

	s.Run("Error case: sale of another business is not found", func() {
		t := s.T()
		productID := uuid.New()
		dbtest.SeedStock(t, s.DB, s.businessID, productID, 1)
		code, committed, _ := s.commit(builder.NewSaleBuilder().WithSingleLine(productID, "1000", 1).BuildCommitRequestDTO(), uuid.NewString())
		require.Equal(t, http.StatusCreated, code)

		otherToken := authtest.NewJWTHelper(s.Config.JWT).GenerateToken(t, uuid.New(), uuid.New())
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(saleURL, committed.Sale.ID), nil, otherToken)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	s.Run("Normal case: list pages newest first", func() {
		t := s.T()
		productID := uuid.New()
		dbtest.SeedStock(t, s.DB, s.businessID, productID, 10)
		var invoices []string
		for range 3 {
			code, res, _ := s.commit(builder.NewSaleBuilder().WithSingleLine(productID, "1000", 1).BuildCommitRequestDTO(), uuid.NewString())
			require.Equal(t, http.StatusCreated, code)
			invoices = append([]string{res.Sale.InvoiceNumber}, invoices...)
		}

		var got []string
		url := salesURL + "?limit=2"
		for {
			w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, s.token)
			require.Equal(t, http.StatusOK, w.Code)
			var page resdto.SaleListResponse
			require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &page))
			for _, it := range page.Sales {
				got = append(got, it.InvoiceNumber)
			}
			if page.NextCursor == "" {
				break
			}
			url = salesURL + "?limit=2&after=" + neturl.QueryEscape(page.NextCursor)
		}

		if diff := cmp.Diff(invoices, got); diff != "" {
			t.Errorf("listing mismatch (-want +got):\n%s", diff)
		}
	})
}
