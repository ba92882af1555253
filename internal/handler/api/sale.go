package api

import (
	"net/http"
	"strconv"

	"pos-checkout/internal/domain/credit"
	"pos-checkout/internal/domain/discount"
	"pos-checkout/internal/domain/money"
	"pos-checkout/internal/domain/sale"
	"pos-checkout/internal/domain/stock"
	"pos-checkout/internal/domain/tender"
	reqdto "pos-checkout/internal/handler/dto/request"
	resdto "pos-checkout/internal/handler/dto/response"
	"pos-checkout/internal/handler/httperr"
	"pos-checkout/internal/handler/middleware"
	"pos-checkout/internal/pkg/errs"
	"pos-checkout/internal/usecase/commands"
	"pos-checkout/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
)

type SaleHandler struct {
	cmds commands.SaleCommands
	q    queries.SaleQueries
}

func NewSaleHandler(cmds commands.SaleCommands, q queries.SaleQueries) *SaleHandler {
	return &SaleHandler{cmds: cmds, q: q}
}

// @Summary Commit sale
// @Description Validate and atomically commit a checkout. Retrying with the same Idempotency-Key returns the original sale.
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Client generated UUID; without it a short fingerprint window applies"
// @Param request body reqdto.CommitSaleRequest true "Checkout"
// @Success 201 {object} resdto.CommitSaleResponse
// @Success 200 {object} resdto.CommitSaleResponse "Replayed"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 504 {object} httperr.Response
// @Router /api/sales [post]
func (h *SaleHandler) Commit(c *gin.Context) {
	businessID, cashierID, ok := terminal(c)
	if !ok {
		return
	}

	key := c.GetHeader(headerIdempotencyKey)
	if key != "" {
		if _, err := uuid.Parse(key); err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid Idempotency-Key, expected a UUID", nil)
			return
		}
	}

	draft, ok := bindDraft(c, businessID, cashierID)
	if !ok {
		return
	}

	result, err := h.cmds.CommitSale(c.Request.Context(), draft, key)
	if err != nil {
		abortWithCheckoutError(c, err)
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
		c.Header(headerReplayed, "true")
	}
	c.Header("Location", "/api/sales/"+result.Sale.ID.String())
	c.JSON(status, resdto.FromCommitResult(result))
}

// @Summary Quote sale
// @Description Evaluate discount, stock, tenders and credit for a cart without committing anything
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CommitSaleRequest true "Checkout"
// @Success 200 {object} resdto.QuoteResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/sales/quote [post]
func (h *SaleHandler) Quote(c *gin.Context) {
	businessID, cashierID, ok := terminal(c)
	if !ok {
		return
	}
	draft, ok := bindDraft(c, businessID, cashierID)
	if !ok {
		return
	}

	quote, err := h.cmds.QuoteSale(c.Request.Context(), draft)
	if err != nil {
		abortWithCheckoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromQuote(quote))
}

// @Summary Get sale
// @Description Get a committed sale of the caller's business with its payments
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param id path string true "Sale ID"
// @Success 200 {object} resdto.SaleResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/sales/{id} [get]
func (h *SaleHandler) Get(c *gin.Context) {
	businessID, _, ok := terminal(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), businessID, id)
	if err != nil {
		if errs.Is(err, errs.ErrSaleNotFound) {
			httperr.AbortWithCode(c, http.StatusNotFound, httperr.CodeSaleNotFound, err, "Sale not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSaleView(view))
}

// @Summary List sales
// @Description List the caller's business sales, newest first, with keyset pagination
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.SaleListResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /api/sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	businessID, _, ok := terminal(c)
	if !ok {
		return
	}
	limit := 20
	if v := c.Query("limit"); v != "" {
		if iv, e := strconv.Atoi(v); e == nil {
			limit = queries.ValidateLimit(iv)
		}
	}
	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}

	items, next, err := h.q.ListByBusiness(c.Request.Context(), businessID, cursor, limit)
	if err != nil {
		if errs.Is(err, queries.ErrInvalidCursor) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid cursor", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSaleList(items, next))
}

func terminal(c *gin.Context) (businessID, cashierID uuid.UUID, ok bool) {
	businessID, bok := middleware.GetBusinessID(c)
	cashierID, cok := middleware.GetCashierID(c)
	if !bok || !cok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("terminal identity missing"), "Unauthorized", nil)
		return uuid.Nil, uuid.Nil, false
	}
	return businessID, cashierID, true
}

func bindDraft(c *gin.Context, businessID, cashierID uuid.UUID) (sale.Draft, bool) {
	var req reqdto.CommitSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return sale.Draft{}, false
	}
	draft, err := req.ToDomain(businessID, cashierID)
	if err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid request", gin.H{"reason": errs.Cause(err).Error()})
		return sale.Draft{}, false
	}
	return draft, true
}

// abortWithCheckoutError maps commit and quote failures. Typed errors are checked
// before their sentinels so the detail payload survives.
func abortWithCheckoutError(c *gin.Context, err error) {
	var (
		stockErr  *stock.InsufficientStockError
		creditErr *credit.LimitExceededError
	)

	switch {
	case errs.As(err, &stockErr):
		httperr.AbortWithCode(c, http.StatusUnprocessableEntity, httperr.CodeInsufficientStock, err, "Insufficient stock", gin.H{
			"productId": stockErr.ProductID,
			"requested": stockErr.Requested,
			"available": stockErr.Available,
		})
	case errs.As(err, &creditErr):
		httperr.AbortWithCode(c, http.StatusUnprocessableEntity, httperr.CodeCreditLimitExceeded, err, "Credit limit exceeded", gin.H{
			"customerId": creditErr.CustomerID,
			"available":  creditErr.Available,
			"requested":  creditErr.Requested,
		})
	case errs.Is(err, credit.ErrCreditRequiresCustomer):
		httperr.AbortWithCode(c, http.StatusUnprocessableEntity, httperr.CodeCreditRequiresCustomer, err, "Partial payment requires a customer", nil)
	case errs.Is(err, stock.ErrProductNotFound):
		httperr.AbortWithCode(c, http.StatusUnprocessableEntity, httperr.CodeProductNotFound, err, "Product not found", nil)
	case errs.Is(err, stock.ErrConcurrentStockConflict):
		httperr.AbortWithCode(c, http.StatusConflict, httperr.CodeConcurrentStockConflict, err, "Stock changed during checkout, please retry", nil)
	case errs.Is(err, errs.ErrIdempotencyKeyReused):
		httperr.AbortWithCode(c, http.StatusConflict, httperr.CodeIdempotencyKeyReused, err, "Idempotency-Key was used for a different checkout", nil)
	case errs.Is(err, errs.ErrIdempotencyInProgress):
		httperr.AbortWithCode(c, http.StatusConflict, httperr.CodeIdempotencyInProgress, err, "Checkout is already being processed", nil)
	case errs.Is(err, errs.ErrCommitTimeout):
		httperr.AbortWithCode(c, http.StatusGatewayTimeout, httperr.CodeCommitTimeout, err, "Checkout timed out", nil)
	case isValidationError(err):
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidCheckout, err, "Invalid checkout", gin.H{"reason": errs.Cause(err).Error()})
	default:
		httperr.AbortWithCode(c, http.StatusInternalServerError, httperr.CodeInternal, err, "Internal server error", nil)
	}
}

var validationErrors = []error{
	discount.ErrInvalidDiscount,
	tender.ErrMissingPaymentReference,
	tender.ErrMissingWalletProvider,
	tender.ErrOverpaymentNotAllowed,
	tender.ErrInvalidTenderAmount,
	tender.ErrUnknownTenderMethod,
	sale.ErrEmptyCart,
	sale.ErrInvalidQuantity,
	sale.ErrQuantityTooLarge,
	sale.ErrInvalidUnitPrice,
	sale.ErrProductRequired,
	money.ErrNegativeAmount,
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errs.Is(err, target) {
			return true
		}
	}
	return false
}
