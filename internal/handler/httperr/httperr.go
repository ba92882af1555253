package httperr

import (
	"github.com/gin-gonic/gin"
)

// Stable codes POS terminals branch on; messages are for cashiers and may change.
const (
	CodeInvalidRequest          = "INVALID_REQUEST"
	CodeInvalidCheckout         = "INVALID_CHECKOUT"
	CodeInsufficientStock       = "INSUFFICIENT_STOCK"
	CodeCreditLimitExceeded     = "CREDIT_LIMIT_EXCEEDED"
	CodeCreditRequiresCustomer  = "CREDIT_REQUIRES_CUSTOMER"
	CodeProductNotFound         = "PRODUCT_NOT_FOUND"
	CodeConcurrentStockConflict = "CONCURRENT_STOCK_CONFLICT"
	CodeIdempotencyKeyReused    = "IDEMPOTENCY_KEY_REUSED"
	CodeIdempotencyInProgress   = "IDEMPOTENCY_IN_PROGRESS"
	CodeCommitTimeout           = "COMMIT_TIMEOUT"
	CodeSaleNotFound            = "SALE_NOT_FOUND"
	CodeInternal                = "INTERNAL"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Code    string `json:"code,omitempty"`
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	AbortWithCode(c, status, "", err, msg, detail)
}

func AbortWithCode(c *gin.Context, status int, code string, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithCode: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Code = code
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
