package stock

import (
	"fmt"
	"math"
	"sort"

	"pos-checkout/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInsufficientStock       = errs.New("insufficient stock")
	ErrConcurrentStockConflict = errs.New("concurrent stock conflict")
	ErrProductNotFound         = errs.New("product not found")
)

type Level struct {
	ProductID    uuid.UUID
	AvailableQty int
}

// Request is the total quantity of one product a cart asks for.
type Request struct {
	ProductID uuid.UUID
	Quantity  int
}

type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// ConflictError reports a conditional decrement that lost a race after the pre-check passed.
type ConflictError struct {
	ProductID uuid.UUID
	Requested int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("stock for product %s changed before commit (requested %d)", e.ProductID, e.Requested)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConcurrentStockConflict
}

// Aggregate merges requests for the same product, keeping first-seen order, so
// two lines of one product are checked against stock together. A merged quantity
// saturates at math.MaxInt rather than wrapping negative.
func Aggregate(requests []Request) []Request {
	index := make(map[uuid.UUID]int, len(requests))
	out := make([]Request, 0, len(requests))
	for _, r := range requests {
		if i, ok := index[r.ProductID]; ok {
			out[i].Quantity = saturatingAdd(out[i].Quantity, r.Quantity)
			continue
		}
		index[r.ProductID] = len(out)
		out = append(out, r)
	}
	return out
}

func saturatingAdd(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// LockOrder sorts by product id so concurrent commits touch rows in the same order.
func LockOrder(requests []Request) []Request {
	out := make([]Request, len(requests))
	copy(out, requests)
	sort.Slice(out, func(i, j int) bool {
		return out[i].ProductID.String() < out[j].ProductID.String()
	})
	return out
}
