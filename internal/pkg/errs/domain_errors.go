package errs

// Use case level sentinels shared by commands, queries and handlers.
// Domain rule violations live next to their rules (discount, tender, credit, stock).
var (
	// Sale errors
	ErrSaleNotFound = New("sale not found")

	// Idempotency errors
	ErrIdempotencyInProgress  = New("idempotency in progress")
	ErrIdempotencyKeyReused   = New("idempotency key reused with a different request")
	ErrIdempotencyCheckFailed = New("idempotency check failed")

	// Operation errors
	ErrDatabaseOperationFailed = New("database operation failed")
	ErrCommitTimeout           = New("sale commit timed out")
)
