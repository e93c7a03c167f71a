package repositories

import (
	"context"
)

// TransactionManager runs a unit of work inside one storage transaction.
type TransactionManager interface {
	// WithinTx calls fn with a context bound to a single storage transaction.
	// Every repository call made with that context joins the transaction.
	// A nil return commits, an error rolls everything back and is returned as-is.
	// Calls made while a transaction is already bound to ctx join it instead of nesting.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
