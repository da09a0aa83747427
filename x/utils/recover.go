package utils

import (
	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ swapvault.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx swapvault.Context, store swapvault.KVStore, tx swapvault.Tx, next swapvault.Checker) (_ *swapvault.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx swapvault.Context, store swapvault.KVStore, tx swapvault.Tx, next swapvault.Deliverer) (_ *swapvault.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
