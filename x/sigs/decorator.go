/*
Package sigs provides basic authentication
middleware to verify the signatures on the transaction,
and record executed transactions for replay protection.
*/
package sigs

import (
	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
)

// Decorator verifies the signatures and adds them to the context
type Decorator struct{}

var _ swapvault.Decorator = Decorator{}

// NewDecorator returns a default authentication decorator,
// which appends the chainID before checking the signature,
// and requires every declared signer to have signed
func NewDecorator() Decorator {
	return Decorator{}
}

func (d Decorator) authenticate(ctx swapvault.Context, db swapvault.KVStore, tx swapvault.Tx) (swapvault.Context, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unsigned transaction %T", tx)
	}
	chainID := swapvault.GetChainID(ctx)
	signers, err := VerifyTxSignatures(stx, chainID)
	if err != nil {
		return nil, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 {
		return nil, errors.Wrap(errors.ErrMissingAuthorization, "missing signature")
	}
	if err := RequireSigners(tx, signers); err != nil {
		return nil, err
	}
	// only authenticated transactions leave a replay marker
	if err := MarkExecuted(db, stx, chainID); err != nil {
		return nil, errors.Wrap(err, "cannot verify signatures")
	}
	return withSigners(ctx, signers), nil
}

// Check verifies signatures before calling down the stack.
func (d Decorator) Check(ctx swapvault.Context, db swapvault.KVStore, tx swapvault.Tx, next swapvault.Checker) (*swapvault.CheckResult, error) {
	ctx, err := d.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, db, tx)
}

// Deliver verifies signatures before calling down the stack.
func (d Decorator) Deliver(ctx swapvault.Context, db swapvault.KVStore, tx swapvault.Tx, next swapvault.Deliverer) (*swapvault.DeliverResult, error) {
	ctx, err := d.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}
