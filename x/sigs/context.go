package sigs

import (
	"context"

	"github.com/iov-one/swapvault"
)

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx swapvault.Context, signers []swapvault.Address) swapvault.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate reports the addresses that signed the transaction.
type Authenticate struct{}

var _ swapvault.Authenticator = Authenticate{}

// GetAddresses returns who signed the current Context.
// May be empty
func (a Authenticate) GetAddresses(ctx swapvault.Context) []swapvault.Address {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]swapvault.Address)
	return val
}

// HasAddress returns true if the address signed the current Context.
func (a Authenticate) HasAddress(ctx swapvault.Context, addr swapvault.Address) bool {
	return contains(a.GetAddresses(ctx), addr)
}
