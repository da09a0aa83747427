package swaptest

import (
	"context"
	"fmt"

	"github.com/iov-one/swapvault"
)

// Auth is a mock implementing swapvault.Authenticator interface.
//
// This structure authenticates any of referenced addresses. You can use
// either Signer or Signers (or both) attributes to reference addresses.
type Auth struct {
	// Signer represents an authentication of a single signer.
	Signer swapvault.Address

	// Signers represents an authentication of multiple signers.
	Signers []swapvault.Address
}

var _ swapvault.Authenticator = (*Auth)(nil)

// GetAddresses returns all configured signers.
func (a *Auth) GetAddresses(swapvault.Context) []swapvault.Address {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

// HasAddress returns true if the address is one of the signers.
func (a *Auth) HasAddress(ctx swapvault.Context, addr swapvault.Address) bool {
	for _, s := range a.GetAddresses(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing swapvault.Authenticator interface.
//
// This implementation is using context to store and retrieve permissions.
type CtxAuth struct {
	// Key used to set and retrieve addresses from the context. For
	// convenience only string type keys are allowed.
	Key string
}

var _ swapvault.Authenticator = (*CtxAuth)(nil)

// SetAddresses returns a context authenticating given addresses.
func (a *CtxAuth) SetAddresses(ctx swapvault.Context, addrs ...swapvault.Address) swapvault.Context {
	return context.WithValue(ctx, a.Key, addrs)
}

// GetAddresses returns addresses stored in the context.
func (a *CtxAuth) GetAddresses(ctx swapvault.Context) []swapvault.Address {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	addrs, ok := val.([]swapvault.Address)
	if !ok {
		panic(fmt.Sprintf("instead of []swapvault.Address got %T", val))
	}
	return addrs
}

// HasAddress returns true if the address is stored in the context.
func (a *CtxAuth) HasAddress(ctx swapvault.Context, addr swapvault.Address) bool {
	for _, s := range a.GetAddresses(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}
