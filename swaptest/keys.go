package swaptest

import (
	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/crypto"
)

// NewKey returns a new random ed25519 key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewAddress returns the address of a new random key.
func NewAddress() swapvault.Address {
	return NewKey().Address()
}
