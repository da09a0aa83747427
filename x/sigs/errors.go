package sigs

import "github.com/iov-one/swapvault/errors"

// x/sigs reserves 20 ~ 29.
var (
	ErrInvalidNonce     = errors.Register(20, "invalid nonce")
	ErrInvalidSignature = errors.Register(21, "invalid signature")
)
