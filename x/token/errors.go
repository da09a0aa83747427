package token

import "github.com/iov-one/swapvault/errors"

var (
	// ErrOwnerMismatch is returned when the given authority is not the one
	// owning the token account.
	ErrOwnerMismatch = errors.Register(100, "owner mismatch")

	// ErrMintMismatch is returned when moving tokens between accounts of
	// different mints.
	ErrMintMismatch = errors.Register(101, "mint mismatch")

	// ErrNonZeroBalance is returned when closing an account still holding
	// tokens.
	ErrNonZeroBalance = errors.Register(102, "non zero balance")
)
