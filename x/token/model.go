package token

import (
	"encoding/binary"

	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
)

// AccountSize is the size of the token account data.
const AccountSize = 2*swapvault.AddressLength + 8 + 1

const (
	stateUninitialized byte = 0
	stateInitialized   byte = 1
)

// Account is the decoded data of a token account.
type Account struct {
	Mint        swapvault.Address `json:"mint"`
	Authority   swapvault.Address `json:"authority"`
	Amount      uint64            `json:"amount"`
	Initialized bool              `json:"initialized"`
}

// Validate returns an error if an initialized account misses an address.
func (a *Account) Validate() error {
	if !a.Initialized {
		return nil
	}
	if err := a.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := a.Authority.Validate(); err != nil {
		return errors.Wrap(err, "authority")
	}
	return nil
}

// Encode serializes the account into AccountSize bytes.
func (a *Account) Encode() []byte {
	raw := make([]byte, AccountSize)
	copy(raw[0:32], a.Mint)
	copy(raw[32:64], a.Authority)
	binary.LittleEndian.PutUint64(raw[64:72], a.Amount)
	if a.Initialized {
		raw[72] = stateInitialized
	}
	return raw
}

// DecodeAccount parses token account data. Zeroed data decodes into an
// uninitialized account.
func DecodeAccount(raw []byte) (*Account, error) {
	if len(raw) != AccountSize {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "want %d bytes, got %d", AccountSize, len(raw))
	}
	var a Account
	switch raw[72] {
	case stateUninitialized:
	case stateInitialized:
		a.Initialized = true
	default:
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "state %d", raw[72])
	}
	a.Mint = swapvault.Address(append([]byte{}, raw[0:32]...))
	a.Authority = swapvault.Address(append([]byte{}, raw[32:64]...))
	a.Amount = binary.LittleEndian.Uint64(raw[64:72])
	return &a, nil
}
