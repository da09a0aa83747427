package swapvault

import (
	"bytes"
	"encoding/json"

	"github.com/btcsuite/btcutil/base58"
	"github.com/iov-one/swapvault/errors"
)

// AddressLength is the length of every address. For key holders the
// address is the ed25519 public key itself.
const AddressLength = 32

// Address represents a collision-free, one-way digest of a public key or a
// program derived address. Its text form is base58.
type Address []byte

// Equals returns true if both addresses hold the same bytes.
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// Validate returns an error if the address is not the right length.
func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInvalidInput, "address length %d", len(a))
	}
	return nil
}

// String returns the base58 representation of the address.
func (a Address) String() string {
	if len(a) == 0 {
		return ""
	}
	return base58.Encode(a)
}

// ParseAddress decodes a base58 encoded address.
func ParseAddress(s string) (Address, error) {
	raw := base58.Decode(s)
	if len(raw) == 0 {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "malformed address %q", s)
	}
	addr := Address(raw)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

// MustParseAddress is like ParseAddress but panics on error. Use it only
// for constants and in tests.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// MarshalJSON serializes the address as a base58 string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts a base58 string.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, "address must be a string")
	}
	if s == "" {
		*a = nil
		return nil
	}
	addr, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
