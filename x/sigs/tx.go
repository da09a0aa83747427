package sigs

import (
	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/crypto"
	"github.com/iov-one/swapvault/errors"
)

// Signature binds a public key to its signature over the sign bytes of a
// transaction.
type Signature struct {
	PubKey    crypto.PublicKey `json:"pub_key"`
	Signature []byte           `json:"signature"`
}

// Validate ensures the Signature meets basic standards
func (s *Signature) Validate() error {
	if s == nil {
		return errors.Wrap(ErrInvalidSignature, "nil signature")
	}
	if len(s.PubKey) == 0 {
		return errors.Wrap(ErrInvalidSignature, "missing public key")
	}
	if len(s.Signature) != crypto.SignatureSize {
		return errors.Wrap(ErrInvalidSignature, "malformed signature")
	}
	return nil
}

// SignedTx represents a transaction that contains signatures,
// which can be verified by the Decorator
type SignedTx interface {
	swapvault.Tx

	// GetSignBytes returns the canonical byte representation of the
	// message that is signed.
	GetSignBytes() ([]byte, error)

	// GetNonce returns a number chosen by the sender to make otherwise
	// identical transactions distinct.
	GetNonce() int64

	// GetSignatures returns the signature of signers who signed the
	// message.
	GetSignatures() []*Signature
}
