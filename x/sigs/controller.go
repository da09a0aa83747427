package sigs

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/crypto"
	"github.com/iov-one/swapvault/errors"
)

// SignCodeV1 is the current way to prefix the bytes we use to build
// a signature
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

var replayPrefix = []byte("txh:")

// VerifyTxSignatures checks all the signatures on the tx. It does not write
// to the store, see MarkExecuted.
//
// returns list of signer addresses (possibly empty),
// or error if any signature is invalid
func VerifyTxSignatures(tx SignedTx, chainID string) ([]swapvault.Address, error) {
	toSign, err := BuildSignBytesTx(tx, chainID)
	if err != nil {
		return nil, err
	}

	sigs := tx.GetSignatures()
	signers := make([]swapvault.Address, 0, len(sigs))
	for i, sig := range sigs {
		if err := sig.Validate(); err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		if !sig.PubKey.Verify(toSign, sig.Signature) {
			return nil, errors.Wrapf(ErrInvalidSignature, "signature %d", i)
		}
		signers = append(signers, sig.PubKey.Address())
	}
	return signers, nil
}

// MarkExecuted records the sign bytes of the tx so that it cannot be
// executed again. It fails if the same sign bytes were recorded before.
func MarkExecuted(db swapvault.KVStore, tx SignedTx, chainID string) error {
	toSign, err := BuildSignBytesTx(tx, chainID)
	if err != nil {
		return err
	}
	h := sha256.Sum256(toSign)
	key := append(append([]byte{}, replayPrefix...), h[:]...)
	seen, err := db.Has(key)
	if err != nil {
		return err
	}
	if seen {
		return errors.Wrap(errors.ErrDuplicate, "transaction already processed")
	}
	return db.Set(key, []byte{1})
}

// RequireSigners checks that every account flagged as a signer in any
// instruction has a valid signature.
func RequireSigners(tx swapvault.Tx, signers []swapvault.Address) error {
	for i, ins := range tx.GetInstructions() {
		for _, meta := range ins.Accounts {
			if !meta.Signer {
				continue
			}
			if !contains(signers, meta.Address) {
				return errors.Wrapf(errors.ErrMissingAuthorization,
					"instruction %d: %s did not sign", i, meta.Address)
			}
		}
	}
	return nil
}

func contains(list []swapvault.Address, addr swapvault.Address) bool {
	for _, a := range list {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

/*
BuildSignBytes combines all info on the actual tx before signing

We use the following format:

version | len(chainID) | chainID      | nonce             | signBytes
4bytes  | uint8        | ascii string | int64 (bigendian) | serialized transaction

This is then prehashed with sha512 before fed into
the public key signing/verification step
*/
func BuildSignBytes(signBytes []byte, chainID string, nonce int64) ([]byte, error) {
	if nonce < 0 {
		return nil, errors.Wrap(ErrInvalidNonce, "negative")
	}
	if !swapvault.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "chain id: %v", chainID)
	}

	// encode nonce as 8 byte, big-endian
	encNonce := make([]byte, 8)
	binary.BigEndian.PutUint64(encNonce, uint64(nonce))

	output := make([]byte, 0, 4+1+len(chainID)+8+len(signBytes))
	output = append(output, SignCodeV1...)
	output = append(output, uint8(len(chainID)))
	output = append(output, []byte(chainID)...)
	output = append(output, encNonce...)
	output = append(output, signBytes...)

	// constant length output to feed into eddsa
	hashed := sha512.Sum512(output)
	return hashed[:], nil
}

// BuildSignBytesTx calculates the sign bytes given a tx
func BuildSignBytesTx(tx SignedTx, chainID string) ([]byte, error) {
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	return BuildSignBytes(signBytes, chainID, tx.GetNonce())
}

// SignTx creates a signature for the given tx
func SignTx(signer crypto.Signer, tx SignedTx, chainID string) (*Signature, error) {
	signBytes, err := BuildSignBytesTx(tx, chainID)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(signBytes)
	if err != nil {
		return nil, err
	}
	return &Signature{
		PubKey:    signer.PublicKey(),
		Signature: sig,
	}, nil
}
