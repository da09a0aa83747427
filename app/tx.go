package app

import (
	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/crypto"
	"github.com/iov-one/swapvault/errors"
	"github.com/iov-one/swapvault/x/sigs"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// Message is the signed part of a transaction.
type Message struct {
	Nonce        int64                   `json:"nonce"`
	Instructions []swapvault.Instruction `json:"instructions"`
}

// Tx is the transaction format accepted by the application. Every signature
// covers the chain ID, the nonce and the encoded message.
type Tx struct {
	Signatures []*sigs.Signature `json:"signatures"`
	Message    Message           `json:"message"`
}

var _ sigs.SignedTx = (*Tx)(nil)

// NewTx returns an unsigned transaction executing the instructions in order.
func NewTx(nonce int64, instructions ...swapvault.Instruction) *Tx {
	return &Tx{Message: Message{Nonce: nonce, Instructions: instructions}}
}

// GetInstructions returns all instructions.
func (tx *Tx) GetInstructions() []swapvault.Instruction {
	return tx.Message.Instructions
}

// GetSignBytes returns the amino encoded message.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	raw, err := cdc.MarshalBinaryBare(tx.Message)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "cannot serialize message: %s", err)
	}
	return raw, nil
}

// GetNonce returns the nonce of the message.
func (tx *Tx) GetNonce() int64 {
	return tx.Message.Nonce
}

// GetSignatures returns all signatures.
func (tx *Tx) GetSignatures() []*sigs.Signature {
	return tx.Signatures
}

// Sign appends a signature of signer, valid on given chain.
func (tx *Tx) Sign(signer crypto.Signer, chainID string) error {
	sig, err := sigs.SignTx(signer, tx, chainID)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

// Marshal returns the wire representation of the transaction.
func (tx *Tx) Marshal() ([]byte, error) {
	raw, err := cdc.MarshalBinaryBare(tx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "cannot serialize transaction: %s", err)
	}
	return raw, nil
}

// DecodeTx parses a transaction. It implements swapvault.TxDecoder.
func DecodeTx(raw []byte) (swapvault.Tx, error) {
	var tx Tx
	if err := cdc.UnmarshalBinaryBare(raw, &tx); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "cannot parse transaction: %s", err)
	}
	return &tx, nil
}
