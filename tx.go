package swapvault

import (
	"github.com/iov-one/swapvault/errors"
)

// AccountMeta references one account taking part in an instruction.
// Signer declares that the transaction carries a signature of this address.
type AccountMeta struct {
	Address Address `json:"address"`
	Signer  bool    `json:"signer"`
}

// Instruction is a single call into a program. The program decides how to
// interpret the accounts and the opaque data.
type Instruction struct {
	Program  Address       `json:"program"`
	Accounts []AccountMeta `json:"accounts"`
	Data     []byte        `json:"data"`
}

// Account returns the account meta at given position. Missing accounts are
// reported as an invalid instruction.
func (ins Instruction) Account(i int) (AccountMeta, error) {
	if i < 0 || i >= len(ins.Accounts) {
		return AccountMeta{}, errors.Wrapf(errors.ErrInvalidInstruction,
			"missing account %d, got %d accounts", i, len(ins.Accounts))
	}
	return ins.Accounts[i], nil
}

// RequireAccounts returns an error if the instruction lists fewer than n
// accounts.
func (ins Instruction) RequireAccounts(n int) error {
	if len(ins.Accounts) < n {
		return errors.Wrapf(errors.ErrInvalidInstruction,
			"want %d accounts, got %d", n, len(ins.Accounts))
	}
	return nil
}

// Signer returns a meta for an account that signs the transaction.
func Signer(a Address) AccountMeta {
	return AccountMeta{Address: a, Signer: true}
}

// ReadOnly returns a meta for an account that does not sign.
func ReadOnly(a Address) AccountMeta {
	return AccountMeta{Address: a}
}

// Tx represent the data sent from the user to the chain. It carries one or
// more instructions executed in order, all or nothing.
type Tx interface {
	GetInstructions() []Instruction
}

// TxDecoder can parse bytes into a Tx
type TxDecoder func(txBytes []byte) (Tx, error)
