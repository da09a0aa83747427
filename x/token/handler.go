package token

import (
	"encoding/binary"

	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
)

const (
	tagInitializeAccount uint8 = iota
	tagTransfer
	tagSetOwner
	tagCloseAccount
)

// Program exposes the Controller operations as instructions.
type Program struct {
	ctrl Controller
}

var _ swapvault.Program = Program{}

// NewProgram returns the token program.
func NewProgram(ctrl Controller) Program {
	return Program{ctrl: ctrl}
}

// ID returns ProgramID.
func (Program) ID() swapvault.Address {
	return ProgramID
}

// Process executes a single token instruction.
func (p Program) Process(ctx swapvault.Context, db swapvault.KVStore, ins swapvault.Instruction) (*swapvault.DeliverResult, error) {
	if len(ins.Data) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInstruction, "empty token instruction")
	}
	var err error
	switch tag := ins.Data[0]; tag {
	case tagInitializeAccount:
		if err = ins.RequireAccounts(3); err == nil {
			err = p.ctrl.InitAccount(db, ins.Accounts[0].Address, ins.Accounts[1].Address, ins.Accounts[2].Address)
		}
	case tagTransfer:
		if len(ins.Data) < 1+8 {
			return nil, errors.Wrap(errors.ErrInvalidInstruction, "transfer payload too short")
		}
		if err = ins.RequireAccounts(3); err == nil {
			amount := binary.LittleEndian.Uint64(ins.Data[1:9])
			err = p.ctrl.Transfer(ctx, db, ins.Accounts[0].Address, ins.Accounts[1].Address, ins.Accounts[2].Address, amount)
		}
	case tagSetOwner:
		if err = ins.RequireAccounts(3); err == nil {
			err = p.ctrl.SetOwner(ctx, db, ins.Accounts[0].Address, ins.Accounts[1].Address, ins.Accounts[2].Address)
		}
	case tagCloseAccount:
		if err = ins.RequireAccounts(3); err == nil {
			err = p.ctrl.CloseAccount(ctx, db, ins.Accounts[0].Address, ins.Accounts[1].Address, ins.Accounts[2].Address)
		}
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInstruction, "unknown token tag %d", tag)
	}
	if err != nil {
		return nil, err
	}
	return &swapvault.DeliverResult{}, nil
}

// InitializeAccountInstruction initializes a token account created for the
// token program.
func InitializeAccountInstruction(account, mint, authority swapvault.Address) swapvault.Instruction {
	return swapvault.Instruction{
		Program: ProgramID,
		Accounts: []swapvault.AccountMeta{
			swapvault.ReadOnly(account),
			swapvault.ReadOnly(mint),
			swapvault.ReadOnly(authority),
		},
		Data: []byte{tagInitializeAccount},
	}
}

// TransferInstruction moves tokens controlled by a signing authority.
func TransferInstruction(source, dest, authority swapvault.Address, amount uint64) swapvault.Instruction {
	data := make([]byte, 1+8)
	data[0] = tagTransfer
	binary.LittleEndian.PutUint64(data[1:], amount)
	return swapvault.Instruction{
		Program: ProgramID,
		Accounts: []swapvault.AccountMeta{
			swapvault.ReadOnly(source),
			swapvault.ReadOnly(dest),
			swapvault.Signer(authority),
		},
		Data: data,
	}
}

// SetOwnerInstruction hands an account over to a new authority.
func SetOwnerInstruction(account, current, next swapvault.Address) swapvault.Instruction {
	return swapvault.Instruction{
		Program: ProgramID,
		Accounts: []swapvault.AccountMeta{
			swapvault.ReadOnly(account),
			swapvault.Signer(current),
			swapvault.ReadOnly(next),
		},
		Data: []byte{tagSetOwner},
	}
}

// CloseAccountInstruction removes an empty account, refunding its storage
// allowance.
func CloseAccountInstruction(account, refund, authority swapvault.Address) swapvault.Instruction {
	return swapvault.Instruction{
		Program: ProgramID,
		Accounts: []swapvault.AccountMeta{
			swapvault.ReadOnly(account),
			swapvault.ReadOnly(refund),
			swapvault.Signer(authority),
		},
		Data: []byte{tagCloseAccount},
	}
}
