package runtime

import (
	"encoding/binary"

	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
	"github.com/tendermint/tendermint/libs/common"
)

// SystemProgramID owns all plain accounts and is the only program that can
// create new accounts.
var SystemProgramID = swapvault.NewProgramID("system")

// MaxAccountDataSize limits the data size of an account created by the
// system program.
const MaxAccountDataSize = 10 * 1024 * 1024

const (
	systemCreateAccount uint8 = iota
	systemTransfer
)

// SystemProgram creates accounts and moves lamports between system owned
// accounts.
type SystemProgram struct {
	auth     swapvault.Authenticator
	accounts AccountBucket
}

var _ swapvault.Program = SystemProgram{}

// NewSystemProgram returns the system program using given authenticator.
func NewSystemProgram(auth swapvault.Authenticator) SystemProgram {
	return SystemProgram{auth: auth, accounts: NewAccountBucket()}
}

// ID returns SystemProgramID.
func (SystemProgram) ID() swapvault.Address {
	return SystemProgramID
}

// Process executes a system instruction.
func (p SystemProgram) Process(ctx swapvault.Context, db swapvault.KVStore, ins swapvault.Instruction) (*swapvault.DeliverResult, error) {
	if len(ins.Data) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInstruction, "empty system instruction")
	}
	switch ins.Data[0] {
	case systemCreateAccount:
		return p.createAccount(ctx, db, ins)
	case systemTransfer:
		return p.transfer(ctx, db, ins)
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInstruction, "unknown system tag %d", ins.Data[0])
	}
}

func (p SystemProgram) createAccount(ctx swapvault.Context, db swapvault.KVStore, ins swapvault.Instruction) (*swapvault.DeliverResult, error) {
	if len(ins.Data) < 1+8+8+swapvault.AddressLength {
		return nil, errors.Wrap(errors.ErrInvalidInstruction, "create account payload too short")
	}
	if err := ins.RequireAccounts(2); err != nil {
		return nil, err
	}
	lamports := binary.LittleEndian.Uint64(ins.Data[1:9])
	space := binary.LittleEndian.Uint64(ins.Data[9:17])
	owner := swapvault.Address(append([]byte{}, ins.Data[17:17+swapvault.AddressLength]...))
	funder, created := ins.Accounts[0].Address, ins.Accounts[1].Address

	if space > MaxAccountDataSize {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "space %d exceeds limit", space)
	}
	if !p.auth.HasAddress(ctx, funder) {
		return nil, errors.Wrap(errors.ErrMissingAuthorization, "funder")
	}
	if !p.auth.HasAddress(ctx, created) {
		return nil, errors.Wrap(errors.ErrMissingAuthorization, "new account")
	}
	existing, err := p.accounts.Get(db, created)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Wrapf(errors.ErrDuplicate, "account %s already in use", created)
	}
	from, err := p.accounts.GetOwned(db, funder, SystemProgramID)
	if err != nil {
		return nil, errors.Wrap(err, "funder")
	}
	if err := from.Debit(lamports); err != nil {
		return nil, err
	}
	if err := p.accounts.Save(db, funder, from); err != nil {
		return nil, err
	}
	acc := &Account{
		Lamports: lamports,
		Owner:    owner,
		Data:     make([]byte, space),
	}
	if err := p.accounts.Save(db, created, acc); err != nil {
		return nil, err
	}
	return &swapvault.DeliverResult{
		Tags: []common.KVPair{swapvault.Tag("account", created.String())},
	}, nil
}

func (p SystemProgram) transfer(ctx swapvault.Context, db swapvault.KVStore, ins swapvault.Instruction) (*swapvault.DeliverResult, error) {
	if len(ins.Data) < 1+8 {
		return nil, errors.Wrap(errors.ErrInvalidInstruction, "transfer payload too short")
	}
	if err := ins.RequireAccounts(2); err != nil {
		return nil, err
	}
	lamports := binary.LittleEndian.Uint64(ins.Data[1:9])
	fromAddr, toAddr := ins.Accounts[0].Address, ins.Accounts[1].Address
	if !p.auth.HasAddress(ctx, fromAddr) {
		return nil, errors.Wrap(errors.ErrMissingAuthorization, "sender")
	}
	from, err := p.accounts.GetOwned(db, fromAddr, SystemProgramID)
	if err != nil {
		return nil, errors.Wrap(err, "sender")
	}
	if err := from.Debit(lamports); err != nil {
		return nil, err
	}
	if err := p.accounts.Save(db, fromAddr, from); err != nil {
		return nil, err
	}
	if err := Credit(db, p.accounts, toAddr, lamports); err != nil {
		return nil, err
	}
	return &swapvault.DeliverResult{}, nil
}

// Credit adds lamports to the account under given address, creating a system
// owned account if none exists.
func Credit(db swapvault.KVStore, accounts AccountBucket, addr swapvault.Address, lamports uint64) error {
	acc, err := accounts.Get(db, addr)
	if err != nil {
		return err
	}
	if acc == nil {
		acc = &Account{Owner: SystemProgramID}
	}
	if err := acc.Credit(lamports); err != nil {
		return err
	}
	return accounts.Save(db, addr, acc)
}

// CreateAccountInstruction returns an instruction creating a new account
// with given allowance, data size and owner program. Both funder and the new
// account must sign.
func CreateAccountInstruction(funder, created swapvault.Address, lamports, space uint64, owner swapvault.Address) swapvault.Instruction {
	data := make([]byte, 1+8+8, 1+8+8+swapvault.AddressLength)
	data[0] = systemCreateAccount
	binary.LittleEndian.PutUint64(data[1:9], lamports)
	binary.LittleEndian.PutUint64(data[9:17], space)
	data = append(data, owner...)
	return swapvault.Instruction{
		Program:  SystemProgramID,
		Accounts: []swapvault.AccountMeta{swapvault.Signer(funder), swapvault.Signer(created)},
		Data:     data,
	}
}

// TransferInstruction returns an instruction moving lamports between
// accounts.
func TransferInstruction(from, to swapvault.Address, lamports uint64) swapvault.Instruction {
	data := make([]byte, 1+8)
	data[0] = systemTransfer
	binary.LittleEndian.PutUint64(data[1:], lamports)
	return swapvault.Instruction{
		Program:  SystemProgramID,
		Accounts: []swapvault.AccountMeta{swapvault.Signer(from), swapvault.ReadOnly(to)},
		Data:     data,
	}
}
