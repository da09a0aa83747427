package escrow

import (
	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
	"github.com/iov-one/swapvault/runtime"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	actionInit     = "init"
	actionExchange = "exchange"
	actionCancel   = "cancel"
)

// Program processes escrow instructions.
type Program struct {
	auth         swapvault.Authenticator
	accounts     AccountStore
	ledger       Ledger
	rent         ExemptionOracle
	tokenProgram swapvault.Address
}

var _ swapvault.Program = Program{}

// NewProgram returns the escrow program. Deposits are held by the ledger
// owned by tokenProgram.
func NewProgram(auth swapvault.Authenticator, accounts AccountStore, ledger Ledger, rent ExemptionOracle, tokenProgram swapvault.Address) Program {
	return Program{
		auth:         auth,
		accounts:     accounts,
		ledger:       ledger,
		rent:         rent,
		tokenProgram: tokenProgram,
	}
}

// ID returns ProgramID.
func (Program) ID() swapvault.Address {
	return ProgramID
}

// Process executes a single escrow instruction.
func (p Program) Process(ctx swapvault.Context, db swapvault.KVStore, ins swapvault.Instruction) (*swapvault.DeliverResult, error) {
	msg, err := DecodeMsg(ins.Data)
	if err != nil {
		return nil, err
	}
	switch msg := msg.(type) {
	case InitMsg:
		return p.initEscrow(ctx, db, ins, msg)
	case ExchangeMsg:
		return p.exchange(ctx, db, ins, msg)
	case CancelMsg:
		return p.cancel(ctx, db, ins, msg)
	default:
		return nil, errors.Wrapf(errors.ErrHuman, "unexpected message %T", msg)
	}
}

func (p Program) initEscrow(ctx swapvault.Context, db swapvault.KVStore, ins swapvault.Instruction, msg InitMsg) (*swapvault.DeliverResult, error) {
	if err := ins.RequireAccounts(5); err != nil {
		return nil, err
	}
	var (
		initializer  = ins.Accounts[0].Address
		deposit      = ins.Accounts[1].Address
		receive      = ins.Accounts[2].Address
		recordAddr   = ins.Accounts[3].Address
		tokenProgram = ins.Accounts[4].Address
	)

	if !p.auth.HasAddress(ctx, initializer) {
		return nil, errors.Wrap(errors.ErrMissingAuthorization, "initializer")
	}
	if err := p.requireTokenProgram(tokenProgram); err != nil {
		return nil, err
	}
	recv, err := p.accounts.Get(db, receive)
	if err != nil {
		return nil, errors.Wrap(err, "receive account")
	}
	if recv == nil || !recv.Owner.Equals(p.tokenProgram) {
		return nil, errors.Wrapf(errors.ErrIncorrectProgram, "receive account %s is not a token account", receive)
	}
	record, err := p.accounts.Get(db, recordAddr)
	if err != nil {
		return nil, errors.Wrap(err, "escrow record")
	}
	if record == nil || !record.Owner.Equals(ProgramID) {
		return nil, errors.Wrapf(errors.ErrIncorrectProgram, "escrow record %s is not owned by escrow", recordAddr)
	}
	exempt, err := p.rent.IsExempt(db, record.Lamports, len(record.Data))
	if err != nil {
		return nil, err
	}
	if !exempt {
		return nil, errors.Wrapf(errors.ErrNotExempt, "escrow record %s", recordAddr)
	}
	current, err := DecodeEscrow(record.Data)
	if err != nil {
		return nil, err
	}
	if current.Initialized {
		return nil, errors.Wrapf(errors.ErrAlreadyInitialized, "escrow record %s", recordAddr)
	}
	authority, _, err := Authority(ProgramID)
	if err != nil {
		return nil, err
	}

	escrow := Escrow{
		Initialized:    true,
		Initializer:    initializer,
		Deposit:        deposit,
		Receive:        receive,
		ExpectedAmount: msg.Amount,
	}
	record.Data, err = escrow.Encode()
	if err != nil {
		return nil, err
	}
	if err := p.accounts.Save(db, recordAddr, record); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}
	if err := p.ledger.SetOwner(ctx, db, deposit, initializer, authority); err != nil {
		return nil, errors.Wrap(err, "cannot hand over deposit")
	}

	swapvault.GetLogger(ctx).Info("escrow opened",
		"escrow", recordAddr.String(), "deposit", deposit.String(), "expected", msg.Amount)
	return result(recordAddr, actionInit), nil
}

func (p Program) exchange(ctx swapvault.Context, db swapvault.KVStore, ins swapvault.Instruction, msg ExchangeMsg) (*swapvault.DeliverResult, error) {
	if err := ins.RequireAccounts(9); err != nil {
		return nil, err
	}
	var (
		taker              = ins.Accounts[0].Address
		takerPaying        = ins.Accounts[1].Address
		takerReceive       = ins.Accounts[2].Address
		deposit            = ins.Accounts[3].Address
		initializer        = ins.Accounts[4].Address
		initializerReceive = ins.Accounts[5].Address
		recordAddr         = ins.Accounts[6].Address
		tokenProgram       = ins.Accounts[7].Address
		authority          = ins.Accounts[8].Address
	)

	if !p.auth.HasAddress(ctx, taker) {
		return nil, errors.Wrap(errors.ErrMissingAuthorization, "taker")
	}
	if err := p.requireTokenProgram(tokenProgram); err != nil {
		return nil, err
	}
	record, escrow, err := p.loadOpen(db, recordAddr)
	if err != nil {
		return nil, err
	}
	if !escrow.Deposit.Equals(deposit) {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, "deposit account mismatch")
	}
	if !escrow.Initializer.Equals(initializer) {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, "initializer mismatch")
	}
	if !escrow.Receive.Equals(initializerReceive) {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, "receive account mismatch")
	}
	bump, err := requireAuthority(authority)
	if err != nil {
		return nil, err
	}
	balance, err := p.ledger.Balance(db, deposit)
	if err != nil {
		return nil, errors.Wrap(err, "deposit")
	}
	if msg.Amount != balance {
		return nil, errors.Wrapf(errors.ErrExpectedAmountMismatch, "deposit holds %d, taker expects %d", balance, msg.Amount)
	}

	if err := p.ledger.Transfer(ctx, db, takerPaying, initializerReceive, taker, escrow.ExpectedAmount); err != nil {
		return nil, errors.Wrap(err, "pay initializer")
	}
	custodian, _, err := runtime.SignAs(ctx, authoritySeeds(bump)...)
	if err != nil {
		return nil, err
	}
	if err := p.ledger.Transfer(custodian, db, deposit, takerReceive, authority, balance); err != nil {
		return nil, errors.Wrap(err, "release deposit")
	}
	if err := p.ledger.CloseAccount(custodian, db, deposit, initializer, authority); err != nil {
		return nil, errors.Wrap(err, "close deposit")
	}
	if err := p.closeRecord(db, recordAddr, record, initializer); err != nil {
		return nil, err
	}

	swapvault.GetLogger(ctx).Info("escrow settled",
		"escrow", recordAddr.String(), "taker", taker.String(), "released", balance, "paid", escrow.ExpectedAmount)
	return result(recordAddr, actionExchange), nil
}

func (p Program) cancel(ctx swapvault.Context, db swapvault.KVStore, ins swapvault.Instruction, msg CancelMsg) (*swapvault.DeliverResult, error) {
	if err := ins.RequireAccounts(6); err != nil {
		return nil, err
	}
	var (
		initializer  = ins.Accounts[0].Address
		tokenProgram = ins.Accounts[1].Address
		deposit      = ins.Accounts[2].Address
		receiveBack  = ins.Accounts[3].Address
		recordAddr   = ins.Accounts[4].Address
		authority    = ins.Accounts[5].Address
	)

	if !p.auth.HasAddress(ctx, initializer) {
		return nil, errors.Wrap(errors.ErrMissingAuthorization, "initializer")
	}
	if err := p.requireTokenProgram(tokenProgram); err != nil {
		return nil, err
	}
	record, escrow, err := p.loadOpen(db, recordAddr)
	if err != nil {
		return nil, err
	}
	if !escrow.Initializer.Equals(initializer) {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, "only the initializer can cancel")
	}
	if !escrow.Deposit.Equals(deposit) {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, "deposit account mismatch")
	}
	bump, err := requireAuthority(authority)
	if err != nil {
		return nil, err
	}
	if msg.HasBump && msg.Bump != bump {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "bump %d does not derive the authority", msg.Bump)
	}
	balance, err := p.ledger.Balance(db, deposit)
	if err != nil {
		return nil, errors.Wrap(err, "deposit")
	}

	custodian, _, err := runtime.SignAs(ctx, authoritySeeds(bump)...)
	if err != nil {
		return nil, err
	}
	if err := p.ledger.Transfer(custodian, db, deposit, receiveBack, authority, balance); err != nil {
		return nil, errors.Wrap(err, "return deposit")
	}
	if err := p.ledger.CloseAccount(custodian, db, deposit, initializer, authority); err != nil {
		return nil, errors.Wrap(err, "close deposit")
	}
	if err := p.closeRecord(db, recordAddr, record, initializer); err != nil {
		return nil, err
	}

	swapvault.GetLogger(ctx).Info("escrow cancelled",
		"escrow", recordAddr.String(), "returned", balance)
	return result(recordAddr, actionCancel), nil
}

func (p Program) requireTokenProgram(id swapvault.Address) error {
	if !id.Equals(p.tokenProgram) {
		return errors.Wrapf(errors.ErrIncorrectProgram, "token program %s", id)
	}
	return nil
}

// loadOpen returns an escrow record that was initialized and not closed yet.
func (p Program) loadOpen(db swapvault.ReadOnlyKVStore, addr swapvault.Address) (*runtime.Account, *Escrow, error) {
	record, err := p.accounts.Get(db, addr)
	if err != nil {
		return nil, nil, errors.Wrap(err, "escrow record")
	}
	if record == nil {
		return nil, nil, errors.Wrapf(errors.ErrNotInitialized, "escrow record %s does not exist", addr)
	}
	if !record.Owner.Equals(ProgramID) {
		return nil, nil, errors.Wrapf(errors.ErrIncorrectProgram, "escrow record %s is not owned by escrow", addr)
	}
	escrow, err := DecodeEscrow(record.Data)
	if err != nil {
		return nil, nil, err
	}
	if !escrow.Initialized {
		return nil, nil, errors.Wrapf(errors.ErrNotInitialized, "escrow record %s", addr)
	}
	return record, escrow, nil
}

// closeRecord credits the record allowance to the refund account and
// removes the record.
func (p Program) closeRecord(db swapvault.KVStore, addr swapvault.Address, record *runtime.Account, refund swapvault.Address) error {
	if refund.Equals(addr) {
		return errors.Wrap(errors.ErrInvalidInput, "cannot refund escrow to itself")
	}
	dest, err := p.accounts.Get(db, refund)
	if err != nil {
		return errors.Wrap(err, "refund account")
	}
	if dest == nil {
		dest = &runtime.Account{Owner: runtime.SystemProgramID}
	}
	if err := dest.Credit(record.Lamports); err != nil {
		return errors.Wrap(err, "refund escrow allowance")
	}
	if err := p.accounts.Save(db, refund, dest); err != nil {
		return errors.Wrap(err, "refund escrow allowance")
	}
	if err := p.accounts.Delete(db, addr); err != nil {
		return errors.Wrap(err, "cannot delete escrow")
	}
	return nil
}

// requireAuthority returns the bump of the custodial authority if the
// supplied address is the authority.
func requireAuthority(supplied swapvault.Address) (uint8, error) {
	authority, bump, err := Authority(ProgramID)
	if err != nil {
		return 0, err
	}
	if !authority.Equals(supplied) {
		return 0, errors.Wrapf(errors.ErrInvalidAccountData, "%s is not the custodial authority", supplied)
	}
	return bump, nil
}

func result(record swapvault.Address, action string) *swapvault.DeliverResult {
	return &swapvault.DeliverResult{
		Data: record,
		Log:  "escrow " + action,
		Tags: []common.KVPair{
			swapvault.Tag("escrow", record.String()),
			swapvault.Tag("action", action),
		},
	}
}
