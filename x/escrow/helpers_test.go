package escrow_test

import (
	"context"
	"testing"

	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/runtime"
	"github.com/iov-one/swapvault/store"
	"github.com/iov-one/swapvault/swaptest"
	"github.com/iov-one/swapvault/x/escrow"
	"github.com/iov-one/swapvault/x/token"
	"github.com/iov-one/swapvault/x/utils"
	"github.com/stretchr/testify/require"
)

const (
	offered  = 1000
	expected = 500
	funds    = 1000000000
)

// fixture holds a database prepared for a single trade. The deposit is
// funded and still controlled by the initializer.
type fixture struct {
	db       swapvault.CacheableKVStore
	auth     *swaptest.CtxAuth
	ledger   token.Controller
	accounts runtime.AccountBucket

	mintOffered  swapvault.Address
	mintExpected swapvault.Address

	initializer        swapvault.Address
	initializerToken   swapvault.Address
	initializerReceive swapvault.Address
	taker              swapvault.Address
	takerPaying        swapvault.Address
	takerReceive       swapvault.Address
	deposit            swapvault.Address
	record             swapvault.Address

	authority      swapvault.Address
	bump           uint8
	tokenLamports  uint64
	recordLamports uint64
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	f := &fixture{
		db:                 store.MemStore(),
		auth:               &swaptest.CtxAuth{Key: "signers"},
		accounts:           runtime.NewAccountBucket(),
		mintOffered:        swaptest.NewAddress(),
		mintExpected:       swaptest.NewAddress(),
		initializer:        swaptest.NewAddress(),
		initializerToken:   swaptest.NewAddress(),
		initializerReceive: swaptest.NewAddress(),
		taker:              swaptest.NewAddress(),
		takerPaying:        swaptest.NewAddress(),
		takerReceive:       swaptest.NewAddress(),
		deposit:            swaptest.NewAddress(),
		record:             swaptest.NewAddress(),
	}
	f.ledger = token.NewController(f.authenticator())

	var err error
	f.authority, f.bump, err = escrow.Authority(escrow.ProgramID)
	require.NoError(t, err)
	f.tokenLamports, err = runtime.DefaultRent().MinimumBalance(token.AccountSize)
	require.NoError(t, err)
	f.recordLamports, err = runtime.DefaultRent().MinimumBalance(escrow.RecordSize)
	require.NoError(t, err)

	for _, addr := range []swapvault.Address{f.initializer, f.taker} {
		acc := &runtime.Account{Lamports: funds, Owner: runtime.SystemProgramID}
		require.NoError(t, f.accounts.Save(f.db, addr, acc))
	}
	f.createToken(t, f.initializerToken, f.mintOffered, f.initializer, 0)
	f.createToken(t, f.initializerReceive, f.mintExpected, f.initializer, 0)
	f.createToken(t, f.takerPaying, f.mintExpected, f.taker, expected)
	f.createToken(t, f.takerReceive, f.mintOffered, f.taker, 0)
	f.createToken(t, f.deposit, f.mintOffered, f.initializer, offered)

	record := &runtime.Account{
		Lamports: f.recordLamports,
		Owner:    escrow.ProgramID,
		Data:     make([]byte, escrow.RecordSize),
	}
	require.NoError(t, f.accounts.Save(f.db, f.record, record))
	return f
}

func (f *fixture) createToken(t testing.TB, addr, mint, authority swapvault.Address, amount uint64) {
	t.Helper()
	tok := token.Account{Mint: mint, Authority: authority, Amount: amount, Initialized: true}
	require.NoError(t, token.CreateAccount(f.db, addr, tok, f.tokenLamports))
}

func (f *fixture) authenticator() swapvault.Authenticator {
	return swapvault.ChainAuth(f.auth, runtime.Authenticate{})
}

// router returns all programs, with escrow using given collaborators.
func (f *fixture) router(ledger escrow.Ledger, accounts escrow.AccountStore) *runtime.Router {
	r := runtime.NewRouter()
	r.Register(runtime.NewSystemProgram(f.authenticator()))
	r.Register(token.NewProgram(f.ledger))
	r.Register(escrow.NewProgram(f.authenticator(), accounts, ledger, runtime.RentSysvar{}, token.ProgramID))
	return r
}

func (f *fixture) defaultRouter() *runtime.Router {
	return f.router(f.ledger, f.accounts)
}

// deliver executes the instructions in a single transaction signed by
// signers. Nothing is written if any instruction fails.
func (f *fixture) deliver(h swapvault.Deliverer, signers []swapvault.Address, ins ...swapvault.Instruction) (*swapvault.DeliverResult, error) {
	ctx := f.auth.SetAddresses(context.Background(), signers...)
	tx := &swaptest.Tx{Instructions: ins}
	return utils.NewSavepoint().OnDeliver().Deliver(ctx, f.db, tx, h)
}

func (f *fixture) initInstruction() swapvault.Instruction {
	return escrow.InitInstruction(f.initializer, f.deposit, f.initializerReceive, f.record, token.ProgramID, expected)
}

func (f *fixture) open(t testing.TB) {
	t.Helper()
	_, err := f.deliver(f.defaultRouter(), []swapvault.Address{f.initializer}, f.initInstruction())
	require.NoError(t, err)
}

func (f *fixture) exchangeAccounts() escrow.ExchangeAccounts {
	return escrow.ExchangeAccounts{
		Taker:              f.taker,
		TakerPaying:        f.takerPaying,
		TakerReceive:       f.takerReceive,
		Deposit:            f.deposit,
		Initializer:        f.initializer,
		InitializerReceive: f.initializerReceive,
		Record:             f.record,
		TokenProgram:       token.ProgramID,
		Authority:          f.authority,
	}
}

func (f *fixture) cancelAccounts() escrow.CancelAccounts {
	return escrow.CancelAccounts{
		Initializer:  f.initializer,
		TokenProgram: token.ProgramID,
		Deposit:      f.deposit,
		ReceiveBack:  f.initializerToken,
		Record:       f.record,
		Authority:    f.authority,
	}
}

// balance returns the token balance or 0 for a closed account.
func (f *fixture) balance(t testing.TB, addr swapvault.Address) uint64 {
	t.Helper()
	acc, err := f.accounts.Get(f.db, addr)
	require.NoError(t, err)
	if acc == nil {
		return 0
	}
	amount, err := f.ledger.Balance(f.db, addr)
	require.NoError(t, err)
	return amount
}

// lamports returns the storage allowance or 0 for a missing account.
func (f *fixture) lamports(t testing.TB, addr swapvault.Address) uint64 {
	t.Helper()
	acc, err := f.accounts.Get(f.db, addr)
	require.NoError(t, err)
	if acc == nil {
		return 0
	}
	return acc.Lamports
}

func (f *fixture) escrow(t testing.TB) *escrow.Escrow {
	t.Helper()
	acc, err := f.accounts.Get(f.db, f.record)
	require.NoError(t, err)
	if acc == nil {
		return nil
	}
	e, err := escrow.DecodeEscrow(acc.Data)
	require.NoError(t, err)
	return e
}

// recordData returns the raw record bytes, nil for a missing account. It
// does not decode, so corrupted records can be compared too.
func (f *fixture) recordData(t testing.TB) []byte {
	t.Helper()
	acc, err := f.accounts.Get(f.db, f.record)
	require.NoError(t, err)
	if acc == nil {
		return nil
	}
	return append([]byte{}, acc.Data...)
}

// state captures everything a trade can change.
type state struct {
	Tokens   map[string]uint64
	Lamports map[string]uint64
	Record   []byte
	Deposit  *token.Account
}

func (f *fixture) state(t testing.TB) state {
	t.Helper()
	s := state{
		Tokens:   make(map[string]uint64),
		Lamports: make(map[string]uint64),
		Record:   f.recordData(t),
	}
	for _, addr := range []swapvault.Address{
		f.initializerToken, f.initializerReceive, f.takerPaying, f.takerReceive, f.deposit,
	} {
		s.Tokens[addr.String()] = f.balance(t, addr)
	}
	for _, addr := range []swapvault.Address{
		f.initializer, f.taker, f.deposit, f.record,
	} {
		s.Lamports[addr.String()] = f.lamports(t, addr)
	}
	if dep, err := f.ledger.Get(f.db, f.deposit); err == nil {
		s.Deposit = dep
	}
	return s
}
