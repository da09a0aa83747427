package escrow_test

import (
	"context"
	"testing"

	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
	"github.com/iov-one/swapvault/swaptest"
	"github.com/iov-one/swapvault/x/escrow"
	"github.com/iov-one/swapvault/x/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitEscrow(t *testing.T) {
	cases := map[string]struct {
		prep    func(t *testing.T, f *fixture)
		mutate  func(f *fixture, ins *swapvault.Instruction)
		signer  func(f *fixture) swapvault.Address
		wantErr *errors.Error
	}{
		"happy path": {},
		"initializer did not sign": {
			signer:  func(f *fixture) swapvault.Address { return f.taker },
			wantErr: errors.ErrMissingAuthorization,
		},
		"wrong token program": {
			mutate: func(f *fixture, ins *swapvault.Instruction) {
				ins.Accounts[4].Address = swaptest.NewAddress()
			},
			wantErr: errors.ErrIncorrectProgram,
		},
		"receive account is not a token account": {
			mutate: func(f *fixture, ins *swapvault.Instruction) {
				ins.Accounts[2].Address = f.initializer
			},
			wantErr: errors.ErrIncorrectProgram,
		},
		"receive account does not exist": {
			mutate: func(f *fixture, ins *swapvault.Instruction) {
				ins.Accounts[2].Address = swaptest.NewAddress()
			},
			wantErr: errors.ErrIncorrectProgram,
		},
		"record not owned by escrow": {
			mutate: func(f *fixture, ins *swapvault.Instruction) {
				ins.Accounts[3].Address = f.takerReceive
			},
			wantErr: errors.ErrIncorrectProgram,
		},
		"record not exempt": {
			prep: func(t *testing.T, f *fixture) {
				acc, err := f.accounts.Get(f.db, f.record)
				require.NoError(t, err)
				acc.Lamports--
				require.NoError(t, f.accounts.Save(f.db, f.record, acc))
			},
			wantErr: errors.ErrNotExempt,
		},
		"already initialized": {
			prep:    func(t *testing.T, f *fixture) { f.open(t) },
			wantErr: errors.ErrAlreadyInitialized,
		},
		"corrupted record": {
			prep: func(t *testing.T, f *fixture) {
				acc, err := f.accounts.Get(f.db, f.record)
				require.NoError(t, err)
				acc.Data[0] = 2
				require.NoError(t, f.accounts.Save(f.db, f.record, acc))
				_, err = escrow.DecodeEscrow(f.recordData(t))
				require.True(t, errors.ErrInvalidAccountData.Is(err))
			},
			wantErr: errors.ErrInvalidAccountData,
		},
		"deposit not controlled by initializer": {
			mutate: func(f *fixture, ins *swapvault.Instruction) {
				ins.Accounts[1].Address = f.takerReceive
			},
			wantErr: token.ErrOwnerMismatch,
		},
		"truncated amount": {
			mutate: func(f *fixture, ins *swapvault.Instruction) {
				ins.Data = ins.Data[:5]
			},
			wantErr: errors.ErrInvalidInstruction,
		},
		"missing accounts": {
			mutate: func(f *fixture, ins *swapvault.Instruction) {
				ins.Accounts = ins.Accounts[:4]
			},
			wantErr: errors.ErrInvalidInstruction,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			if tc.prep != nil {
				tc.prep(t, f)
			}
			ins := f.initInstruction()
			if tc.mutate != nil {
				tc.mutate(f, &ins)
			}
			signer := f.initializer
			if tc.signer != nil {
				signer = tc.signer(f)
			}
			before := f.state(t)

			res, err := f.deliver(f.defaultRouter(), []swapvault.Address{signer}, ins)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				assert.Equal(t, before, f.state(t))
				return
			}

			assert.Equal(t, []byte(f.record), res.Data)
			got := f.escrow(t)
			require.NotNil(t, got)
			assert.True(t, got.Initialized)
			assert.Equal(t, f.initializer, got.Initializer)
			assert.Equal(t, f.deposit, got.Deposit)
			assert.Equal(t, f.initializerReceive, got.Receive)
			assert.EqualValues(t, expected, got.ExpectedAmount)

			dep, err := f.ledger.Get(f.db, f.deposit)
			require.NoError(t, err)
			assert.Equal(t, f.authority, dep.Authority)
			assert.EqualValues(t, offered, dep.Amount)
		})
	}
}

func TestExchange(t *testing.T) {
	cases := map[string]struct {
		open    bool
		prep    func(t *testing.T, f *fixture)
		mutate  func(f *fixture, a *escrow.ExchangeAccounts)
		amount  uint64
		signer  func(f *fixture) swapvault.Address
		wantErr *errors.Error
	}{
		"happy path": {
			open:   true,
			amount: offered,
		},
		"taker did not sign": {
			open:    true,
			amount:  offered,
			signer:  func(f *fixture) swapvault.Address { return f.initializer },
			wantErr: errors.ErrMissingAuthorization,
		},
		"unrelated deposit": {
			open:    true,
			amount:  offered,
			mutate:  func(f *fixture, a *escrow.ExchangeAccounts) { a.Deposit = f.takerReceive },
			wantErr: errors.ErrInvalidAccountData,
		},
		"unrelated initializer": {
			open:    true,
			amount:  offered,
			mutate:  func(f *fixture, a *escrow.ExchangeAccounts) { a.Initializer = f.taker },
			wantErr: errors.ErrInvalidAccountData,
		},
		"unrelated receive account": {
			open:    true,
			amount:  offered,
			mutate:  func(f *fixture, a *escrow.ExchangeAccounts) { a.InitializerReceive = f.takerPaying },
			wantErr: errors.ErrInvalidAccountData,
		},
		"fake custodial authority": {
			open:    true,
			amount:  offered,
			mutate:  func(f *fixture, a *escrow.ExchangeAccounts) { a.Authority = swaptest.NewAddress() },
			wantErr: errors.ErrInvalidAccountData,
		},
		"declared amount differs from deposit": {
			open:    true,
			amount:  offered - 1,
			wantErr: errors.ErrExpectedAmountMismatch,
		},
		"wrong token program": {
			open:    true,
			amount:  offered,
			mutate:  func(f *fixture, a *escrow.ExchangeAccounts) { a.TokenProgram = swaptest.NewAddress() },
			wantErr: errors.ErrIncorrectProgram,
		},
		"record does not exist": {
			open:    true,
			amount:  offered,
			mutate:  func(f *fixture, a *escrow.ExchangeAccounts) { a.Record = swaptest.NewAddress() },
			wantErr: errors.ErrNotInitialized,
		},
		"record owned by another program": {
			open:    true,
			amount:  offered,
			mutate:  func(f *fixture, a *escrow.ExchangeAccounts) { a.Record = f.takerPaying },
			wantErr: errors.ErrIncorrectProgram,
		},
		"record not open": {
			amount:  offered,
			wantErr: errors.ErrNotInitialized,
		},
		"taker cannot pay": {
			open:   true,
			amount: offered,
			prep: func(t *testing.T, f *fixture) {
				require.NoError(t, f.ledger.Transfer(
					f.auth.SetAddresses(context.Background(), f.taker), f.db, f.takerPaying, f.initializerReceive, f.taker, 1))
			},
			wantErr: errors.ErrInsufficientFunds,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			if tc.open {
				f.open(t)
			}
			if tc.prep != nil {
				tc.prep(t, f)
			}
			accounts := f.exchangeAccounts()
			if tc.mutate != nil {
				tc.mutate(f, &accounts)
			}
			signer := f.taker
			if tc.signer != nil {
				signer = tc.signer(f)
			}
			before := f.state(t)

			ins := escrow.ExchangeInstruction(accounts, tc.amount)
			_, err := f.deliver(f.defaultRouter(), []swapvault.Address{signer}, ins)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				assert.Equal(t, before, f.state(t))
				return
			}

			assert.EqualValues(t, expected, f.balance(t, f.initializerReceive))
			assert.EqualValues(t, offered, f.balance(t, f.takerReceive))
			assert.EqualValues(t, 0, f.balance(t, f.takerPaying))
			assert.Nil(t, f.escrow(t))
			assert.EqualValues(t, 0, f.lamports(t, f.deposit))
			assert.EqualValues(t, funds+f.tokenLamports+f.recordLamports, f.lamports(t, f.initializer))
		})
	}
}

func TestCancel(t *testing.T) {
	cases := map[string]struct {
		open    bool
		prep    func(t *testing.T, f *fixture)
		mutate  func(f *fixture, a *escrow.CancelAccounts)
		msg     func(f *fixture) escrow.CancelMsg
		signer  func(f *fixture) swapvault.Address
		wantErr *errors.Error
	}{
		"happy path": {
			open: true,
		},
		"valid bump": {
			open: true,
			msg:  func(f *fixture) escrow.CancelMsg { return escrow.CancelMsg{Bump: f.bump, HasBump: true} },
		},
		"foreign signer": {
			open:    true,
			mutate:  func(f *fixture, a *escrow.CancelAccounts) { a.Initializer = f.taker },
			signer:  func(f *fixture) swapvault.Address { return f.taker },
			wantErr: errors.ErrInvalidAccountData,
		},
		"foreign signer returning to own account": {
			open: true,
			mutate: func(f *fixture, a *escrow.CancelAccounts) {
				a.Initializer = f.taker
				a.ReceiveBack = f.takerReceive
			},
			signer:  func(f *fixture) swapvault.Address { return f.taker },
			wantErr: errors.ErrInvalidAccountData,
		},
		"initializer did not sign": {
			open:    true,
			signer:  func(f *fixture) swapvault.Address { return f.taker },
			wantErr: errors.ErrMissingAuthorization,
		},
		"unrelated deposit": {
			open:    true,
			mutate:  func(f *fixture, a *escrow.CancelAccounts) { a.Deposit = f.initializerToken },
			wantErr: errors.ErrInvalidAccountData,
		},
		"fake custodial authority": {
			open:    true,
			mutate:  func(f *fixture, a *escrow.CancelAccounts) { a.Authority = swaptest.NewAddress() },
			wantErr: errors.ErrInvalidAccountData,
		},
		"bump of another derivation": {
			open:    true,
			msg:     func(f *fixture) escrow.CancelMsg { return escrow.CancelMsg{Bump: f.bump - 1, HasBump: true} },
			wantErr: errors.ErrInvalidAccountData,
		},
		"record not open": {
			wantErr: errors.ErrNotInitialized,
		},
		"record refunding itself": {
			open: true,
			prep: func(t *testing.T, f *fixture) {
				acc, err := f.accounts.Get(f.db, f.record)
				require.NoError(t, err)
				e := f.escrow(t)
				e.Initializer = f.record
				acc.Data, err = e.Encode()
				require.NoError(t, err)
				require.NoError(t, f.accounts.Save(f.db, f.record, acc))
			},
			mutate:  func(f *fixture, a *escrow.CancelAccounts) { a.Initializer = f.record },
			signer:  func(f *fixture) swapvault.Address { return f.record },
			wantErr: errors.ErrInvalidInput,
		},
		"wrong token program": {
			open:    true,
			mutate:  func(f *fixture, a *escrow.CancelAccounts) { a.TokenProgram = swaptest.NewAddress() },
			wantErr: errors.ErrIncorrectProgram,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			if tc.open {
				f.open(t)
			}
			if tc.prep != nil {
				tc.prep(t, f)
			}
			accounts := f.cancelAccounts()
			if tc.mutate != nil {
				tc.mutate(f, &accounts)
			}
			var msg escrow.CancelMsg
			if tc.msg != nil {
				msg = tc.msg(f)
			}
			signer := f.initializer
			if tc.signer != nil {
				signer = tc.signer(f)
			}
			before := f.state(t)

			ins := escrow.CancelInstruction(accounts, msg)
			_, err := f.deliver(f.defaultRouter(), []swapvault.Address{signer}, ins)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				assert.Equal(t, before, f.state(t))
				return
			}

			assert.EqualValues(t, offered, f.balance(t, f.initializerToken))
			assert.EqualValues(t, expected, f.balance(t, f.takerPaying))
			assert.EqualValues(t, 0, f.balance(t, f.initializerReceive))
			assert.Nil(t, f.escrow(t))
			assert.EqualValues(t, 0, f.lamports(t, f.deposit))
			assert.EqualValues(t, funds+f.tokenLamports+f.recordLamports, f.lamports(t, f.initializer))
		})
	}
}
