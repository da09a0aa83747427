package swaptest

import (
	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/runtime"
)

// Ledger is the asset ledger interface consumed by the escrow program.
type Ledger interface {
	Balance(db swapvault.ReadOnlyKVStore, account swapvault.Address) (uint64, error)
	Transfer(ctx swapvault.Context, db swapvault.KVStore, source, dest, authority swapvault.Address, amount uint64) error
	SetOwner(ctx swapvault.Context, db swapvault.KVStore, account, current, next swapvault.Address) error
	CloseAccount(ctx swapvault.Context, db swapvault.KVStore, account, refund, authority swapvault.Address) error
}

// Fault decides which call of a wrapped collaborator fails. Calls are
// numbered from 1. When After is set the call is executed before the error
// is returned, so that a partial effect is left behind for the caller to
// roll back.
type Fault struct {
	FailAt int
	After  bool
	Err    error

	calls int
}

// Calls returns the number of counted calls so far.
func (f *Fault) Calls() int {
	return f.calls
}

// next counts a call and returns whether it must fail.
func (f *Fault) next() bool {
	f.calls++
	return f.FailAt > 0 && f.calls == f.FailAt
}

func (f *Fault) run(call func() error) error {
	if !f.next() {
		return call()
	}
	if f.After {
		if err := call(); err != nil {
			return err
		}
	}
	return f.Err
}

// FaultyLedger wraps a ledger and fails one of its state changing calls.
// Balance queries are never counted.
type FaultyLedger struct {
	Ledger
	Fault
}

var _ Ledger = (*FaultyLedger)(nil)

func (l *FaultyLedger) Transfer(ctx swapvault.Context, db swapvault.KVStore, source, dest, authority swapvault.Address, amount uint64) error {
	return l.run(func() error { return l.Ledger.Transfer(ctx, db, source, dest, authority, amount) })
}

func (l *FaultyLedger) SetOwner(ctx swapvault.Context, db swapvault.KVStore, account, current, next swapvault.Address) error {
	return l.run(func() error { return l.Ledger.SetOwner(ctx, db, account, current, next) })
}

func (l *FaultyLedger) CloseAccount(ctx swapvault.Context, db swapvault.KVStore, account, refund, authority swapvault.Address) error {
	return l.run(func() error { return l.Ledger.CloseAccount(ctx, db, account, refund, authority) })
}

// AccountStore is the account persistence consumed by programs.
type AccountStore interface {
	Get(db swapvault.ReadOnlyKVStore, addr swapvault.Address) (*runtime.Account, error)
	Save(db swapvault.KVStore, addr swapvault.Address, acc *runtime.Account) error
	Delete(db swapvault.KVStore, addr swapvault.Address) error
}

// FaultyAccounts wraps an account store and fails one of its writes.
type FaultyAccounts struct {
	AccountStore
	Fault
}

var _ AccountStore = (*FaultyAccounts)(nil)

func (a *FaultyAccounts) Save(db swapvault.KVStore, addr swapvault.Address, acc *runtime.Account) error {
	return a.run(func() error { return a.AccountStore.Save(db, addr, acc) })
}

func (a *FaultyAccounts) Delete(db swapvault.KVStore, addr swapvault.Address) error {
	return a.run(func() error { return a.AccountStore.Delete(db, addr) })
}
