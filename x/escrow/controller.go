package escrow

import (
	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/runtime"
)

// Ledger is the token ledger used to move the deposit. The token
// controller implements it.
type Ledger interface {
	Balance(db swapvault.ReadOnlyKVStore, account swapvault.Address) (uint64, error)
	Transfer(ctx swapvault.Context, db swapvault.KVStore, source, dest, authority swapvault.Address, amount uint64) error
	SetOwner(ctx swapvault.Context, db swapvault.KVStore, account, current, next swapvault.Address) error
	CloseAccount(ctx swapvault.Context, db swapvault.KVStore, account, refund, authority swapvault.Address) error
}

// AccountStore gives access to runtime accounts. runtime.AccountBucket
// implements it.
type AccountStore interface {
	Get(db swapvault.ReadOnlyKVStore, addr swapvault.Address) (*runtime.Account, error)
	Save(db swapvault.KVStore, addr swapvault.Address, acc *runtime.Account) error
	Delete(db swapvault.KVStore, addr swapvault.Address) error
}

// ExemptionOracle decides whether an account holds enough allowance to be
// never evicted. runtime.RentSysvar implements it.
type ExemptionOracle interface {
	IsExempt(db swapvault.ReadOnlyKVStore, lamports uint64, size int) (bool, error)
}

var (
	_ AccountStore    = runtime.AccountBucket{}
	_ ExemptionOracle = runtime.RentSysvar{}
)
