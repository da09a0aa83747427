package runtime

import (
	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// Account is the state held for every address. Lamports are the storage
// allowance of the account. Only the Owner program may change Data or debit
// Lamports.
type Account struct {
	Lamports uint64            `json:"lamports"`
	Owner    swapvault.Address `json:"owner"`
	Data     []byte            `json:"data"`
}

// Validate returns an error if the account cannot be persisted.
func (a *Account) Validate() error {
	if a == nil {
		return errors.Wrap(errors.ErrInvalidInput, "nil account")
	}
	if err := a.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return nil
}

// IsEmpty returns true if the account holds neither allowance nor data.
// Empty accounts are removed from the state.
func (a *Account) IsEmpty() bool {
	return a.Lamports == 0 && len(a.Data) == 0
}

// Credit adds lamports to the balance, failing on overflow.
func (a *Account) Credit(lamports uint64) error {
	sum := a.Lamports + lamports
	if sum < a.Lamports {
		return errors.Wrapf(errors.ErrAmountOverflow, "%d + %d", a.Lamports, lamports)
	}
	a.Lamports = sum
	return nil
}

// Debit removes lamports from the balance.
func (a *Account) Debit(lamports uint64) error {
	if a.Lamports < lamports {
		return errors.Wrapf(errors.ErrInsufficientFunds, "have %d, need %d", a.Lamports, lamports)
	}
	a.Lamports -= lamports
	return nil
}

// AccountBucket persists accounts under the "acct:" prefix.
type AccountBucket struct {
	prefix []byte
}

// NewAccountBucket returns the bucket holding all accounts.
func NewAccountBucket() AccountBucket {
	return AccountBucket{prefix: []byte("acct:")}
}

func (b AccountBucket) key(addr swapvault.Address) []byte {
	return append(append([]byte{}, b.prefix...), addr...)
}

// Get returns the account stored under given address or nil if it does not
// exist.
func (b AccountBucket) Get(db swapvault.ReadOnlyKVStore, addr swapvault.Address) (*Account, error) {
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	raw, err := db.Get(b.key(addr))
	if err != nil {
		return nil, errors.Wrap(err, "cannot load account")
	}
	if raw == nil {
		return nil, nil
	}
	var acc Account
	if err := cdc.UnmarshalBinaryBare(raw, &acc); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "account %s: %s", addr, err)
	}
	return &acc, nil
}

// Save writes the account. An empty account is deleted instead.
func (b AccountBucket) Save(db swapvault.KVStore, addr swapvault.Address, acc *Account) error {
	if err := addr.Validate(); err != nil {
		return err
	}
	if err := acc.Validate(); err != nil {
		return err
	}
	if acc.IsEmpty() {
		return b.Delete(db, addr)
	}
	raw, err := cdc.MarshalBinaryBare(acc)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "cannot serialize account: %s", err)
	}
	return db.Set(b.key(addr), raw)
}

// Delete removes the account.
func (b AccountBucket) Delete(db swapvault.KVStore, addr swapvault.Address) error {
	if err := addr.Validate(); err != nil {
		return err
	}
	return db.Delete(b.key(addr))
}

// GetOwned loads an account that must exist and be owned by the given
// program. A missing account results in ErrNotInitialized, a foreign owner in
// ErrIncorrectProgram.
func (b AccountBucket) GetOwned(db swapvault.ReadOnlyKVStore, addr, owner swapvault.Address) (*Account, error) {
	acc, err := b.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, errors.Wrapf(errors.ErrNotInitialized, "account %s does not exist", addr)
	}
	if !acc.Owner.Equals(owner) {
		return nil, errors.Wrapf(errors.ErrIncorrectProgram, "account %s is owned by %s", addr, acc.Owner)
	}
	return acc, nil
}
