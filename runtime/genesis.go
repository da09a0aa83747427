package runtime

import (
	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
	"github.com/iov-one/swapvault/gconf"
)

// Initializer fulfils the Initializer interface to load the rent
// configuration and funded accounts from the genesis file.
type Initializer struct{}

var _ swapvault.Initializer = Initializer{}

// GenesisAccount is a system owned account funded at genesis.
type GenesisAccount struct {
	Address  swapvault.Address `json:"address"`
	Lamports uint64            `json:"lamports"`
}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts swapvault.Options, db swapvault.KVStore) error {
	var rent Rent
	switch err := gconf.InitConfig(db, opts, RentConfName, &rent); {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		// defaults apply
	default:
		return err
	}

	var accounts []GenesisAccount
	if err := opts.ReadOptions("accounts", &accounts); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "accounts: %s", err)
	}
	bucket := NewAccountBucket()
	for i, a := range accounts {
		existing, err := bucket.Get(db, a.Address)
		if err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if existing != nil {
			return errors.Wrapf(errors.ErrDuplicate, "account %s", a.Address)
		}
		acc := &Account{Lamports: a.Lamports, Owner: SystemProgramID}
		if err := bucket.Save(db, a.Address, acc); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
