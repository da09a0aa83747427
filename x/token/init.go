package token

import (
	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
)

// GenesisAccount is a funded token account created at genesis.
type GenesisAccount struct {
	Address   swapvault.Address `json:"address"`
	Mint      swapvault.Address `json:"mint"`
	Authority swapvault.Address `json:"authority"`
	Amount    uint64            `json:"amount"`
	Lamports  uint64            `json:"lamports"`
}

// Initializer fulfils the Initializer interface to load token accounts from
// the genesis file.
type Initializer struct{}

var _ swapvault.Initializer = Initializer{}

// FromGenesis will parse initial token accounts from genesis and save them
// to the database.
func (Initializer) FromGenesis(opts swapvault.Options, db swapvault.KVStore) error {
	var accounts []GenesisAccount
	if err := opts.ReadOptions("token_accounts", &accounts); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "token accounts: %s", err)
	}
	for i, a := range accounts {
		tok := Account{
			Mint:        a.Mint,
			Authority:   a.Authority,
			Amount:      a.Amount,
			Initialized: true,
		}
		if err := a.Address.Validate(); err != nil {
			return errors.Wrapf(err, "token account %d", i)
		}
		if err := CreateAccount(db, a.Address, tok, a.Lamports); err != nil {
			return errors.Wrapf(err, "token account %d", i)
		}
	}
	return nil
}
