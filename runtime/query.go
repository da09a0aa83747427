package runtime

import (
	"encoding/json"

	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
)

const (
	// AccountQueryPath is the path serving raw accounts.
	AccountQueryPath = "/account"
	// RentQueryPath is the path serving the active rent configuration.
	RentQueryPath = "/rent"
)

// RegisterQuery will register the account and rent queries on the router.
// The account request data is the raw address, the answer the JSON encoded
// account.
func RegisterQuery(qr swapvault.QueryRouter) {
	bucket := NewAccountBucket()
	qr.Register(AccountQueryPath, swapvault.QueryHandlerFunc(func(db swapvault.ReadOnlyKVStore, data []byte) ([]byte, error) {
		acc, err := bucket.Get(db, swapvault.Address(data))
		if err != nil {
			return nil, err
		}
		if acc == nil {
			return nil, errors.Wrapf(errors.ErrNotFound, "account %s", swapvault.Address(data))
		}
		return json.Marshal(acc)
	}))
	qr.Register(RentQueryPath, swapvault.QueryHandlerFunc(func(db swapvault.ReadOnlyKVStore, _ []byte) ([]byte, error) {
		rent, err := RentSysvar{}.Load(db)
		if err != nil {
			return nil, err
		}
		return json.Marshal(rent)
	}))
}
