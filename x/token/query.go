package token

import (
	"encoding/json"

	"github.com/iov-one/swapvault"
)

// BalanceQueryPath is the path serving decoded token accounts.
const BalanceQueryPath = "/balance"

// RegisterQuery will register the token account query on the router. The
// request data is the raw address, the answer the JSON encoded Account.
func RegisterQuery(qr swapvault.QueryRouter, ctrl Controller) {
	qr.Register(BalanceQueryPath, swapvault.QueryHandlerFunc(func(db swapvault.ReadOnlyKVStore, data []byte) ([]byte, error) {
		tok, err := ctrl.Get(db, swapvault.Address(data))
		if err != nil {
			return nil, err
		}
		return json.Marshal(tok)
	}))
}
