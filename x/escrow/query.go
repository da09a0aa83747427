package escrow

import (
	"encoding/json"

	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
	"github.com/iov-one/swapvault/runtime"
)

const (
	// EscrowQueryPath serves decoded escrow records.
	EscrowQueryPath = "/escrow"
	// AuthorityQueryPath serves the custodial authority.
	AuthorityQueryPath = "/authority"
)

// AuthorityInfo is the answer of the authority query.
type AuthorityInfo struct {
	Address swapvault.Address `json:"address"`
	Bump    uint8             `json:"bump"`
}

// RegisterQuery will register the escrow queries on the router. The escrow
// query expects the raw record address as the request data.
func RegisterQuery(qr swapvault.QueryRouter) {
	accounts := runtime.NewAccountBucket()
	qr.Register(EscrowQueryPath, swapvault.QueryHandlerFunc(func(db swapvault.ReadOnlyKVStore, data []byte) ([]byte, error) {
		addr := swapvault.Address(data)
		acc, err := accounts.GetOwned(db, addr, ProgramID)
		if err != nil {
			if errors.ErrNotInitialized.Is(err) {
				return nil, errors.Wrapf(errors.ErrNotFound, "escrow %s", addr)
			}
			return nil, err
		}
		escrow, err := DecodeEscrow(acc.Data)
		if err != nil {
			return nil, err
		}
		return json.Marshal(escrow)
	}))
	qr.Register(AuthorityQueryPath, swapvault.QueryHandlerFunc(func(swapvault.ReadOnlyKVStore, []byte) ([]byte, error) {
		addr, bump, err := Authority(ProgramID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(AuthorityInfo{Address: addr, Bump: bump})
	}))
}
