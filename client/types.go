package client

import (
	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	tmtypes "github.com/tendermint/tendermint/types"
)

// TransactionID is the hash used to identify the transaction
type TransactionID = cmn.HexBytes

// RequestQuery is used for the query interface to mirror the abci query interface
type RequestQuery = abci.RequestQuery

// ResponseQuery is used for the query interface to mirror the abci query interface
type ResponseQuery = abci.ResponseQuery

// Header is a tendermint block header
type Header = tmtypes.Header

// CommitResult is returned from the block (DeliverTx)
// Result is only set on success codes, Err is set if it was a failure code
type CommitResult struct {
	ID     TransactionID
	Height int64
	Result *swapvault.DeliverResult
	Err    error
}

// Status is the current status of the node we connect to.
type Status struct {
	Height     int64
	CatchingUp bool
}

// parseDeliverOrError recovers the result or the registered error kind from
// a delivery response.
func parseDeliverOrError(res abci.ResponseDeliverTx) (*swapvault.DeliverResult, error) {
	if err := errors.ABCIError(res.Code, res.Log); err != nil {
		return nil, err
	}
	return &swapvault.DeliverResult{
		Data: res.Data,
		Log:  res.Log,
		Tags: res.Tags,
	}, nil
}
