package client

import (
	"context"
	"time"

	"github.com/iov-one/swapvault/errors"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
)

// pollInterval is how often WaitForHeight asks the node for its status.
var pollInterval = 100 * time.Millisecond

// Marshaller is a transaction ready to be sent over the wire.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Client is a tendermint client wrapped to provide simple access to the
// basic data structures of the chain.
//
// Higher-level API build around these basic accessors is defined by
// SwapClient.
type Client struct {
	conn Connection
}

// NewClient wraps a Client around an existing tendermint client connection.
func NewClient(conn Connection) *Client {
	return &Client{conn: conn}
}

// Status returns current height and other (subjective) status info from this node
func (c *Client) Status(ctx context.Context) (*Status, error) {
	status, err := c.conn.Status()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "status: %s", err)
	}
	return &Status{
		Height:     status.SyncInfo.LatestBlockHeight,
		CatchingUp: status.SyncInfo.CatchingUp,
	}, nil
}

// Header returns the block header at the given height.
// Returns an error if no header exists yet for that height
func (c *Client) Header(ctx context.Context, height int64) (*Header, error) {
	info, err := c.conn.BlockchainInfo(height, height)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "blockchain info: %s", err)
	}
	if len(info.BlockMetas) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "no headers for height %d", height)
	}
	return &info.BlockMetas[0].Header, nil
}

// SubmitTx will submit the tx to the mempool and return once it passed the
// check. Use CommitTx to wait for the block result.
func (c *Client) SubmitTx(ctx context.Context, tx Marshaller) (TransactionID, error) {
	bz, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal tx")
	}
	res, err := c.conn.BroadcastTxSync(bz)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "submit tx: %s", err)
	}
	// a checktx error didn't make it into mempool and will not make it into a block
	if res.Code != 0 {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return res.Hash, nil
}

// CommitTx submits the tx and blocks until it is included in a block. A tx
// rejected by the check is returned as an error, a tx that failed in the
// block is reported in CommitResult.Err.
func (c *Client) CommitTx(ctx context.Context, tx Marshaller) (*CommitResult, error) {
	bz, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal tx")
	}
	res, err := c.conn.BroadcastTxCommit(bz)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "commit tx: %s", err)
	}
	if res.CheckTx.Code != 0 {
		return nil, errors.ABCIError(res.CheckTx.Code, res.CheckTx.Log)
	}
	result, err := parseDeliverOrError(res.DeliverTx)
	return &CommitResult{
		ID:     res.Hash,
		Height: res.Height,
		Result: result,
		Err:    err,
	}, nil
}

// Query is meant to mirror the abci query interface exactly. A network
// failure is reported with the ErrNetwork code.
func (c *Client) Query(query RequestQuery) ResponseQuery {
	res, err := c.conn.ABCIQueryWithOptions(query.Path, query.Data, rpcclient.ABCIQueryOptions{Height: query.Height, Prove: query.Prove})
	if err != nil {
		code, log := errors.ABCIInfo(errors.Wrap(errors.ErrNetwork, err.Error()), false)
		return ResponseQuery{
			Code: code,
			Log:  log,
		}
	}
	return res.Response
}

// GetTxByID will return the result of a committed transaction.
func (c *Client) GetTxByID(ctx context.Context, id TransactionID) (*CommitResult, error) {
	tx, err := c.conn.Tx(id, false)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "get tx: %s", err)
	}
	return resultTxToCommitResult(tx), nil
}

// WaitForHeight polls the node until a block of the given height was
// committed and returns its header.
func (c *Client) WaitForHeight(ctx context.Context, height int64) (*Header, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		status, err := c.Status(ctx)
		if err != nil {
			return nil, err
		}
		if status.Height >= height {
			return c.Header(ctx, height)
		}
		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(errors.ErrTimeout, "height %d: %s", height, ctx.Err())
		case <-ticker.C:
		}
	}
}

func resultTxToCommitResult(tx *ctypes.ResultTx) *CommitResult {
	res, err := parseDeliverOrError(tx.TxResult)
	return &CommitResult{
		ID:     tx.Hash,
		Height: tx.Height,
		Result: res,
		Err:    err,
	}
}
