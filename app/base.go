package app

import (
	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp adds DeliverTx and CheckTx handlers to the storage and query
// functionality of StoreApp
type BaseApp struct {
	*StoreApp
	decoder swapvault.TxDecoder
	handler swapvault.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp constructs a basic abci application
func NewBaseApp(
	store *StoreApp,
	decoder swapvault.TxDecoder,
	handler swapvault.Handler,
	debug bool,
) BaseApp {
	return BaseApp{
		StoreApp: store.WithDebug(debug),
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx - ABCI - dispatches to the handler
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return swapvault.DeliverTxError(err, b.debug)
	}

	ctx := swapvault.WithLogInfo(b.BlockContext(),
		"call", "deliver_tx",
		"instructions", len(tx.GetInstructions()))

	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return swapvault.DeliverOrError(res, err, b.debug)
}

// CheckTx - ABCI - dispatches to the handler
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return swapvault.CheckTxError(err, b.debug)
	}

	ctx := swapvault.WithLogInfo(b.BlockContext(),
		"call", "check_tx",
		"instructions", len(tx.GetInstructions()))

	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return swapvault.CheckOrError(res, err, b.debug)
}

// loadTx calls the decoder, and capture any panics
func (b BaseApp) loadTx(txBytes []byte) (tx swapvault.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	return
}
