package swapvault

import (
	"github.com/iov-one/swapvault/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
)

// CheckResult captures any non-error abci result
// to make sure people use error for error cases
type CheckResult struct {
	// Data is a machine-parseable return value, like id of created entity
	Data []byte
	// Log is human-readable informational string
	Log string
	// Tags are used to index the checked transaction
	Tags []cmn.KVPair
}

// NewCheck sets the log of a result.
func NewCheck(log string) *CheckResult {
	return &CheckResult{Log: log}
}

// ToABCI converts our internal type into an abci response
func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{
		Data: c.Data,
		Log:  c.Log,
		Tags: c.Tags,
	}
}

// DeliverResult captures any non-error abci result
// to make sure people use error for error cases
type DeliverResult struct {
	// Data is a machine-parseable return value, like id of created entity
	Data []byte
	// Log is human-readable informational string
	Log string
	// Tags are used to index the transaction, every program adds its
	// own tags describing the transition it performed
	Tags []cmn.KVPair
}

// ToABCI converts our internal type into an abci response
func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{
		Data: d.Data,
		Log:  d.Log,
		Tags: d.Tags,
	}
}

// Merge appends the log and tags of other to this result. Data of the later
// result replaces the earlier one.
func (d *DeliverResult) Merge(other *DeliverResult) {
	if other == nil {
		return
	}
	if other.Data != nil {
		d.Data = other.Data
	}
	if other.Log != "" {
		if d.Log != "" {
			d.Log += "\n"
		}
		d.Log += other.Log
	}
	d.Tags = append(d.Tags, other.Tags...)
}

// Tag returns a single key value pair for an abci result.
func Tag(key, value string) cmn.KVPair {
	return cmn.KVPair{Key: []byte(key), Value: []byte(value)}
}

// DeliverTxError converts any error into a abci.ResponseDeliverTx, preserving
// as much info as possible if it was already a registered error.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseDeliverTx{
		Code: code,
		Log:  log,
	}
}

// CheckTxError converts any error into a abci.ResponseCheckTx, preserving as
// much info as possible if it was already a registered error.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseCheckTx{
		Code: code,
		Log:  log,
	}
}

// DeliverOrError returns an abci response for DeliverTx, converting the
// error message if present, or using the successful DeliverResult.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return result.ToABCI()
}

// CheckOrError returns an abci response for CheckTx, converting the error
// message if present, or using the successful CheckResult.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return result.ToABCI()
}
