package client

import (
	"context"
	"encoding/json"

	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/app"
	"github.com/iov-one/swapvault/crypto"
	"github.com/iov-one/swapvault/errors"
	"github.com/iov-one/swapvault/runtime"
	"github.com/iov-one/swapvault/x/escrow"
	"github.com/iov-one/swapvault/x/token"
	cmn "github.com/tendermint/tendermint/libs/common"
)

// SwapClient builds, signs and commits escrow transactions on one chain.
type SwapClient struct {
	client  *Client
	chainID string
	// nonce returns a fresh nonce for every transaction.
	nonce func() int64
}

// NewSwapClient returns a client signing for the given chain.
func NewSwapClient(c *Client, chainID string) *SwapClient {
	return &SwapClient{client: c, chainID: chainID, nonce: cmn.RandInt63}
}

// Offer describes a swap opened by the initializer: Amount tokens taken
// from Source are locked until somebody pays Expected tokens into Receive.
type Offer struct {
	Initializer *crypto.PrivateKey
	Source      swapvault.Address
	Receive     swapvault.Address
	Amount      uint64
	Expected    uint64
}

// OpenEscrow identifies the accounts created by InitEscrow.
type OpenEscrow struct {
	Record  swapvault.Address
	Deposit swapvault.Address
	Result  *CommitResult
}

// InitEscrow opens an escrow in a single transaction: it creates and
// funds the temporary deposit account, creates the record account and
// initializes the escrow.
func (s *SwapClient) InitEscrow(ctx context.Context, o Offer) (*OpenEscrow, error) {
	source, err := s.GetBalance(ctx, o.Source)
	if err != nil {
		return nil, errors.Wrap(err, "source account")
	}
	rent, err := s.GetRent(ctx)
	if err != nil {
		return nil, err
	}
	depositLamports, err := rent.MinimumBalance(token.AccountSize)
	if err != nil {
		return nil, err
	}
	recordLamports, err := rent.MinimumBalance(escrow.RecordSize)
	if err != nil {
		return nil, err
	}

	deposit := crypto.GenPrivKeyEd25519()
	record := crypto.GenPrivKeyEd25519()
	initializer := o.Initializer.Address()
	tx := app.NewTx(s.nonce(),
		runtime.CreateAccountInstruction(initializer, deposit.Address(), depositLamports, token.AccountSize, token.ProgramID),
		token.InitializeAccountInstruction(deposit.Address(), source.Mint, initializer),
		token.TransferInstruction(o.Source, deposit.Address(), initializer, o.Amount),
		runtime.CreateAccountInstruction(initializer, record.Address(), recordLamports, escrow.RecordSize, escrow.ProgramID),
		escrow.InitInstruction(initializer, deposit.Address(), o.Receive, record.Address(), token.ProgramID, o.Expected),
	)
	res, err := s.commit(ctx, tx, o.Initializer, deposit, record)
	if err != nil {
		return nil, err
	}
	return &OpenEscrow{Record: record.Address(), Deposit: deposit.Address(), Result: res}, nil
}

// TakeTrade settles the escrow stored under record. The taker pays from
// paying and receives the deposit into receive. Amount is the deposit the
// taker expects to receive.
func (s *SwapClient) TakeTrade(ctx context.Context, taker *crypto.PrivateKey, record, paying, receive swapvault.Address, amount uint64) (*CommitResult, error) {
	e, err := s.GetEscrowInfo(ctx, record)
	if err != nil {
		return nil, err
	}
	authority, err := s.GetAuthority(ctx)
	if err != nil {
		return nil, err
	}
	ins := escrow.ExchangeInstruction(escrow.ExchangeAccounts{
		Taker:              taker.Address(),
		TakerPaying:        paying,
		TakerReceive:       receive,
		Deposit:            e.Deposit,
		Initializer:        e.Initializer,
		InitializerReceive: e.Receive,
		Record:             record,
		TokenProgram:       token.ProgramID,
		Authority:          authority.Address,
	}, amount)
	return s.commit(ctx, app.NewTx(s.nonce(), ins), taker)
}

// Cancel closes the escrow stored under record and returns the deposit
// into receiveBack.
func (s *SwapClient) Cancel(ctx context.Context, initializer *crypto.PrivateKey, record, receiveBack swapvault.Address) (*CommitResult, error) {
	e, err := s.GetEscrowInfo(ctx, record)
	if err != nil {
		return nil, err
	}
	authority, err := s.GetAuthority(ctx)
	if err != nil {
		return nil, err
	}
	ins := escrow.CancelInstruction(escrow.CancelAccounts{
		Initializer:  initializer.Address(),
		TokenProgram: token.ProgramID,
		Deposit:      e.Deposit,
		ReceiveBack:  receiveBack,
		Record:       record,
		Authority:    authority.Address,
	}, escrow.CancelMsg{Bump: authority.Bump, HasBump: true})
	return s.commit(ctx, app.NewTx(s.nonce(), ins), initializer)
}

// GetEscrowInfo returns the open escrow stored under record.
func (s *SwapClient) GetEscrowInfo(ctx context.Context, record swapvault.Address) (*escrow.Escrow, error) {
	var e escrow.Escrow
	if err := s.query(escrow.EscrowQueryPath, record, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// GetBalance returns the token account stored under addr.
func (s *SwapClient) GetBalance(ctx context.Context, addr swapvault.Address) (*token.Account, error) {
	var acc token.Account
	if err := s.query(token.BalanceQueryPath, addr, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// GetAccount returns the raw account stored under addr.
func (s *SwapClient) GetAccount(ctx context.Context, addr swapvault.Address) (*runtime.Account, error) {
	var acc runtime.Account
	if err := s.query(runtime.AccountQueryPath, addr, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// GetAuthority returns the custodial authority of the escrow program.
func (s *SwapClient) GetAuthority(ctx context.Context) (*escrow.AuthorityInfo, error) {
	var info escrow.AuthorityInfo
	if err := s.query(escrow.AuthorityQueryPath, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetRent returns the rent configuration of the chain.
func (s *SwapClient) GetRent(ctx context.Context) (*runtime.Rent, error) {
	var rent runtime.Rent
	if err := s.query(runtime.RentQueryPath, nil, &rent); err != nil {
		return nil, err
	}
	return &rent, nil
}

func (s *SwapClient) query(path string, data []byte, dest interface{}) error {
	res := s.client.Query(RequestQuery{Path: path, Data: data})
	if err := errors.ABCIError(res.Code, res.Log); err != nil {
		return err
	}
	if err := json.Unmarshal(res.Value, dest); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "cannot decode %s response: %s", path, err)
	}
	return nil
}

// commit signs the tx with all keys and waits for the block result. A tx
// that failed in the block is returned as an error.
func (s *SwapClient) commit(ctx context.Context, tx *app.Tx, keys ...*crypto.PrivateKey) (*CommitResult, error) {
	for _, k := range keys {
		if err := tx.Sign(k, s.chainID); err != nil {
			return nil, errors.Wrap(err, "sign")
		}
	}
	res, err := s.client.CommitTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	return res, res.Err
}
