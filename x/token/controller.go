package token

import (
	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
	"github.com/iov-one/swapvault/runtime"
)

// ProgramID owns all token accounts.
var ProgramID = swapvault.NewProgramID("token")

// Controller implements all token ledger operations. Programs calling it
// pass their execution context, so that both transaction signers and
// program derived addresses authorized with runtime.SignAs are honored.
type Controller struct {
	auth     swapvault.Authenticator
	accounts runtime.AccountBucket
	rent     runtime.RentSysvar
}

// NewController returns a controller using given authenticator.
func NewController(auth swapvault.Authenticator) Controller {
	return Controller{
		auth:     auth,
		accounts: runtime.NewAccountBucket(),
	}
}

// load returns an account owned by the token program together with its
// decoded token state.
func (c Controller) load(db swapvault.ReadOnlyKVStore, addr swapvault.Address) (*runtime.Account, *Account, error) {
	acc, err := c.accounts.GetOwned(db, addr, ProgramID)
	if err != nil {
		return nil, nil, err
	}
	tok, err := DecodeAccount(acc.Data)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "token account %s", addr)
	}
	return acc, tok, nil
}

// loadInitialized is load that rejects uninitialized accounts.
func (c Controller) loadInitialized(db swapvault.ReadOnlyKVStore, addr swapvault.Address) (*runtime.Account, *Account, error) {
	acc, tok, err := c.load(db, addr)
	if err != nil {
		return nil, nil, err
	}
	if !tok.Initialized {
		return nil, nil, errors.Wrapf(errors.ErrNotInitialized, "token account %s", addr)
	}
	return acc, tok, nil
}

func (c Controller) save(db swapvault.KVStore, addr swapvault.Address, acc *runtime.Account, tok *Account) error {
	if err := tok.Validate(); err != nil {
		return err
	}
	acc.Data = tok.Encode()
	return c.accounts.Save(db, addr, acc)
}

// authorize checks that authority controls the token account and that it
// authorized the call.
func (c Controller) authorize(ctx swapvault.Context, tok *Account, authority swapvault.Address) error {
	if !tok.Authority.Equals(authority) {
		return errors.Wrapf(ErrOwnerMismatch, "authority is %s", tok.Authority)
	}
	if !c.auth.HasAddress(ctx, authority) {
		return errors.Wrapf(errors.ErrMissingAuthorization, "authority %s", authority)
	}
	return nil
}

// Get returns the token state of an account.
func (c Controller) Get(db swapvault.ReadOnlyKVStore, account swapvault.Address) (*Account, error) {
	_, tok, err := c.loadInitialized(db, account)
	return tok, err
}

// Balance returns the amount of tokens held by the account.
func (c Controller) Balance(db swapvault.ReadOnlyKVStore, account swapvault.Address) (uint64, error) {
	_, tok, err := c.loadInitialized(db, account)
	if err != nil {
		return 0, err
	}
	return tok.Amount, nil
}

// InitAccount initializes an account created for the token program with
// AccountSize bytes of data. The account must be exempt from eviction.
func (c Controller) InitAccount(db swapvault.KVStore, account, mint, authority swapvault.Address) error {
	if err := mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := authority.Validate(); err != nil {
		return errors.Wrap(err, "authority")
	}
	acc, tok, err := c.load(db, account)
	if err != nil {
		return err
	}
	if tok.Initialized {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "token account %s", account)
	}
	exempt, err := c.rent.IsExempt(db, acc.Lamports, len(acc.Data))
	if err != nil {
		return err
	}
	if !exempt {
		return errors.Wrapf(errors.ErrNotExempt, "token account %s", account)
	}
	tok = &Account{
		Mint:        mint,
		Authority:   authority,
		Initialized: true,
	}
	return c.save(db, account, acc, tok)
}

// Transfer moves amount tokens from source to dest. Authority must control
// the source account.
func (c Controller) Transfer(ctx swapvault.Context, db swapvault.KVStore, source, dest, authority swapvault.Address, amount uint64) error {
	srcAcc, src, err := c.loadInitialized(db, source)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	dstAcc, dst, err := c.loadInitialized(db, dest)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !src.Mint.Equals(dst.Mint) {
		return errors.Wrapf(ErrMintMismatch, "%s != %s", src.Mint, dst.Mint)
	}
	if err := c.authorize(ctx, src, authority); err != nil {
		return err
	}
	if src.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientFunds, "have %d, need %d", src.Amount, amount)
	}
	if source.Equals(dest) {
		return nil
	}
	sum := dst.Amount + amount
	if sum < dst.Amount {
		return errors.Wrapf(errors.ErrAmountOverflow, "%d + %d", dst.Amount, amount)
	}
	src.Amount -= amount
	dst.Amount = sum
	if err := c.save(db, source, srcAcc, src); err != nil {
		return err
	}
	return c.save(db, dest, dstAcc, dst)
}

// SetOwner hands the control over the account from current to next.
func (c Controller) SetOwner(ctx swapvault.Context, db swapvault.KVStore, account, current, next swapvault.Address) error {
	if err := next.Validate(); err != nil {
		return errors.Wrap(err, "new authority")
	}
	acc, tok, err := c.loadInitialized(db, account)
	if err != nil {
		return err
	}
	if err := c.authorize(ctx, tok, current); err != nil {
		return err
	}
	tok.Authority = next
	return c.save(db, account, acc, tok)
}

// CloseAccount removes an empty token account and credits its storage
// allowance to refund.
func (c Controller) CloseAccount(ctx swapvault.Context, db swapvault.KVStore, account, refund, authority swapvault.Address) error {
	if account.Equals(refund) {
		return errors.Wrap(errors.ErrInvalidInput, "cannot refund closed account")
	}
	acc, tok, err := c.loadInitialized(db, account)
	if err != nil {
		return err
	}
	if err := c.authorize(ctx, tok, authority); err != nil {
		return err
	}
	if tok.Amount != 0 {
		return errors.Wrapf(ErrNonZeroBalance, "%d left", tok.Amount)
	}
	if err := runtime.Credit(db, c.accounts, refund, acc.Lamports); err != nil {
		return errors.Wrap(err, "refund")
	}
	return c.accounts.Delete(db, account)
}

// Mint adds new tokens to an initialized account.
func (c Controller) Mint(db swapvault.KVStore, account swapvault.Address, amount uint64) error {
	acc, tok, err := c.loadInitialized(db, account)
	if err != nil {
		return err
	}
	sum := tok.Amount + amount
	if sum < tok.Amount {
		return errors.Wrapf(errors.ErrAmountOverflow, "%d + %d", tok.Amount, amount)
	}
	tok.Amount = sum
	return c.save(db, account, acc, tok)
}

// CreateAccount stores a new token account with given allowance. It is
// used at genesis, when no system program funding is available.
func CreateAccount(db swapvault.KVStore, addr swapvault.Address, tok Account, lamports uint64) error {
	if err := tok.Validate(); err != nil {
		return err
	}
	bucket := runtime.NewAccountBucket()
	existing, err := bucket.Get(db, addr)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.Wrapf(errors.ErrDuplicate, "account %s", addr)
	}
	acc := &runtime.Account{
		Lamports: lamports,
		Owner:    ProgramID,
		Data:     tok.Encode(),
	}
	return bucket.Save(db, addr, acc)
}
