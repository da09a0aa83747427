package escrow_test

import (
	"fmt"
	"testing"

	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
	"github.com/iov-one/swapvault/swaptest"
	"github.com/iov-one/swapvault/x/escrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// faultCase fails the n-th ledger or account store call of an operation.
type faultCase struct {
	ledgerCall  int
	accountCall int
}

func (fc faultCase) String() string {
	if fc.ledgerCall > 0 {
		return fmt.Sprintf("ledger call %d", fc.ledgerCall)
	}
	return fmt.Sprintf("account write %d", fc.accountCall)
}

func runFaults(t *testing.T, cases []faultCase, open bool, signer func(*fixture) swapvault.Address, build func(*fixture) swapvault.Instruction) {
	for _, fc := range cases {
		for _, after := range []bool{false, true} {
			name := fmt.Sprintf("%s before effect", fc)
			if after {
				name = fmt.Sprintf("%s after effect", fc)
			}
			t.Run(name, func(t *testing.T) {
				f := newFixture(t)
				if open {
					f.open(t)
				}
				ledger := &swaptest.FaultyLedger{
					Ledger: f.ledger,
					Fault:  swaptest.Fault{FailAt: fc.ledgerCall, After: after, Err: errors.ErrDatabase},
				}
				accounts := &swaptest.FaultyAccounts{
					AccountStore: f.accounts,
					Fault:        swaptest.Fault{FailAt: fc.accountCall, After: after, Err: errors.ErrDatabase},
				}
				before := f.state(t)

				_, err := f.deliver(f.router(ledger, accounts), []swapvault.Address{signer(f)}, build(f))
				require.True(t, errors.ErrDatabase.Is(err), "unexpected error: %+v", err)
				if fc.ledgerCall > 0 {
					assert.Equal(t, fc.ledgerCall, ledger.Calls())
				} else {
					assert.Equal(t, fc.accountCall, accounts.Calls())
				}
				assert.Equal(t, before, f.state(t))
			})
		}
	}
}

func TestInitEscrowAtomicity(t *testing.T) {
	cases := []faultCase{
		{accountCall: 1}, // store record
		{ledgerCall: 1},  // hand over deposit
	}
	runFaults(t, cases, false,
		func(f *fixture) swapvault.Address { return f.initializer },
		func(f *fixture) swapvault.Instruction { return f.initInstruction() })
}

func TestExchangeAtomicity(t *testing.T) {
	cases := []faultCase{
		{ledgerCall: 1},  // pay initializer
		{ledgerCall: 2},  // release deposit
		{ledgerCall: 3},  // close deposit
		{accountCall: 1}, // refund record allowance
		{accountCall: 2}, // delete record
	}
	runFaults(t, cases, true,
		func(f *fixture) swapvault.Address { return f.taker },
		func(f *fixture) swapvault.Instruction {
			return escrow.ExchangeInstruction(f.exchangeAccounts(), offered)
		})
}

func TestCancelAtomicity(t *testing.T) {
	cases := []faultCase{
		{ledgerCall: 1},  // return deposit
		{ledgerCall: 2},  // close deposit
		{accountCall: 1}, // refund record allowance
		{accountCall: 2}, // delete record
	}
	runFaults(t, cases, true,
		func(f *fixture) swapvault.Address { return f.initializer },
		func(f *fixture) swapvault.Instruction {
			return escrow.CancelInstruction(f.cancelAccounts(), escrow.CancelMsg{})
		})
}
