package escrow_test

import (
	"math"
	"testing"

	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
	"github.com/iov-one/swapvault/runtime"
	"github.com/iov-one/swapvault/swaptest"
	"github.com/iov-one/swapvault/x/escrow"
	"github.com/iov-one/swapvault/x/token"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLifecycle(t *testing.T) {
	Convey("Given an initializer offering 1000 tokens for 500", t, func() {
		f := newFixture(t)
		router := f.defaultRouter()
		So(f.ledger.Mint(f.db, f.initializerToken, offered), ShouldBeNil)

		// Replace the prepared accounts with ones created by the
		// transaction itself.
		f.deposit = swaptest.NewAddress()
		f.record = swaptest.NewAddress()

		_, err := f.deliver(router, []swapvault.Address{f.initializer, f.deposit, f.record},
			runtime.CreateAccountInstruction(f.initializer, f.deposit, f.tokenLamports, token.AccountSize, token.ProgramID),
			token.InitializeAccountInstruction(f.deposit, f.mintOffered, f.initializer),
			token.TransferInstruction(f.initializerToken, f.deposit, f.initializer, offered),
			runtime.CreateAccountInstruction(f.initializer, f.record, f.recordLamports, escrow.RecordSize, escrow.ProgramID),
			escrow.InitInstruction(f.initializer, f.deposit, f.initializerReceive, f.record, token.ProgramID, expected),
		)
		So(err, ShouldBeNil)

		Convey("The deposit is held by the custodial authority", func() {
			dep, err := f.ledger.Get(f.db, f.deposit)
			So(err, ShouldBeNil)
			So(dep.Authority, ShouldResemble, f.authority)
			So(dep.Amount, ShouldEqual, offered)
			So(f.balance(t, f.initializerToken), ShouldEqual, 0)
			So(f.lamports(t, f.initializer), ShouldEqual, funds-f.tokenLamports-f.recordLamports)

			Convey("and the initializer cannot move it anymore", func() {
				_, err := f.deliver(router, []swapvault.Address{f.initializer},
					token.TransferInstruction(f.deposit, f.initializerToken, f.initializer, offered))
				So(token.ErrOwnerMismatch.Is(err), ShouldBeTrue)
			})
		})

		Convey("When the taker settles with the live deposit balance", func() {
			_, err := f.deliver(router, []swapvault.Address{f.taker},
				escrow.ExchangeInstruction(f.exchangeAccounts(), offered))
			So(err, ShouldBeNil)

			Convey("both sides receive their tokens", func() {
				So(f.balance(t, f.initializerReceive), ShouldEqual, expected)
				So(f.balance(t, f.takerReceive), ShouldEqual, offered)
				So(f.balance(t, f.takerPaying), ShouldEqual, 0)
			})

			Convey("deposit and record storage are reclaimed", func() {
				So(f.lamports(t, f.deposit), ShouldEqual, 0)
				So(f.escrow(t), ShouldBeNil)
				So(f.lamports(t, f.initializer), ShouldEqual, funds)
			})

			Convey("the escrow cannot be settled again", func() {
				_, err := f.deliver(router, []swapvault.Address{f.taker},
					escrow.ExchangeInstruction(f.exchangeAccounts(), offered))
				So(errors.ErrNotInitialized.Is(err), ShouldBeTrue)
			})
		})

		Convey("When the initializer cancels before any taker", func() {
			_, err := f.deliver(router, []swapvault.Address{f.initializer},
				escrow.CancelInstruction(f.cancelAccounts(), escrow.CancelMsg{}))
			So(err, ShouldBeNil)

			Convey("the full deposit is back", func() {
				So(f.balance(t, f.initializerToken), ShouldEqual, offered)
			})

			Convey("no counter asset moved", func() {
				So(f.balance(t, f.initializerReceive), ShouldEqual, 0)
				So(f.balance(t, f.takerPaying), ShouldEqual, expected)
				So(f.balance(t, f.takerReceive), ShouldEqual, 0)
			})

			Convey("deposit and record storage are reclaimed", func() {
				So(f.lamports(t, f.deposit), ShouldEqual, 0)
				So(f.escrow(t), ShouldBeNil)
				So(f.lamports(t, f.initializer), ShouldEqual, funds)
			})

			Convey("a taker cannot settle anymore", func() {
				_, err := f.deliver(router, []swapvault.Address{f.taker},
					escrow.ExchangeInstruction(f.exchangeAccounts(), offered))
				So(errors.ErrNotInitialized.Is(err), ShouldBeTrue)
			})
		})

		Convey("When the record refund overflows the initializer allowance", func() {
			allowance := uint64(math.MaxUint64) - f.tokenLamports
			acc := &runtime.Account{Lamports: allowance, Owner: runtime.SystemProgramID}
			So(f.accounts.Save(f.db, f.initializer, acc), ShouldBeNil)

			_, err := f.deliver(router, []swapvault.Address{f.taker},
				escrow.ExchangeInstruction(f.exchangeAccounts(), offered))
			So(errors.ErrAmountOverflow.Is(err), ShouldBeTrue)

			Convey("nothing changed", func() {
				So(f.lamports(t, f.initializer), ShouldEqual, allowance)
				So(f.balance(t, f.deposit), ShouldEqual, offered)
				So(f.balance(t, f.takerPaying), ShouldEqual, expected)
				So(f.escrow(t).Initialized, ShouldBeTrue)
			})
		})
	})
}
