package app

import (
	"reflect"

	"github.com/iov-one/swapvault"
)

// Decorators holds a chain of decorators, not yet resolved by a Handler
type Decorators struct {
	chain []swapvault.Decorator
}

/*
ChainDecorators takes a chain of decorators,
and upon adding a final Handler (the program router),
returns a Handler that will execute this whole stack.

  app.ChainDecorators(
    utils.NewLogging(),
    utils.NewRecovery(),
    utils.NewSavepoint().OnCheck().OnDeliver(),
    sigs.NewDecorator(),
  ).WithHandler(
    runtime.NewRouter(),
  )
*/
func ChainDecorators(chain ...swapvault.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain
func (d Decorators) Chain(chain ...swapvault.Decorator) Decorators {
	chain = cutoffNil(chain)
	next := make([]swapvault.Decorator, 0, len(d.chain)+len(chain))
	next = append(next, d.chain...)
	next = append(next, chain...)
	return Decorators{next}
}

// cutoffNil will in-place remove all nil values from given slice.
func cutoffNil(ds []swapvault.Decorator) []swapvault.Decorator {
	var cutoff int
	for i := 0; i < len(ds); i++ {
		ds[i-cutoff] = ds[i]
		if ds[i] == nil || (reflect.ValueOf(ds[i]).Kind() == reflect.Ptr && reflect.ValueOf(ds[i]).IsNil()) {
			cutoff++
		}
	}
	return ds[:len(ds)-cutoff]
}

// WithHandler resolves the stack and returns a concrete Handler
// that will pass through the chain of decorators before calling
// the final Handler.
func (d Decorators) WithHandler(h swapvault.Handler) swapvault.Handler {
	// the first decorator of the chain is executed first
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step captures one step executing a decorator around a
// specific Handler.
type step struct {
	d    swapvault.Decorator
	next swapvault.Handler
}

var _ swapvault.Handler = step{}

// Check passes the handler into the decorator, implements Handler
func (s step) Check(ctx swapvault.Context, store swapvault.KVStore, tx swapvault.Tx) (*swapvault.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

// Deliver passes the handler into the decorator, implements Handler
func (s step) Deliver(ctx swapvault.Context, store swapvault.KVStore, tx swapvault.Tx) (*swapvault.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
