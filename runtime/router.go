package runtime

import (
	"fmt"

	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
)

// Router dispatches every instruction of a transaction to the program it is
// addressed to. Instructions are executed in order and the first failure
// aborts the transaction.
type Router struct {
	programs map[string]swapvault.Program
}

var _ swapvault.Handler = (*Router)(nil)
var _ swapvault.Registry = (*Router)(nil)

// NewRouter returns a router with no programs.
func NewRouter() *Router {
	return &Router{programs: make(map[string]swapvault.Program)}
}

// Register adds a program. Panics if a program with the same ID exists.
func (r *Router) Register(p swapvault.Program) {
	id := string(p.ID())
	if _, ok := r.programs[id]; ok {
		panic(fmt.Sprintf("re-registering program: %s", p.ID()))
	}
	r.programs[id] = p
}

// Program returns the program registered for given ID.
func (r *Router) Program(id swapvault.Address) (swapvault.Program, error) {
	p, ok := r.programs[string(id)]
	if !ok {
		return nil, errors.Wrapf(errors.ErrIncorrectProgram, "no program %s", id)
	}
	return p, nil
}

// Check executes all instructions against the check state.
func (r *Router) Check(ctx swapvault.Context, db swapvault.KVStore, tx swapvault.Tx) (*swapvault.CheckResult, error) {
	res, err := r.execute(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return &swapvault.CheckResult{Data: res.Data, Log: res.Log, Tags: res.Tags}, nil
}

// Deliver executes all instructions.
func (r *Router) Deliver(ctx swapvault.Context, db swapvault.KVStore, tx swapvault.Tx) (*swapvault.DeliverResult, error) {
	return r.execute(ctx, db, tx)
}

func (r *Router) execute(ctx swapvault.Context, db swapvault.KVStore, tx swapvault.Tx) (*swapvault.DeliverResult, error) {
	instructions := tx.GetInstructions()
	if len(instructions) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "no instructions")
	}
	var result swapvault.DeliverResult
	for i, ins := range instructions {
		p, err := r.Program(ins.Program)
		if err != nil {
			return nil, errors.Wrapf(err, "instruction %d", i)
		}
		pctx := WithProgram(ctx, ins.Program)
		res, err := p.Process(pctx, db, ins)
		if err != nil {
			return nil, errors.Wrapf(err, "instruction %d", i)
		}
		result.Merge(res)
	}
	return &result, nil
}
