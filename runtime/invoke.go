package runtime

import (
	"context"

	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
)

type contextKey int // local to the runtime module

const (
	contextKeyProgram contextKey = iota
	contextKeyProgramSigners
)

// WithProgram sets the program currently executing an instruction. Any
// address authorized with SignAs by a previous program is dropped.
func WithProgram(ctx swapvault.Context, program swapvault.Address) swapvault.Context {
	ctx = context.WithValue(ctx, contextKeyProgramSigners, []swapvault.Address(nil))
	return context.WithValue(ctx, contextKeyProgram, program)
}

// GetProgram returns the program currently executing, or nil.
func GetProgram(ctx swapvault.Context) swapvault.Address {
	val, _ := ctx.Value(contextKeyProgram).(swapvault.Address)
	return val
}

// SignAs returns a context in which the address derived from the seeds and
// the current program is authorized. Only the program owning the derived
// address can produce it, so no other program or user can act as it.
func SignAs(ctx swapvault.Context, seeds ...[]byte) (swapvault.Context, swapvault.Address, error) {
	program := GetProgram(ctx)
	if program == nil {
		return nil, nil, errors.Wrap(errors.ErrHuman, "no program executing")
	}
	addr, err := swapvault.CreateProgramAddress(seeds, program)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot derive program address")
	}
	signers := programSigners(ctx)
	next := make([]swapvault.Address, len(signers), len(signers)+1)
	copy(next, signers)
	next = append(next, addr)
	return context.WithValue(ctx, contextKeyProgramSigners, next), addr, nil
}

func programSigners(ctx swapvault.Context) []swapvault.Address {
	val, _ := ctx.Value(contextKeyProgramSigners).([]swapvault.Address)
	return val
}

// Authenticate reports addresses authorized by the executing program with
// SignAs.
type Authenticate struct{}

var _ swapvault.Authenticator = Authenticate{}

// GetAddresses returns the program signed addresses. May be empty.
func (Authenticate) GetAddresses(ctx swapvault.Context) []swapvault.Address {
	return programSigners(ctx)
}

// HasAddress returns true if the address was authorized with SignAs.
func (a Authenticate) HasAddress(ctx swapvault.Context, addr swapvault.Address) bool {
	for _, s := range programSigners(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}
