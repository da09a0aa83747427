package utils

import (
	"github.com/iov-one/swapvault"
)

// ProgramKey is used by ProgramTagger as the Key in the Tag it appends
const ProgramKey = "program"

// ProgramTagger adds a tag `program = <id>` for every instruction of a
// successfully delivered transaction, so clients have a standard way to
// search and subscribe to transactions touching a program.
type ProgramTagger struct{}

var _ swapvault.Decorator = ProgramTagger{}

// NewProgramTagger creates a ProgramTagger decorator
func NewProgramTagger() ProgramTagger {
	return ProgramTagger{}
}

// Check just passes the request along
func (ProgramTagger) Check(ctx swapvault.Context, db swapvault.KVStore, tx swapvault.Tx, next swapvault.Checker) (*swapvault.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends a tag on the result if there is a success.
func (ProgramTagger) Deliver(ctx swapvault.Context, db swapvault.KVStore, tx swapvault.Tx, next swapvault.Deliverer) (*swapvault.DeliverResult, error) {
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, ins := range tx.GetInstructions() {
		id := ins.Program.String()
		if seen[id] {
			continue
		}
		seen[id] = true
		res.Tags = append(res.Tags, swapvault.Tag(ProgramKey, id))
	}
	return res, nil
}
