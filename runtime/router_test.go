package runtime_test

import (
	"context"
	"testing"

	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
	"github.com/iov-one/swapvault/runtime"
	"github.com/iov-one/swapvault/store"
	"github.com/iov-one/swapvault/swaptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
)

// echoProgram records the program seen in the context and writes the
// instruction data under its own ID.
type echoProgram struct {
	id   swapvault.Address
	err  error
	seen []swapvault.Address
}

func (p *echoProgram) ID() swapvault.Address { return p.id }

func (p *echoProgram) Process(ctx swapvault.Context, db swapvault.KVStore, ins swapvault.Instruction) (*swapvault.DeliverResult, error) {
	p.seen = append(p.seen, runtime.GetProgram(ctx))
	if p.err != nil {
		return nil, p.err
	}
	if err := db.Set(p.id, ins.Data); err != nil {
		return nil, err
	}
	return &swapvault.DeliverResult{
		Log:  string(ins.Data),
		Tags: []common.KVPair{swapvault.Tag("program", p.id.String())},
	}, nil
}

func TestRouter(t *testing.T) {
	a := &echoProgram{id: swapvault.NewProgramID("a")}
	b := &echoProgram{id: swapvault.NewProgramID("b")}
	failing := &echoProgram{id: swapvault.NewProgramID("c"), err: errors.ErrNotExempt}

	r := runtime.NewRouter()
	r.Register(a)
	r.Register(b)
	r.Register(failing)
	assert.Panics(t, func() { r.Register(a) })

	cases := map[string]struct {
		tx      *swaptest.Tx
		wantErr *errors.Error
		wantLog string
	}{
		"two instructions": {
			tx: &swaptest.Tx{Instructions: []swapvault.Instruction{
				{Program: a.id, Data: []byte("one")},
				{Program: b.id, Data: []byte("two")},
			}},
			wantLog: "one\ntwo",
		},
		"no instructions": {
			tx:      &swaptest.Tx{},
			wantErr: errors.ErrInvalidInput,
		},
		"unknown program": {
			tx: &swaptest.Tx{Instructions: []swapvault.Instruction{
				{Program: swapvault.NewProgramID("unknown")},
			}},
			wantErr: errors.ErrIncorrectProgram,
		},
		"program error is returned": {
			tx: &swaptest.Tx{Instructions: []swapvault.Instruction{
				{Program: a.id, Data: []byte("one")},
				{Program: failing.id},
			}},
			wantErr: errors.ErrNotExempt,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			res, err := r.Deliver(context.Background(), db, tc.tx)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			assert.Equal(t, tc.wantLog, res.Log)
			assert.Len(t, res.Tags, len(tc.tx.Instructions))

			cres, err := r.Check(context.Background(), db, tc.tx)
			require.NoError(t, err)
			assert.Equal(t, tc.wantLog, cres.Log)
		})
	}

	for _, seen := range a.seen {
		assert.Equal(t, a.id, seen)
	}
}
