package app

import (
	"context"
	"testing"

	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
	"github.com/iov-one/swapvault/swaptest"
	"github.com/iov-one/swapvault/x/utils"
	"github.com/stretchr/testify/assert"
)

// countingDecorator counts each pass, once on the way in and once out.
type countingDecorator struct {
	count int
}

func (c *countingDecorator) Check(ctx swapvault.Context, db swapvault.KVStore, tx swapvault.Tx, next swapvault.Checker) (*swapvault.CheckResult, error) {
	c.count++
	res, err := next.Check(ctx, db, tx)
	c.count++
	return res, err
}

func (c *countingDecorator) Deliver(ctx swapvault.Context, db swapvault.KVStore, tx swapvault.Tx, next swapvault.Deliverer) (*swapvault.DeliverResult, error) {
	c.count++
	res, err := next.Deliver(ctx, db, tx)
	c.count++
	return res, err
}

// panicAtHeight panics when the block height reaches the limit.
type panicAtHeight int64

func (p panicAtHeight) Check(ctx swapvault.Context, db swapvault.KVStore, tx swapvault.Tx, next swapvault.Checker) (*swapvault.CheckResult, error) {
	if h, _ := swapvault.GetHeight(ctx); h >= int64(p) {
		panic("too high")
	}
	return next.Check(ctx, db, tx)
}

func (p panicAtHeight) Deliver(ctx swapvault.Context, db swapvault.KVStore, tx swapvault.Tx, next swapvault.Deliverer) (*swapvault.DeliverResult, error) {
	if h, _ := swapvault.GetHeight(ctx); h >= int64(p) {
		panic("too high")
	}
	return next.Deliver(ctx, db, tx)
}

func TestChain(t *testing.T) {
	c1 := &countingDecorator{}
	c2 := &countingDecorator{}
	c3 := &countingDecorator{}
	h := &swaptest.Handler{}

	stack := ChainDecorators(
		c1,
		utils.NewLogging(),
		utils.NewRecovery(),
		c2,
		panicAtHeight(6),
		c3,
	).WithHandler(h)

	bg := context.Background()

	_, err := stack.Check(bg, nil, nil)
	assert.NoError(t, err)
	ctx := swapvault.WithHeight(bg, 4)
	_, err = stack.Deliver(ctx, nil, nil)
	assert.NoError(t, err)

	assert.Equal(t, 4, c1.count)
	assert.Equal(t, 4, c2.count)
	assert.Equal(t, 4, c3.count)
	assert.Equal(t, 1, h.CheckCallCount())
	assert.Equal(t, 1, h.DeliverCallCount())

	ctx = swapvault.WithHeight(bg, 8)
	_, err = stack.Check(ctx, nil, nil)
	assert.True(t, errors.ErrPanic.Is(err))
	_, err = stack.Deliver(ctx, nil, nil)
	assert.True(t, errors.ErrPanic.Is(err))

	assert.Equal(t, 8, c1.count)
	// c2 is entered twice but never left
	assert.Equal(t, 6, c2.count)
	assert.Equal(t, 4, c3.count)
	assert.Equal(t, 1, h.DeliverCallCount())
}

func TestChainSkipsNil(t *testing.T) {
	var missing *countingDecorator
	c := &countingDecorator{}
	h := &swaptest.Handler{}

	stack := ChainDecorators(nil, c, missing).Chain(nil).WithHandler(h)
	_, err := stack.Deliver(context.Background(), nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 2, c.count)
	assert.Equal(t, 1, h.DeliverCallCount())
}
