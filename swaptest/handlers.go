package swaptest

import "github.com/iov-one/swapvault"

// Handler is a mock counting calls and returning configured results.
type Handler struct {
	checkCall   int
	CheckResult swapvault.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult swapvault.DeliverResult
	DeliverErr    error
}

var _ swapvault.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx swapvault.Context, db swapvault.KVStore, tx swapvault.Tx) (*swapvault.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx swapvault.Context, db swapvault.KVStore, tx swapvault.Tx) (*swapvault.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

// WriteHandler writes a key and then returns configured error, if any.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ swapvault.Handler = WriteHandler{}

func (h WriteHandler) Check(ctx swapvault.Context, db swapvault.KVStore, tx swapvault.Tx) (*swapvault.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &swapvault.CheckResult{}, nil
}

func (h WriteHandler) Deliver(ctx swapvault.Context, db swapvault.KVStore, tx swapvault.Tx) (*swapvault.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &swapvault.DeliverResult{}, nil
}

// PanicHandler always panics.
type PanicHandler struct {
	Msg string
}

var _ swapvault.Handler = PanicHandler{}

func (h PanicHandler) Check(swapvault.Context, swapvault.KVStore, swapvault.Tx) (*swapvault.CheckResult, error) {
	panic(h.Msg)
}

func (h PanicHandler) Deliver(swapvault.Context, swapvault.KVStore, swapvault.Tx) (*swapvault.DeliverResult, error) {
	panic(h.Msg)
}
