package swapvault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryRouter(t *testing.T) {
	qr := NewQueryRouter()
	echo := QueryHandlerFunc(func(db ReadOnlyKVStore, data []byte) ([]byte, error) {
		return data, nil
	})
	qr.RegisterAll(func(r QueryRouter) { r.Register("/echo", echo) })

	h := qr.Handler("/echo")
	require.NotNil(t, h)
	res, err := h.Query(nil, []byte("ping"))
	require.NoError(t, err)
	assert.Equal(t, []byte("ping"), res)

	assert.Nil(t, qr.Handler("/missing"))
	assert.Panics(t, func() { qr.Register("/echo", echo) })
}
