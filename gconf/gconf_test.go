package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
	"github.com/iov-one/swapvault/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConf struct {
	Limit uint64
	Name  string
}

func (c *testConf) Validate() error {
	if c.Limit == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "limit required")
	}
	return nil
}

func TestSaveLoad(t *testing.T) {
	cases := map[string]struct {
		conf        *testConf
		wantSaveErr *errors.Error
	}{
		"valid": {
			conf: &testConf{Limit: 7, Name: "x"},
		},
		"invalid configuration cannot be saved": {
			conf:        &testConf{Name: "x"},
			wantSaveErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if err := Save(db, "test", tc.conf); !tc.wantSaveErr.Is(err) {
				t.Fatalf("unexpected save error: %+v", err)
			}
			if tc.wantSaveErr != nil {
				return
			}
			var got testConf
			require.NoError(t, Load(db, "test", &got))
			assert.Equal(t, *tc.conf, got)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	var got testConf
	err := Load(store.MemStore(), "nothing", &got)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestInitConfig(t *testing.T) {
	opts := swapvault.Options{
		"conf": json.RawMessage(`{"test": {"Limit": 3, "Name": "genesis"}}`),
	}
	db := store.MemStore()
	require.NoError(t, InitConfig(db, opts, "test", &testConf{}))

	var got testConf
	require.NoError(t, Load(db, "test", &got))
	assert.Equal(t, testConf{Limit: 3, Name: "genesis"}, got)

	err := InitConfig(db, opts, "other", &testConf{})
	assert.True(t, errors.ErrNotFound.Is(err))
}
