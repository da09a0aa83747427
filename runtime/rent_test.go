package runtime_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
	"github.com/iov-one/swapvault/gconf"
	"github.com/iov-one/swapvault/runtime"
	"github.com/iov-one/swapvault/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRentMinimumBalance(t *testing.T) {
	cases := map[string]struct {
		rent    runtime.Rent
		size    int
		want    uint64
		wantErr *errors.Error
	}{
		"escrow record": {
			rent: runtime.DefaultRent(),
			size: 105,
			want: (128 + 105) * 3480 * 2,
		},
		"empty account": {
			rent: runtime.DefaultRent(),
			size: 0,
			want: 128 * 3480 * 2,
		},
		"free storage": {
			rent: runtime.Rent{ExemptionYears: 2},
			size: 1000,
			want: 0,
		},
		"overflow": {
			rent:    runtime.Rent{LamportsPerByteYear: math.MaxUint64, ExemptionYears: 1},
			size:    10,
			wantErr: errors.ErrAmountOverflow,
		},
		"negative size": {
			rent:    runtime.DefaultRent(),
			size:    -1,
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := tc.rent.MinimumBalance(tc.size)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRentIsExempt(t *testing.T) {
	r := runtime.DefaultRent()
	min, err := r.MinimumBalance(105)
	require.NoError(t, err)
	assert.True(t, r.IsExempt(min, 105))
	assert.False(t, r.IsExempt(min-1, 105))
}

func TestRentSysvar(t *testing.T) {
	db := store.MemStore()
	var sysvar runtime.RentSysvar

	got, err := sysvar.Load(db)
	require.NoError(t, err)
	assert.Equal(t, runtime.DefaultRent(), got)

	opts := swapvault.Options{
		"conf": json.RawMessage(`{"rent": {"lamports_per_byte_year": 1, "exemption_years": 1}}`),
	}
	require.NoError(t, gconf.InitConfig(db, opts, runtime.RentConfName, &runtime.Rent{}))

	ok, err := sysvar.IsExempt(db, 128+10, 10)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = sysvar.IsExempt(db, 128+9, 10)
	require.NoError(t, err)
	assert.False(t, ok)

	min, err := sysvar.MinimumBalance(db, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(128), min)
}
