package runtime

import (
	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
	"github.com/iov-one/swapvault/gconf"
)

// AccountStorageOverhead is the number of bytes accounted for every account
// on top of its data.
const AccountStorageOverhead = 128

// RentConfName is the configuration singleton name in the database.
const RentConfName = "rent"

// Rent declares how much allowance an account must hold to be exempt from
// eviction.
type Rent struct {
	LamportsPerByteYear uint64 `json:"lamports_per_byte_year"`
	ExemptionYears      uint64 `json:"exemption_years"`
}

// DefaultRent is used when no configuration was provided in genesis.
func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: 3480,
		ExemptionYears:      2,
	}
}

// Validate returns an error if the configuration makes no sense.
func (r Rent) Validate() error {
	if r.ExemptionYears == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "exemption years must be positive")
	}
	return nil
}

// MinimumBalance returns the allowance required for an account holding size
// bytes of data.
func (r Rent) MinimumBalance(size int) (uint64, error) {
	if size < 0 {
		return 0, errors.Wrap(errors.ErrInvalidInput, "negative size")
	}
	bytes := uint64(AccountStorageOverhead + size)
	perYear := bytes * r.LamportsPerByteYear
	if r.LamportsPerByteYear != 0 && perYear/r.LamportsPerByteYear != bytes {
		return 0, errors.Wrap(errors.ErrAmountOverflow, "minimum balance")
	}
	total := perYear * r.ExemptionYears
	if r.ExemptionYears != 0 && total/r.ExemptionYears != perYear {
		return 0, errors.Wrap(errors.ErrAmountOverflow, "minimum balance")
	}
	return total, nil
}

// IsExempt returns true if the balance covers the exemption for size bytes.
func (r Rent) IsExempt(lamports uint64, size int) bool {
	min, err := r.MinimumBalance(size)
	if err != nil {
		return false
	}
	return lamports >= min
}

// RentSysvar answers exemption queries using the configuration stored in the
// database.
type RentSysvar struct{}

// Load returns the stored rent configuration or DefaultRent.
func (RentSysvar) Load(db swapvault.ReadOnlyKVStore) (Rent, error) {
	var r Rent
	switch err := gconf.Load(db, RentConfName, &r); {
	case err == nil:
		return r, nil
	case errors.ErrNotFound.Is(err):
		return DefaultRent(), nil
	default:
		return Rent{}, err
	}
}

// IsExempt returns true if the balance covers the exemption for size bytes.
func (s RentSysvar) IsExempt(db swapvault.ReadOnlyKVStore, lamports uint64, size int) (bool, error) {
	r, err := s.Load(db)
	if err != nil {
		return false, err
	}
	return r.IsExempt(lamports, size), nil
}

// MinimumBalance returns the exemption threshold for size bytes.
func (s RentSysvar) MinimumBalance(db swapvault.ReadOnlyKVStore, size int) (uint64, error) {
	r, err := s.Load(db)
	if err != nil {
		return 0, err
	}
	return r.MinimumBalance(size)
}
