package escrow

import (
	"encoding/binary"

	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
)

// RecordSize is the size of the escrow record data.
const RecordSize = 1 + 3*swapvault.AddressLength + 8

// Escrow is the state of a single trade. The zero value is an uninitialized
// record.
type Escrow struct {
	Initialized    bool              `json:"initialized"`
	Initializer    swapvault.Address `json:"initializer"`
	Deposit        swapvault.Address `json:"deposit"`
	Receive        swapvault.Address `json:"receive"`
	ExpectedAmount uint64            `json:"expected_amount"`
}

// Validate checks that every address fits its slot. An uninitialized record
// may leave addresses empty.
func (e *Escrow) Validate() error {
	fields := []struct {
		name string
		addr swapvault.Address
	}{
		{"initializer", e.Initializer},
		{"deposit", e.Deposit},
		{"receive", e.Receive},
	}
	for _, f := range fields {
		if !e.Initialized && len(f.addr) == 0 {
			continue
		}
		if err := f.addr.Validate(); err != nil {
			return errors.Wrap(err, f.name)
		}
	}
	return nil
}

// Encode serializes the record into RecordSize bytes.
func (e *Escrow) Encode() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	raw := make([]byte, RecordSize)
	if e.Initialized {
		raw[0] = 1
	}
	copy(raw[1:33], e.Initializer)
	copy(raw[33:65], e.Deposit)
	copy(raw[65:97], e.Receive)
	binary.LittleEndian.PutUint64(raw[97:105], e.ExpectedAmount)
	return raw, nil
}

// DecodeEscrow parses record data. Only 0 and 1 are accepted as the
// initialized flag.
func DecodeEscrow(raw []byte) (*Escrow, error) {
	if len(raw) != RecordSize {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "want %d bytes, got %d", RecordSize, len(raw))
	}
	var e Escrow
	switch raw[0] {
	case 0:
	case 1:
		e.Initialized = true
	default:
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "initialized flag %d", raw[0])
	}
	e.Initializer = swapvault.Address(append([]byte{}, raw[1:33]...))
	e.Deposit = swapvault.Address(append([]byte{}, raw[33:65]...))
	e.Receive = swapvault.Address(append([]byte{}, raw[65:97]...))
	e.ExpectedAmount = binary.LittleEndian.Uint64(raw[97:105])
	return &e, nil
}
