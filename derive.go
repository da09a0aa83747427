package swapvault

import (
	"crypto/sha256"

	"github.com/agl/ed25519/edwards25519"
	"github.com/iov-one/swapvault/errors"
)

const (
	// MaxSeeds is the maximum number of seeds accepted by the program
	// address derivation.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32
)

var programAddressMarker = []byte("ProgramDerivedAddress")

// CreateProgramAddress computes the address derived from the given seeds and
// the program ID. Derived addresses must not lie on the ed25519 curve, so
// that no private key for them can exist. ErrInvalidInput is returned when
// the candidate is a valid curve point.
func CreateProgramAddress(seeds [][]byte, program Address) (Address, error) {
	if len(seeds) > MaxSeeds {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "too many seeds: %d", len(seeds))
	}
	h := sha256.New()
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "seed %d too long", i)
		}
		_, _ = h.Write(s)
	}
	_, _ = h.Write(program)
	_, _ = h.Write(programAddressMarker)
	candidate := h.Sum(nil)
	if isOnCurve(candidate) {
		return nil, errors.Wrap(errors.ErrInvalidInput, "derived address is on curve")
	}
	return Address(candidate), nil
}

// FindProgramAddress searches for the first bump seed, starting at 255 and
// counting down, for which the seeds extended with the bump produce an
// address off the curve. The same inputs always return the same address and
// bump.
func FindProgramAddress(seeds [][]byte, program Address) (Address, uint8, error) {
	full := make([][]byte, len(seeds)+1)
	copy(full, seeds)
	for bump := 255; bump >= 0; bump-- {
		full[len(seeds)] = []byte{uint8(bump)}
		addr, err := CreateProgramAddress(full, program)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if !errors.ErrInvalidInput.Is(err) {
			return nil, 0, err
		}
	}
	return nil, 0, errors.Wrap(errors.ErrHuman, "no viable bump seed")
}

// NewProgramID returns a deterministic program identifier for the given
// name. Program IDs are not key holders, but nothing prevents them from being
// curve points.
func NewProgramID(name string) Address {
	h := sha256.Sum256([]byte("program:" + name))
	return Address(h[:])
}

func isOnCurve(b []byte) bool {
	if len(b) != 32 {
		return false
	}
	var (
		point edwards25519.ExtendedGroupElement
		raw   [32]byte
	)
	copy(raw[:], b)
	return point.FromBytes(&raw)
}
