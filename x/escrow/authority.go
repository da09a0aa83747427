package escrow

import (
	"github.com/iov-one/swapvault"
)

// ProgramID identifies the escrow program.
var ProgramID = swapvault.NewProgramID("escrow")

// authoritySeed is shared by all escrows, so a single custodial authority
// controls every open deposit.
var authoritySeed = []byte("escrow")

// Authority returns the custodial authority of the given escrow program and
// the bump seed that moves it off the curve.
func Authority(program swapvault.Address) (swapvault.Address, uint8, error) {
	return swapvault.FindProgramAddress([][]byte{authoritySeed}, program)
}

// authoritySeeds returns the full seeds used to sign as the authority.
func authoritySeeds(bump uint8) [][]byte {
	return [][]byte{authoritySeed, {bump}}
}
