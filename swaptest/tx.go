package swaptest

import "github.com/iov-one/swapvault"

// Tx represents a transaction carrying instructions.
type Tx struct {
	Instructions []swapvault.Instruction
}

var _ swapvault.Tx = (*Tx)(nil)

// GetInstructions returns all instructions.
func (tx *Tx) GetInstructions() []swapvault.Instruction {
	return tx.Instructions
}
