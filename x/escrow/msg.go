package escrow

import (
	"encoding/binary"

	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/errors"
)

const (
	tagInit uint8 = iota
	tagExchange
	tagCancel
)

// InitMsg opens an escrow expecting Amount tokens in return.
type InitMsg struct {
	Amount uint64
}

// ExchangeMsg settles an escrow. Amount is the deposit balance the taker
// expects to receive.
type ExchangeMsg struct {
	Amount uint64
}

// CancelMsg returns the deposit to the initializer. A bump, when given, is
// verified against the derived custodial authority.
type CancelMsg struct {
	Bump    uint8
	HasBump bool
}

// Encode serializes the message as instruction data.
func (m InitMsg) Encode() []byte {
	return encodeAmount(tagInit, m.Amount)
}

// Encode serializes the message as instruction data.
func (m ExchangeMsg) Encode() []byte {
	return encodeAmount(tagExchange, m.Amount)
}

// Encode serializes the message as instruction data.
func (m CancelMsg) Encode() []byte {
	if m.HasBump {
		return []byte{tagCancel, m.Bump}
	}
	return []byte{tagCancel}
}

func encodeAmount(tag uint8, amount uint64) []byte {
	raw := make([]byte, 1+8)
	raw[0] = tag
	binary.LittleEndian.PutUint64(raw[1:], amount)
	return raw
}

// DecodeMsg parses instruction data into one of InitMsg, ExchangeMsg or
// CancelMsg. Bytes following the payload are ignored.
func DecodeMsg(data []byte) (interface{}, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInstruction, "empty escrow instruction")
	}
	switch tag, rest := data[0], data[1:]; tag {
	case tagInit:
		amount, err := decodeAmount(rest)
		if err != nil {
			return nil, err
		}
		return InitMsg{Amount: amount}, nil
	case tagExchange:
		amount, err := decodeAmount(rest)
		if err != nil {
			return nil, err
		}
		return ExchangeMsg{Amount: amount}, nil
	case tagCancel:
		if len(rest) == 0 {
			return CancelMsg{}, nil
		}
		return CancelMsg{Bump: rest[0], HasBump: true}, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInstruction, "unknown escrow tag %d", tag)
	}
}

func decodeAmount(raw []byte) (uint64, error) {
	if len(raw) < 8 {
		return 0, errors.Wrapf(errors.ErrInvalidInstruction, "amount needs 8 bytes, got %d", len(raw))
	}
	return binary.LittleEndian.Uint64(raw[:8]), nil
}

// InitInstruction opens an escrow for the deposit account, which must be
// controlled by the initializer.
func InitInstruction(initializer, deposit, receive, record, tokenProgram swapvault.Address, amount uint64) swapvault.Instruction {
	return swapvault.Instruction{
		Program: ProgramID,
		Accounts: []swapvault.AccountMeta{
			swapvault.Signer(initializer),
			swapvault.ReadOnly(deposit),
			swapvault.ReadOnly(receive),
			swapvault.ReadOnly(record),
			swapvault.ReadOnly(tokenProgram),
		},
		Data: InitMsg{Amount: amount}.Encode(),
	}
}

// ExchangeAccounts lists all accounts taking part in a settlement.
type ExchangeAccounts struct {
	Taker              swapvault.Address
	TakerPaying        swapvault.Address
	TakerReceive       swapvault.Address
	Deposit            swapvault.Address
	Initializer        swapvault.Address
	InitializerReceive swapvault.Address
	Record             swapvault.Address
	TokenProgram       swapvault.Address
	Authority          swapvault.Address
}

// ExchangeInstruction settles an escrow. Amount must be equal to the
// deposit balance.
func ExchangeInstruction(a ExchangeAccounts, amount uint64) swapvault.Instruction {
	return swapvault.Instruction{
		Program: ProgramID,
		Accounts: []swapvault.AccountMeta{
			swapvault.Signer(a.Taker),
			swapvault.ReadOnly(a.TakerPaying),
			swapvault.ReadOnly(a.TakerReceive),
			swapvault.ReadOnly(a.Deposit),
			swapvault.ReadOnly(a.Initializer),
			swapvault.ReadOnly(a.InitializerReceive),
			swapvault.ReadOnly(a.Record),
			swapvault.ReadOnly(a.TokenProgram),
			swapvault.ReadOnly(a.Authority),
		},
		Data: ExchangeMsg{Amount: amount}.Encode(),
	}
}

// CancelAccounts lists all accounts taking part in a cancellation.
type CancelAccounts struct {
	Initializer  swapvault.Address
	TokenProgram swapvault.Address
	Deposit      swapvault.Address
	ReceiveBack  swapvault.Address
	Record       swapvault.Address
	Authority    swapvault.Address
}

// CancelInstruction returns the deposit to the initializer.
func CancelInstruction(a CancelAccounts, msg CancelMsg) swapvault.Instruction {
	return swapvault.Instruction{
		Program: ProgramID,
		Accounts: []swapvault.AccountMeta{
			swapvault.Signer(a.Initializer),
			swapvault.ReadOnly(a.TokenProgram),
			swapvault.ReadOnly(a.Deposit),
			swapvault.ReadOnly(a.ReceiveBack),
			swapvault.ReadOnly(a.Record),
			swapvault.ReadOnly(a.Authority),
		},
		Data: msg.Encode(),
	}
}
