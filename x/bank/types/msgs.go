package types

import (
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/gears-network/gears/types"
	sdkerrors "github.com/gears-network/gears/types/errors"
	"github.com/gears-network/gears/types/tx"
)

// Message type URLs.
const (
	MsgSendURL      = "/cosmos.bank.v1beta1.MsgSend"
	MsgMultiSendURL = "/cosmos.bank.v1beta1.MsgMultiSend"
)

// MsgSend moves coins from one account to another.
type MsgSend struct {
	FromAddress sdk.AccAddress
	ToAddress   sdk.AccAddress
	Amount      sdk.Coins
}

var _ tx.Msg = MsgSend{}

func (m MsgSend) TypeURL() string { return MsgSendURL }

func (m MsgSend) ValidateBasic() error {
	if m.FromAddress.Empty() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidAddress, "missing sender address")
	}
	if m.ToAddress.Empty() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidAddress, "missing recipient address")
	}
	if err := m.Amount.Validate(); err != nil {
		return err
	}
	if m.Amount.IsZero() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidCoins, "empty send amount")
	}
	return nil
}

func (m MsgSend) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{m.FromAddress}
}

func (m MsgSend) Marshal() ([]byte, error) {
	var buf []byte
	buf = tx.AppendTagString(buf, 1, m.FromAddress.String())
	buf = tx.AppendTagString(buf, 2, m.ToAddress.String())
	for _, coin := range m.Amount {
		buf = tx.AppendCoin(buf, 3, coin)
	}
	return buf, nil
}

// UnmarshalMsgSend is the registered decoder for MsgSend.
func UnmarshalMsgSend(value []byte) (tx.Msg, error) {
	var m MsgSend

	err := tx.WalkFields(value, func(num int32, bytes []byte, _ uint64) error {
		switch num {
		case 1:
			addr, err := sdk.AccAddressFromBech32(string(bytes))
			if err != nil {
				return err
			}
			m.FromAddress = addr
		case 2:
			addr, err := sdk.AccAddressFromBech32(string(bytes))
			if err != nil {
				return err
			}
			m.ToAddress = addr
		case 3:
			coin, err := tx.DecodeCoin(bytes)
			if err != nil {
				return err
			}
			m.Amount = m.Amount.Add(coin)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// Input is one debit of a multi-send.
type Input struct {
	Address sdk.AccAddress
	Coins   sdk.Coins
}

// Output is one credit of a multi-send.
type Output struct {
	Address sdk.AccAddress
	Coins   sdk.Coins
}

// MsgMultiSend atomically applies a set of debits and credits. The sums must
// match.
type MsgMultiSend struct {
	Inputs  []Input
	Outputs []Output
}

var _ tx.Msg = MsgMultiSend{}

func (m MsgMultiSend) TypeURL() string { return MsgMultiSendURL }

func (m MsgMultiSend) ValidateBasic() error {
	if len(m.Inputs) == 0 {
		return errorsmod.Wrap(sdkerrors.ErrTxValidation, "no inputs")
	}
	if len(m.Outputs) == 0 {
		return errorsmod.Wrap(sdkerrors.ErrTxValidation, "no outputs")
	}

	var totalIn, totalOut sdk.Coins
	for _, in := range m.Inputs {
		if in.Address.Empty() {
			return errorsmod.Wrap(sdkerrors.ErrInvalidAddress, "missing input address")
		}
		if err := in.Coins.Validate(); err != nil {
			return err
		}
		totalIn = totalIn.Add(in.Coins...)
	}
	for _, out := range m.Outputs {
		if out.Address.Empty() {
			return errorsmod.Wrap(sdkerrors.ErrInvalidAddress, "missing output address")
		}
		if err := out.Coins.Validate(); err != nil {
			return err
		}
		totalOut = totalOut.Add(out.Coins...)
	}

	if !totalIn.IsAllGTE(totalOut) || !totalOut.IsAllGTE(totalIn) {
		return ErrInputOutputMismatch
	}

	return nil
}

func (m MsgMultiSend) GetSigners() []sdk.AccAddress {
	signers := make([]sdk.AccAddress, 0, len(m.Inputs))
	for _, in := range m.Inputs {
		signers = append(signers, in.Address)
	}
	return signers
}

func (m MsgMultiSend) Marshal() ([]byte, error) {
	var buf []byte
	for _, in := range m.Inputs {
		buf = tx.AppendTagBytes(buf, 1, marshalInputOutput(in.Address, in.Coins))
	}
	for _, out := range m.Outputs {
		buf = tx.AppendTagBytes(buf, 2, marshalInputOutput(out.Address, out.Coins))
	}
	return buf, nil
}

func marshalInputOutput(addr sdk.AccAddress, coins sdk.Coins) []byte {
	var buf []byte
	buf = tx.AppendTagString(buf, 1, addr.String())
	for _, coin := range coins {
		buf = tx.AppendCoin(buf, 2, coin)
	}
	return buf
}

func unmarshalInputOutput(bz []byte) (sdk.AccAddress, sdk.Coins, error) {
	var (
		addr  sdk.AccAddress
		coins sdk.Coins
	)

	err := tx.WalkFields(bz, func(num int32, bytes []byte, _ uint64) error {
		switch num {
		case 1:
			a, err := sdk.AccAddressFromBech32(string(bytes))
			if err != nil {
				return err
			}
			addr = a
		case 2:
			coin, err := tx.DecodeCoin(bytes)
			if err != nil {
				return err
			}
			coins = coins.Add(coin)
		}
		return nil
	})

	return addr, coins, err
}

// UnmarshalMsgMultiSend is the registered decoder for MsgMultiSend.
func UnmarshalMsgMultiSend(value []byte) (tx.Msg, error) {
	var m MsgMultiSend

	err := tx.WalkFields(value, func(num int32, bytes []byte, _ uint64) error {
		switch num {
		case 1:
			addr, coins, err := unmarshalInputOutput(bytes)
			if err != nil {
				return err
			}
			m.Inputs = append(m.Inputs, Input{Address: addr, Coins: coins})
		case 2:
			addr, coins, err := unmarshalInputOutput(bytes)
			if err != nil {
				return err
			}
			m.Outputs = append(m.Outputs, Output{Address: addr, Coins: coins})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}
