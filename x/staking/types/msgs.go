package types

import (
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/gears-network/gears/types"
	sdkerrors "github.com/gears-network/gears/types/errors"
	"github.com/gears-network/gears/types/tx"
)

// Message type URLs.
const (
	MsgCreateValidatorURL = "/cosmos.staking.v1beta1.MsgCreateValidator"
	MsgDelegateURL        = "/cosmos.staking.v1beta1.MsgDelegate"
	MsgUndelegateURL      = "/cosmos.staking.v1beta1.MsgUndelegate"
)

// MsgCreateValidator registers a new validator with a self-delegation.
type MsgCreateValidator struct {
	ValidatorAddress sdk.ValAddress
	Pubkey           *tx.PubKey
	Value            sdk.Coin
	Moniker          string
}

var _ tx.Msg = MsgCreateValidator{}

func (m MsgCreateValidator) TypeURL() string { return MsgCreateValidatorURL }

func (m MsgCreateValidator) ValidateBasic() error {
	if m.ValidatorAddress.Empty() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidAddress, "missing validator address")
	}
	if m.Pubkey == nil {
		return errorsmod.Wrap(sdkerrors.ErrTxValidation, "missing consensus pubkey")
	}
	if err := m.Value.Validate(); err != nil {
		return err
	}
	if m.Value.IsZero() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidCoins, "zero self delegation")
	}
	if m.Moniker == "" {
		return errorsmod.Wrap(sdkerrors.ErrTxValidation, "empty moniker")
	}
	return nil
}

func (m MsgCreateValidator) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{sdk.AccAddress(m.ValidatorAddress)}
}

func (m MsgCreateValidator) Marshal() ([]byte, error) {
	var buf []byte
	buf = tx.AppendTagString(buf, 1, m.ValidatorAddress.String())
	buf = tx.AppendTagBytes(buf, 2, encodePubKeyAny(m.Pubkey))
	buf = tx.AppendCoin(buf, 3, m.Value)
	buf = tx.AppendTagString(buf, 4, m.Moniker)
	return buf, nil
}

func encodePubKeyAny(pk *tx.PubKey) []byte {
	any := pk.Encode()
	var buf []byte
	buf = tx.AppendTagString(buf, 1, any.TypeURL)
	buf = tx.AppendTagBytes(buf, 2, any.Value)
	return buf
}

func decodePubKeyAny(bz []byte) (*tx.PubKey, error) {
	var url string
	var value []byte

	err := tx.WalkFields(bz, func(num int32, bytes []byte, _ uint64) error {
		switch num {
		case 1:
			url = string(bytes)
		case 2:
			value = bytes
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tx.DecodePubKey(tx.Any{TypeURL: url, Value: value})
}

// UnmarshalMsgCreateValidator is the registered decoder.
func UnmarshalMsgCreateValidator(value []byte) (tx.Msg, error) {
	var m MsgCreateValidator

	err := tx.WalkFields(value, func(num int32, bytes []byte, _ uint64) error {
		switch num {
		case 1:
			addr, err := sdk.ValAddressFromBech32(string(bytes))
			if err != nil {
				return err
			}
			m.ValidatorAddress = addr
		case 2:
			pk, err := decodePubKeyAny(bytes)
			if err != nil {
				return err
			}
			m.Pubkey = pk
		case 3:
			coin, err := tx.DecodeCoin(bytes)
			if err != nil {
				return err
			}
			m.Value = coin
		case 4:
			m.Moniker = string(bytes)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// MsgDelegate bonds tokens to a validator.
type MsgDelegate struct {
	DelegatorAddress sdk.AccAddress
	ValidatorAddress sdk.ValAddress
	Amount           sdk.Coin
}

var _ tx.Msg = MsgDelegate{}

func (m MsgDelegate) TypeURL() string { return MsgDelegateURL }

func (m MsgDelegate) ValidateBasic() error {
	return validateDelegationMsg(m.DelegatorAddress, m.ValidatorAddress, m.Amount)
}

func (m MsgDelegate) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{m.DelegatorAddress}
}

func (m MsgDelegate) Marshal() ([]byte, error) {
	return marshalDelegationMsg(m.DelegatorAddress, m.ValidatorAddress, m.Amount), nil
}

// UnmarshalMsgDelegate is the registered decoder.
func UnmarshalMsgDelegate(value []byte) (tx.Msg, error) {
	del, val, amount, err := unmarshalDelegationMsg(value)
	if err != nil {
		return nil, err
	}
	return MsgDelegate{DelegatorAddress: del, ValidatorAddress: val, Amount: amount}, nil
}

// MsgUndelegate begins unbonding tokens from a validator.
type MsgUndelegate struct {
	DelegatorAddress sdk.AccAddress
	ValidatorAddress sdk.ValAddress
	Amount           sdk.Coin
}

var _ tx.Msg = MsgUndelegate{}

func (m MsgUndelegate) TypeURL() string { return MsgUndelegateURL }

func (m MsgUndelegate) ValidateBasic() error {
	return validateDelegationMsg(m.DelegatorAddress, m.ValidatorAddress, m.Amount)
}

func (m MsgUndelegate) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{m.DelegatorAddress}
}

func (m MsgUndelegate) Marshal() ([]byte, error) {
	return marshalDelegationMsg(m.DelegatorAddress, m.ValidatorAddress, m.Amount), nil
}

// UnmarshalMsgUndelegate is the registered decoder.
func UnmarshalMsgUndelegate(value []byte) (tx.Msg, error) {
	del, val, amount, err := unmarshalDelegationMsg(value)
	if err != nil {
		return nil, err
	}
	return MsgUndelegate{DelegatorAddress: del, ValidatorAddress: val, Amount: amount}, nil
}

func validateDelegationMsg(del sdk.AccAddress, val sdk.ValAddress, amount sdk.Coin) error {
	if del.Empty() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidAddress, "missing delegator address")
	}
	if val.Empty() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidAddress, "missing validator address")
	}
	if err := amount.Validate(); err != nil {
		return err
	}
	if amount.IsZero() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidCoins, "zero amount")
	}
	return nil
}

func marshalDelegationMsg(del sdk.AccAddress, val sdk.ValAddress, amount sdk.Coin) []byte {
	var buf []byte
	buf = tx.AppendTagString(buf, 1, del.String())
	buf = tx.AppendTagString(buf, 2, val.String())
	buf = tx.AppendCoin(buf, 3, amount)
	return buf
}

func unmarshalDelegationMsg(value []byte) (sdk.AccAddress, sdk.ValAddress, sdk.Coin, error) {
	var (
		del    sdk.AccAddress
		val    sdk.ValAddress
		amount sdk.Coin
	)

	err := tx.WalkFields(value, func(num int32, bytes []byte, _ uint64) error {
		switch num {
		case 1:
			a, err := sdk.AccAddressFromBech32(string(bytes))
			if err != nil {
				return err
			}
			del = a
		case 2:
			a, err := sdk.ValAddressFromBech32(string(bytes))
			if err != nil {
				return err
			}
			val = a
		case 3:
			c, err := tx.DecodeCoin(bytes)
			if err != nil {
				return err
			}
			amount = c
		}
		return nil
	})

	return del, val, amount, err
}
