package types

import (
	"bytes"
	"encoding/json"

	"github.com/btcsuite/btcd/btcutil/bech32"
	errorsmod "cosmossdk.io/errors"

	"github.com/gears-network/gears/types/errors"
)

// Bech32 human-readable prefixes.
const (
	Bech32PrefixAccAddr  = "cosmos"
	Bech32PrefixValAddr  = "cosmosvaloper"
	Bech32PrefixConsAddr = "cosmosvalcons"
)

// MaxAddrLen is the longest address the engine accepts.
const MaxAddrLen = 255

// AccAddress identifies an account.
type AccAddress []byte

// ValAddress identifies a validator operator.
type ValAddress []byte

// ConsAddress identifies a validator's consensus key.
type ConsAddress []byte

// AccAddressFromBech32 parses a bech32-encoded account address.
func AccAddressFromBech32(address string) (AccAddress, error) {
	bz, err := decodeBech32(address, Bech32PrefixAccAddr)
	if err != nil {
		return nil, err
	}
	return AccAddress(bz), nil
}

// ValAddressFromBech32 parses a bech32-encoded validator operator address.
func ValAddressFromBech32(address string) (ValAddress, error) {
	bz, err := decodeBech32(address, Bech32PrefixValAddr)
	if err != nil {
		return nil, err
	}
	return ValAddress(bz), nil
}

// ConsAddressFromBech32 parses a bech32-encoded consensus address.
func ConsAddressFromBech32(address string) (ConsAddress, error) {
	bz, err := decodeBech32(address, Bech32PrefixConsAddr)
	if err != nil {
		return nil, err
	}
	return ConsAddress(bz), nil
}

func decodeBech32(address, wantHRP string) ([]byte, error) {
	hrp, data, err := bech32.DecodeNoLimit(address)
	if err != nil {
		return nil, errorsmod.Wrap(errors.ErrInvalidAddress, err.Error())
	}
	if hrp != wantHRP {
		return nil, errorsmod.Wrapf(errors.ErrInvalidAddress, "invalid prefix %q, expected %q", hrp, wantHRP)
	}

	bz, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, errorsmod.Wrap(errors.ErrInvalidAddress, err.Error())
	}
	if len(bz) == 0 || len(bz) > MaxAddrLen {
		return nil, errorsmod.Wrapf(errors.ErrInvalidAddress, "invalid address length %d", len(bz))
	}

	return bz, nil
}

func encodeBech32(hrp string, bz []byte) string {
	if len(bz) == 0 {
		return ""
	}

	data, err := bech32.ConvertBits(bz, 8, 5, true)
	if err != nil {
		panic(err)
	}

	s, err := bech32.Encode(hrp, data)
	if err != nil {
		panic(err)
	}

	return s
}

func (a AccAddress) String() string  { return encodeBech32(Bech32PrefixAccAddr, a) }
func (a ValAddress) String() string  { return encodeBech32(Bech32PrefixValAddr, a) }
func (a ConsAddress) String() string { return encodeBech32(Bech32PrefixConsAddr, a) }

func (a AccAddress) Empty() bool  { return len(a) == 0 }
func (a ValAddress) Empty() bool  { return len(a) == 0 }
func (a ConsAddress) Empty() bool { return len(a) == 0 }

func (a AccAddress) Equals(other AccAddress) bool {
	return bytes.Equal(a, other)
}

func (a ValAddress) Equals(other ValAddress) bool {
	return bytes.Equal(a, other)
}

func (a AccAddress) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *AccAddress) UnmarshalJSON(bz []byte) error {
	var s string
	if err := json.Unmarshal(bz, &s); err != nil {
		return err
	}

	if s == "" {
		*a = nil
		return nil
	}

	addr, err := AccAddressFromBech32(s)
	if err != nil {
		return err
	}

	*a = addr
	return nil
}

func (a ValAddress) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *ValAddress) UnmarshalJSON(bz []byte) error {
	var s string
	if err := json.Unmarshal(bz, &s); err != nil {
		return err
	}

	if s == "" {
		*a = nil
		return nil
	}

	addr, err := ValAddressFromBech32(s)
	if err != nil {
		return err
	}

	*a = addr
	return nil
}

func (a ConsAddress) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *ConsAddress) UnmarshalJSON(bz []byte) error {
	var s string
	if err := json.Unmarshal(bz, &s); err != nil {
		return err
	}

	if s == "" {
		*a = nil
		return nil
	}

	addr, err := ConsAddressFromBech32(s)
	if err != nil {
		return err
	}

	*a = addr
	return nil
}
