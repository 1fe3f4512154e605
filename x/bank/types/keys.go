package types

import (
	sdk "github.com/gears-network/gears/types"
)

// ModuleName is the bank module's name and store key.
const ModuleName = "bank"

// StoreKey is the store key the module owns.
const StoreKey = ModuleName

// Store layout.
var (
	// SupplyPrefix prefixes per-denom total supply.
	SupplyPrefix = []byte{0x00}
	// DenomMetadataPrefix prefixes denomination metadata records.
	DenomMetadataPrefix = []byte{0x01}
	// BalancesPrefix prefixes per-account balances.
	BalancesPrefix = []byte{0x02}
)

// AddressBalancesPrefix scopes the balances prefix to one account: the
// address is length-prefixed so distinct addresses never share a prefix.
func AddressBalancesPrefix(addr sdk.AccAddress) []byte {
	out := make([]byte, 0, len(BalancesPrefix)+1+len(addr))
	out = append(out, BalancesPrefix...)
	out = append(out, byte(len(addr)))
	return append(out, addr...)
}

// BalanceKey is the full key of one (address, denom) balance.
func BalanceKey(addr sdk.AccAddress, denom string) []byte {
	return append(AddressBalancesPrefix(addr), denom...)
}

// SupplyKey is the key of one denom's total supply.
func SupplyKey(denom string) []byte {
	return append(SupplyPrefix, denom...)
}

// DenomMetadataKey is the key of one denom's metadata record.
func DenomMetadataKey(denom string) []byte {
	return append(DenomMetadataPrefix, denom...)
}
