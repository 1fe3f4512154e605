package types

// ModuleName is the auth module's name and store key.
const ModuleName = "auth"

// StoreKey is the store key the module owns.
const StoreKey = ModuleName

// FeeCollectorName is the module account fees are paid into.
const FeeCollectorName = "fee_collector"

// Store layout.
var (
	// AddressStoreKeyPrefix prefixes account records keyed by address bytes.
	AddressStoreKeyPrefix = []byte{0x01}
	// GlobalAccountNumberKey holds the chain-wide account counter.
	GlobalAccountNumberKey = []byte{0x02}
)

// AddressStoreKey returns the store key for an account.
func AddressStoreKey(addr []byte) []byte {
	return append(AddressStoreKeyPrefix, addr...)
}
