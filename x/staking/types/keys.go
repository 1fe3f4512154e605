package types

import (
	"time"

	sdk "github.com/gears-network/gears/types"
)

// Store layout.
var (
	LastValidatorPowerKey  = []byte{0x11}
	ValidatorsKey          = []byte{0x21}
	ValidatorsByConsKey    = []byte{0x22}
	DelegationKey          = []byte{0x31}
	UnbondingDelegationKey = []byte{0x32}
	UnbondingQueueKey      = []byte{0x41}
)

// sortableTimeFormat yields lexicographically time-ordered keys.
const sortableTimeFormat = "2006-01-02T15:04:05.000000000"

// FormatTimeBytes renders a queue timestamp.
func FormatTimeBytes(t time.Time) []byte {
	return []byte(t.UTC().Round(0).Format(sortableTimeFormat))
}

// ParseTimeBytes is the inverse of FormatTimeBytes.
func ParseTimeBytes(bz []byte) (time.Time, error) {
	return time.Parse(sortableTimeFormat, string(bz))
}

func GetValidatorKey(addr sdk.ValAddress) []byte {
	return append(ValidatorsKey, addr...)
}

func GetValidatorByConsKey(addr sdk.ConsAddress) []byte {
	return append(ValidatorsByConsKey, addr...)
}

func GetLastValidatorPowerKey(addr sdk.ValAddress) []byte {
	return append(LastValidatorPowerKey, addr...)
}

func delValPair(prefix []byte, del sdk.AccAddress, val sdk.ValAddress) []byte {
	out := make([]byte, 0, len(prefix)+1+len(del)+len(val))
	out = append(out, prefix...)
	out = append(out, byte(len(del)))
	out = append(out, del...)
	return append(out, val...)
}

func GetDelegationKey(del sdk.AccAddress, val sdk.ValAddress) []byte {
	return delValPair(DelegationKey, del, val)
}

// GetDelegationsPrefix scopes the delegation keyspace to one delegator.
func GetDelegationsPrefix(del sdk.AccAddress) []byte {
	out := make([]byte, 0, len(DelegationKey)+1+len(del))
	out = append(out, DelegationKey...)
	out = append(out, byte(len(del)))
	return append(out, del...)
}

func GetUnbondingDelegationKey(del sdk.AccAddress, val sdk.ValAddress) []byte {
	return delValPair(UnbondingDelegationKey, del, val)
}

// GetUnbondingQueueKey orders queue records by absolute completion time.
func GetUnbondingQueueKey(completion time.Time) []byte {
	return append(UnbondingQueueKey, FormatTimeBytes(completion)...)
}
