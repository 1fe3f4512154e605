package types

import (
	"encoding/json"

	"github.com/cometbft/cometbft/crypto/tmhash"
	"github.com/pkg/errors"

	"github.com/gears-network/gears/types"
	"github.com/gears-network/gears/types/tx"
)

// Account is the behavior shared by base and module accounts.
type Account interface {
	GetAddress() types.AccAddress
	GetPubKey() *tx.PubKey
	GetAccountNumber() uint64
	GetSequence() uint64
}

// BaseAccount is a plain externally-owned account. The account number is
// assigned once by the keeper and never changes; the sequence increments
// with every signed tx.
type BaseAccount struct {
	Address       types.AccAddress `json:"address"`
	PubKey        *tx.PubKey       `json:"pub_key,omitempty"`
	AccountNumber uint64           `json:"account_number,string"`
	Sequence      uint64           `json:"sequence,string"`
}

func NewBaseAccount(addr types.AccAddress, accountNumber uint64) *BaseAccount {
	return &BaseAccount{Address: addr, AccountNumber: accountNumber}
}

func (a *BaseAccount) GetAddress() types.AccAddress { return a.Address }
func (a *BaseAccount) GetPubKey() *tx.PubKey        { return a.PubKey }
func (a *BaseAccount) GetAccountNumber() uint64     { return a.AccountNumber }
func (a *BaseAccount) GetSequence() uint64          { return a.Sequence }

// SetPubKey records the key the first time the account signs.
func (a *BaseAccount) SetPubKey(pk *tx.PubKey) {
	a.PubKey = pk
}

func (a *BaseAccount) IncrementSequence() {
	a.Sequence++
}

// ModuleAccount is an account owned by a module rather than a key pair. It
// never signs; its address is derived from the module name.
type ModuleAccount struct {
	BaseAccount
	Name string `json:"name"`
}

func NewModuleAccount(name string, accountNumber uint64) *ModuleAccount {
	return &ModuleAccount{
		BaseAccount: BaseAccount{Address: NewModuleAddress(name), AccountNumber: accountNumber},
		Name:        name,
	}
}

// NewModuleAddress derives the deterministic address of a module account.
func NewModuleAddress(name string) types.AccAddress {
	return types.AccAddress(tmhash.SumTruncated([]byte(name)))
}

// accountEnvelope tags the concrete account type for storage.
type accountEnvelope struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

const (
	baseAccountType   = "auth/BaseAccount"
	moduleAccountType = "auth/ModuleAccount"
)

// MarshalAccount serializes an account for the store or genesis.
func MarshalAccount(acc Account) ([]byte, error) {
	var (
		ty  string
		val any
	)

	switch acc := acc.(type) {
	case *BaseAccount:
		ty, val = baseAccountType, acc
	case *ModuleAccount:
		ty, val = moduleAccountType, acc
	default:
		return nil, errors.Errorf("unknown account type %T", acc)
	}

	inner, err := json.Marshal(val)
	if err != nil {
		return nil, err
	}

	return json.Marshal(accountEnvelope{Type: ty, Value: inner})
}

// UnmarshalAccount is the inverse of MarshalAccount.
func UnmarshalAccount(bz []byte) (Account, error) {
	var env accountEnvelope
	if err := json.Unmarshal(bz, &env); err != nil {
		return nil, err
	}

	switch env.Type {
	case baseAccountType:
		var acc BaseAccount
		if err := json.Unmarshal(env.Value, &acc); err != nil {
			return nil, err
		}
		return &acc, nil
	case moduleAccountType:
		var acc ModuleAccount
		if err := json.Unmarshal(env.Value, &acc); err != nil {
			return nil, err
		}
		return &acc, nil
	default:
		return nil, errors.Errorf("unknown account type %q", env.Type)
	}
}
