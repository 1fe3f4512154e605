package types

import (
	"time"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/gears-network/gears/types"
	"github.com/gears-network/gears/types/tx"
)

// ModuleName is the staking module's name and store key.
const ModuleName = "staking"

// StoreKey is the store key the module owns.
const StoreKey = ModuleName

// Module accounts holding staked tokens.
const (
	BondedPoolName    = "bonded_tokens_pool"
	NotBondedPoolName = "not_bonded_tokens_pool"
)

// PowerReduction converts bonded tokens to consensus power.
var PowerReduction = sdkmath.NewInt(1_000_000)

// Bond statuses.
const (
	Unbonded  = "BOND_STATUS_UNBONDED"
	Unbonding = "BOND_STATUS_UNBONDING"
	Bonded    = "BOND_STATUS_BONDED"
)

// Validator is a registered validator: self-described, holding the total
// tokens delegated to it.
type Validator struct {
	OperatorAddress sdk.ValAddress `json:"operator_address"`
	ConsensusPubKey *tx.PubKey     `json:"consensus_pubkey"`
	Jailed          bool           `json:"jailed"`
	Status          string         `json:"status"`
	Tokens          sdkmath.Int    `json:"tokens"`
	Moniker         string         `json:"moniker"`
}

// ConsAddress is the address of the validator's consensus key, the identity
// the consensus engine reports in commits and evidence.
func (v Validator) ConsAddress() sdk.ConsAddress {
	return sdk.ConsAddress(v.ConsensusPubKey.Address())
}

// ConsensusPower is the validator's voting power at the default reduction.
func (v Validator) ConsensusPower() int64 {
	if v.Jailed || v.Status != Bonded {
		return 0
	}
	return v.Tokens.Quo(PowerReduction).Int64()
}

// Delegation records one delegator's stake with one validator.
type Delegation struct {
	DelegatorAddress sdk.AccAddress `json:"delegator_address"`
	ValidatorAddress sdk.ValAddress `json:"validator_address"`
	Tokens           sdkmath.Int    `json:"tokens"`
}

// UnbondingDelegationEntry is one in-flight unbonding amount.
type UnbondingDelegationEntry struct {
	CreationHeight int64       `json:"creation_height,string"`
	CompletionTime time.Time   `json:"completion_time"`
	Balance        sdkmath.Int `json:"balance"`
}

// UnbondingDelegation collects a (delegator, validator) pair's unbonding
// entries, ordered by creation.
type UnbondingDelegation struct {
	DelegatorAddress sdk.AccAddress             `json:"delegator_address"`
	ValidatorAddress sdk.ValAddress             `json:"validator_address"`
	Entries          []UnbondingDelegationEntry `json:"entries"`
}

// Params are the staking module's chain parameters.
type Params struct {
	UnbondingTime time.Duration `json:"unbonding_time"`
	MaxValidators uint32        `json:"max_validators"`
	BondDenom     string        `json:"bond_denom"`
}

func DefaultParams() Params {
	return Params{
		UnbondingTime: 21 * 24 * time.Hour,
		MaxValidators: 100,
		BondDenom:     "uatom",
	}
}

func (p Params) Validate() error {
	if p.MaxValidators == 0 {
		return ErrInvalidParams.Wrap("max validators must be positive")
	}
	if err := sdk.ValidateDenom(p.BondDenom); err != nil {
		return err
	}
	return nil
}
