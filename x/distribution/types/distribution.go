package types

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
	sdkerrors "github.com/gears-network/gears/types/errors"
	"github.com/gears-network/gears/types/tx"
)

// ModuleName is the distribution module's name, store key and module
// account.
const ModuleName = "distribution"

// StoreKey is the store key the module owns.
const StoreKey = ModuleName

const Codespace = ModuleName

var (
	ErrNoRewards     = errorsmod.Register(Codespace, 2, "no rewards to withdraw")
	ErrNoDelegation  = errorsmod.Register(Codespace, 3, "no delegation with validator")
)

// Store layout.
var (
	FeePoolKey                    = []byte{0x00}
	ValidatorOutstandingRewardsPrefix = []byte{0x02}
)

func OutstandingRewardsKey(val sdk.ValAddress) []byte {
	return append(ValidatorOutstandingRewardsPrefix, val...)
}

// FeePool holds the undistributed community pool.
type FeePool struct {
	CommunityPool sdk.Coins `json:"community_pool"`
}

// Params are the distribution module's chain parameters. The community tax
// is expressed in basis points of 10_000.
type Params struct {
	CommunityTaxBps int64 `json:"community_tax_bps,string"`
}

func DefaultParams() Params {
	return Params{CommunityTaxBps: 200}
}

func (p Params) Validate() error {
	if p.CommunityTaxBps < 0 || p.CommunityTaxBps > 10_000 {
		return errorsmod.Wrap(sdkerrors.ErrTxValidation, "community tax out of range")
	}
	return nil
}

// GenesisState is the distribution module's genesis shape.
type GenesisState struct {
	Params  Params  `json:"params"`
	FeePool FeePool `json:"fee_pool"`
}

func DefaultGenesisState() GenesisState {
	return GenesisState{
		Params:  DefaultParams(),
		FeePool: FeePool{CommunityPool: sdk.Coins{}},
	}
}

func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	return gs.FeePool.CommunityPool.Validate()
}

// BankKeeper is the slice of x/bank the distribution keeper needs.
type BankKeeper interface {
	GetAllBalances(ctx sdkctx.ReadContext, addr sdk.AccAddress) sdk.Coins
	SendCoinsFromModuleToModule(ctx sdkctx.Context, fromModule, toModule string, amount sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx sdkctx.Context, fromModule string, to sdk.AccAddress, amount sdk.Coins) error
}

// AccountKeeper resolves module account addresses.
type AccountKeeper interface {
	GetModuleAddress(name string) sdk.AccAddress
}

// StakingKeeper supplies the validator set and delegations rewards are
// computed over.
type StakingKeeper interface {
	IterateBondedValidators(ctx sdkctx.ReadContext, cb func(operator sdk.ValAddress, tokens sdkmath.Int, power int64) bool)
	GetDelegationTokens(ctx sdkctx.ReadContext, del sdk.AccAddress, val sdk.ValAddress) (sdkmath.Int, bool)
	GetValidatorTokens(ctx sdkctx.ReadContext, val sdk.ValAddress) (sdkmath.Int, bool)
}

// MsgWithdrawDelegatorRewardURL identifies the withdraw message.
const MsgWithdrawDelegatorRewardURL = "/cosmos.distribution.v1beta1.MsgWithdrawDelegatorReward"

// MsgWithdrawDelegatorReward claims a delegator's accumulated reward from
// one validator.
type MsgWithdrawDelegatorReward struct {
	DelegatorAddress sdk.AccAddress
	ValidatorAddress sdk.ValAddress
}

var _ tx.Msg = MsgWithdrawDelegatorReward{}

func (m MsgWithdrawDelegatorReward) TypeURL() string { return MsgWithdrawDelegatorRewardURL }

func (m MsgWithdrawDelegatorReward) ValidateBasic() error {
	if m.DelegatorAddress.Empty() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidAddress, "missing delegator address")
	}
	if m.ValidatorAddress.Empty() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidAddress, "missing validator address")
	}
	return nil
}

func (m MsgWithdrawDelegatorReward) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{m.DelegatorAddress}
}

func (m MsgWithdrawDelegatorReward) Marshal() ([]byte, error) {
	var buf []byte
	buf = tx.AppendTagString(buf, 1, m.DelegatorAddress.String())
	buf = tx.AppendTagString(buf, 2, m.ValidatorAddress.String())
	return buf, nil
}

// UnmarshalMsgWithdrawDelegatorReward is the registered decoder.
func UnmarshalMsgWithdrawDelegatorReward(value []byte) (tx.Msg, error) {
	var m MsgWithdrawDelegatorReward

	err := tx.WalkFields(value, func(num int32, bytes []byte, _ uint64) error {
		switch num {
		case 1:
			addr, err := sdk.AccAddressFromBech32(string(bytes))
			if err != nil {
				return err
			}
			m.DelegatorAddress = addr
		case 2:
			addr, err := sdk.ValAddressFromBech32(string(bytes))
			if err != nil {
				return err
			}
			m.ValidatorAddress = addr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}
