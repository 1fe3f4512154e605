package types

import (
	"time"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
)

// ModuleName is the slashing module's name and store key.
const ModuleName = "slashing"

// StoreKey is the store key the module owns.
const StoreKey = ModuleName

const Codespace = ModuleName

var (
	ErrNoSigningInfo = errorsmod.Register(Codespace, 2, "no signing info for validator")
)

// Store layout.
var (
	SigningInfoPrefix = []byte{0x01}
)

func SigningInfoKey(consAddr sdk.ConsAddress) []byte {
	return append(SigningInfoPrefix, consAddr...)
}

// ValidatorSigningInfo tracks one validator's liveness inside the signing
// window.
type ValidatorSigningInfo struct {
	Address             sdk.ConsAddress `json:"address"`
	StartHeight         int64           `json:"start_height,string"`
	MissedBlocksCounter int64           `json:"missed_blocks_counter,string"`
	JailedUntil         time.Time       `json:"jailed_until"`
}

// Params are the slashing module's chain parameters; slash fractions are in
// basis points of 10_000.
type Params struct {
	SignedBlocksWindow         int64         `json:"signed_blocks_window,string"`
	MinSignedPerWindowBps      int64         `json:"min_signed_per_window_bps,string"`
	DowntimeJailDuration       time.Duration `json:"downtime_jail_duration"`
	SlashFractionDowntimeBps   int64         `json:"slash_fraction_downtime_bps,string"`
	SlashFractionDoubleSignBps int64         `json:"slash_fraction_double_sign_bps,string"`
}

func DefaultParams() Params {
	return Params{
		SignedBlocksWindow:         100,
		MinSignedPerWindowBps:      500, // 5%
		DowntimeJailDuration:       10 * time.Minute,
		SlashFractionDowntimeBps:   100, // 1%
		SlashFractionDoubleSignBps: 500, // 5%
	}
}

func (p Params) Validate() error {
	if p.SignedBlocksWindow <= 0 {
		return errorsmod.Wrap(ErrNoSigningInfo, "signed blocks window must be positive")
	}
	return nil
}

// GenesisState is the slashing module's genesis shape.
type GenesisState struct {
	Params       Params                 `json:"params"`
	SigningInfos []ValidatorSigningInfo `json:"signing_infos"`
}

func DefaultGenesisState() GenesisState {
	return GenesisState{Params: DefaultParams(), SigningInfos: []ValidatorSigningInfo{}}
}

func (gs GenesisState) Validate() error {
	return gs.Params.Validate()
}

// StakingKeeper is the slice of x/staking the slashing keeper penalizes
// through.
type StakingKeeper interface {
	Slash(ctx sdkctx.Context, consAddr sdk.ConsAddress, slashFactorBps int64) sdkmath.Int
	Jail(ctx sdkctx.Context, consAddr sdk.ConsAddress)
}
