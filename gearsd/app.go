package gearsd

import (
	"cosmossdk.io/log"

	"github.com/gears-network/gears/baseapp"
	"github.com/gears-network/gears/db"
	"github.com/gears-network/gears/module"
	"github.com/gears-network/gears/params"
	storetypes "github.com/gears-network/gears/store/types"
	"github.com/gears-network/gears/x/auth"
	authante "github.com/gears-network/gears/x/auth/ante"
	authkeeper "github.com/gears-network/gears/x/auth/keeper"
	authtypes "github.com/gears-network/gears/x/auth/types"
	"github.com/gears-network/gears/x/bank"
	bankkeeper "github.com/gears-network/gears/x/bank/keeper"
	banktypes "github.com/gears-network/gears/x/bank/types"
	"github.com/gears-network/gears/x/distribution"
	distrkeeper "github.com/gears-network/gears/x/distribution/keeper"
	distrtypes "github.com/gears-network/gears/x/distribution/types"
	"github.com/gears-network/gears/x/gov"
	govkeeper "github.com/gears-network/gears/x/gov/keeper"
	govtypes "github.com/gears-network/gears/x/gov/types"
	"github.com/gears-network/gears/x/slashing"
	slashingkeeper "github.com/gears-network/gears/x/slashing/keeper"
	slashingtypes "github.com/gears-network/gears/x/slashing/types"
	"github.com/gears-network/gears/x/staking"
	stakingkeeper "github.com/gears-network/gears/x/staking/keeper"
	stakingtypes "github.com/gears-network/gears/x/staking/types"
)

// App identity reported over ABCI.
const (
	AppName = "gearsd"
	Version = "0.1.0"
)

// ParamsStoreKey is the shared params store.
const ParamsStoreKey = "params"

// GearsApp bundles the engine with the keepers the daemon and tests reach
// into.
type GearsApp struct {
	*baseapp.BaseApp

	AuthKeeper     authkeeper.Keeper
	BankKeeper     bankkeeper.Keeper
	StakingKeeper  stakingkeeper.Keeper
	GovKeeper      govkeeper.Keeper
	DistrKeeper    distrkeeper.Keeper
	SlashingKeeper slashingkeeper.Keeper
}

// NewGearsApp wires the standard module set: auth, bank, distribution,
// slashing, gov, staking. The manager order doubles as genesis and block
// hook order; staking is last so its end-block emits the validator updates
// after governance has settled.
func NewGearsApp(logger log.Logger, database db.Database, opts ...baseapp.Option) (*GearsApp, error) {
	keys := storetypes.NewKVStoreKeys(
		ParamsStoreKey,
		authtypes.StoreKey,
		banktypes.StoreKey,
		stakingtypes.StoreKey,
		govtypes.StoreKey,
		distrtypes.StoreKey,
		slashingtypes.StoreKey,
	)

	paramsKeeper := params.NewKeeper(keys[ParamsStoreKey])

	authKeeper := authkeeper.NewKeeper(keys[authtypes.StoreKey], paramsKeeper)
	bankKeeper := bankkeeper.NewKeeper(keys[banktypes.StoreKey], paramsKeeper, authKeeper)
	stakingKeeper := stakingkeeper.NewKeeper(keys[stakingtypes.StoreKey], paramsKeeper, bankKeeper)
	govKeeper := govkeeper.NewKeeper(keys[govtypes.StoreKey], paramsKeeper, bankKeeper, stakingKeeper)
	distrKeeper := distrkeeper.NewKeeper(keys[distrtypes.StoreKey], paramsKeeper, bankKeeper, authKeeper, stakingKeeper)
	slashingKeeper := slashingkeeper.NewKeeper(keys[slashingtypes.StoreKey], paramsKeeper, stakingKeeper)

	mm := module.NewManager(
		auth.NewAppModule(authKeeper),
		bank.NewAppModule(bankKeeper),
		distribution.NewAppModule(distrKeeper),
		slashing.NewAppModule(slashingKeeper),
		gov.NewAppModule(govKeeper),
		staking.NewAppModule(stakingKeeper),
	)

	anteHandler := authante.NewAnteHandler(authKeeper, bankKeeper)

	allKeys := make([]storetypes.StoreKey, 0, len(keys))
	for _, key := range keys {
		allKeys = append(allKeys, key)
	}

	app, err := baseapp.NewBaseApp(logger, AppName, Version, database, keys[ParamsStoreKey], allKeys, mm, anteHandler, opts...)
	if err != nil {
		return nil, err
	}

	return &GearsApp{
		BaseApp:        app,
		AuthKeeper:     authKeeper,
		BankKeeper:     bankKeeper,
		StakingKeeper:  stakingKeeper,
		GovKeeper:      govKeeper,
		DistrKeeper:    distrKeeper,
		SlashingKeeper: slashingKeeper,
	}, nil
}
