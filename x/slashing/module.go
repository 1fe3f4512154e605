package slashing

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	abci "github.com/cometbft/cometbft/abci/types"

	"github.com/gears-network/gears/module"
	sdk "github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
	sdkerrors "github.com/gears-network/gears/types/errors"
	"github.com/gears-network/gears/x/slashing/keeper"
	"github.com/gears-network/gears/x/slashing/types"
)

// Query paths served by the module.
const (
	QuerySigningInfoPath = "/slashing/signing_info"
	QueryParamsPath      = "/slashing/params"
)

// AppModule implements the slashing module. Its begin-block processes the
// previous block's commit signatures and any evidence.
type AppModule struct {
	keeper keeper.Keeper
}

var (
	_ module.AppModule        = AppModule{}
	_ module.HasQueryHandlers = AppModule{}
	_ module.HasBeginBlocker  = AppModule{}
)

func NewAppModule(k keeper.Keeper) AppModule {
	return AppModule{keeper: k}
}

func (AppModule) Name() string {
	return types.ModuleName
}

func (AppModule) DefaultGenesis() json.RawMessage {
	bz, err := json.Marshal(types.DefaultGenesisState())
	if err != nil {
		panic(err)
	}
	return bz
}

func (AppModule) ValidateGenesis(bz json.RawMessage) error {
	var genesis types.GenesisState
	if err := json.Unmarshal(bz, &genesis); err != nil {
		return err
	}
	return genesis.Validate()
}

func (am AppModule) InitGenesis(ctx sdkctx.Context, bz json.RawMessage) []abci.ValidatorUpdate {
	var genesis types.GenesisState
	if err := json.Unmarshal(bz, &genesis); err != nil {
		panic(err)
	}

	am.keeper.InitGenesis(ctx, genesis)
	return nil
}

func (am AppModule) ExportGenesis(ctx sdkctx.Context) json.RawMessage {
	bz, err := json.Marshal(am.keeper.ExportGenesis(ctx))
	if err != nil {
		panic(err)
	}
	return bz
}

// BeginBlock tracks liveness and processes evidence.
func (am AppModule) BeginBlock(ctx sdkctx.Context, req module.BeginBlockRequest) error {
	am.keeper.BeginBlocker(ctx, req.LastCommit, req.Misbehavior)
	return nil
}

func (am AppModule) RegisterQueryHandlers(router module.QueryRouter) {
	router.RegisterQuery(QuerySigningInfoPath, am.querySigningInfo)
	router.RegisterQuery(QueryParamsPath, am.queryParams)
}

// QuerySigningInfoRequest asks for one validator's liveness record.
type QuerySigningInfoRequest struct {
	ConsAddress sdk.ConsAddress `json:"cons_address"`
}

func (am AppModule) querySigningInfo(ctx sdkctx.QueryContext, req []byte) ([]byte, error) {
	var request QuerySigningInfoRequest
	if err := json.Unmarshal(req, &request); err != nil {
		return nil, errorsmod.Wrap(sdkerrors.ErrBadRequest, err.Error())
	}

	info, found := am.keeper.GetSigningInfo(ctx, request.ConsAddress)
	if !found {
		return nil, errorsmod.Wrapf(types.ErrNoSigningInfo, "%s", request.ConsAddress)
	}

	return json.Marshal(info)
}

func (am AppModule) queryParams(ctx sdkctx.QueryContext, _ []byte) ([]byte, error) {
	return json.Marshal(am.keeper.GetParams(ctx))
}
