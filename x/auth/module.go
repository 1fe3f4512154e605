package auth

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	abci "github.com/cometbft/cometbft/abci/types"

	"github.com/gears-network/gears/module"
	sdk "github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
	sdkerrors "github.com/gears-network/gears/types/errors"
	"github.com/gears-network/gears/x/auth/keeper"
	"github.com/gears-network/gears/x/auth/types"
)

// Query paths served by the module.
const (
	QueryAccountPath = "/auth/account"
	QueryParamsPath  = "/auth/params"
)

// AppModule implements the auth module: account storage, auth params and the
// account queries. The ante pipeline lives in x/auth/ante and is wired by
// the application.
type AppModule struct {
	keeper keeper.Keeper
}

var (
	_ module.AppModule        = AppModule{}
	_ module.HasQueryHandlers = AppModule{}
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

func (am AppModule) RegisterQueryHandlers(router module.QueryRouter) {
	router.RegisterQuery(QueryAccountPath, am.queryAccount)
	router.RegisterQuery(QueryParamsPath, am.queryParams)
}

// QueryAccountRequest asks for one account by address.
type QueryAccountRequest struct {
	Address sdk.AccAddress `json:"address"`
}

// QueryAccountResponse carries the account in its genesis encoding.
type QueryAccountResponse struct {
	Account json.RawMessage `json:"account"`
}

func (am AppModule) queryAccount(ctx sdkctx.QueryContext, req []byte) ([]byte, error) {
	var request QueryAccountRequest
	if err := json.Unmarshal(req, &request); err != nil {
		return nil, errorsmod.Wrap(sdkerrors.ErrBadRequest, err.Error())
	}

	acc := am.keeper.GetAccount(ctx, request.Address)
	if acc == nil {
		return nil, errorsmod.Wrapf(sdkerrors.ErrAccountNotFound, "%s", request.Address)
	}

	bz, err := types.MarshalAccount(acc)
	if err != nil {
		return nil, err
	}

	return json.Marshal(QueryAccountResponse{Account: bz})
}

func (am AppModule) queryParams(ctx sdkctx.QueryContext, _ []byte) ([]byte, error) {
	return json.Marshal(am.keeper.GetParams(ctx))
}
