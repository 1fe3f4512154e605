package bank

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	abci "github.com/cometbft/cometbft/abci/types"

	"github.com/gears-network/gears/module"
	sdk "github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
	sdkerrors "github.com/gears-network/gears/types/errors"
	"github.com/gears-network/gears/x/bank/keeper"
	"github.com/gears-network/gears/x/bank/types"
)

// Query paths served by the module.
const (
	QueryBalancePath       = "/bank/balance"
	QueryAllBalancesPath   = "/bank/all_balances"
	QueryTotalSupplyPath   = "/bank/total_supply"
	QueryDenomMetadataPath = "/bank/denom_metadata"
)

// AppModule implements the bank module.
type AppModule struct {
	keeper keeper.Keeper
}

var (
	_ module.AppModule        = AppModule{}
	_ module.HasMsgHandlers   = AppModule{}
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

func (am AppModule) RegisterMsgHandlers(router module.MsgRouter) {
	router.RegisterHandler(types.MsgSendURL, types.UnmarshalMsgSend, am.keeper.HandleMsgSend)
	router.RegisterHandler(types.MsgMultiSendURL, types.UnmarshalMsgMultiSend, am.keeper.HandleMsgMultiSend)
}

func (am AppModule) RegisterQueryHandlers(router module.QueryRouter) {
	router.RegisterQuery(QueryBalancePath, am.queryBalance)
	router.RegisterQuery(QueryAllBalancesPath, am.queryAllBalances)
	router.RegisterQuery(QueryTotalSupplyPath, am.queryTotalSupply)
	router.RegisterQuery(QueryDenomMetadataPath, am.queryDenomMetadata)
}

// QueryBalanceRequest asks for one (address, denom) balance.
type QueryBalanceRequest struct {
	Address sdk.AccAddress `json:"address"`
	Denom   string         `json:"denom"`
}

// QueryBalanceResponse returns the balance, zero if the account holds none.
type QueryBalanceResponse struct {
	Balance sdk.Coin `json:"balance"`
}

func (am AppModule) queryBalance(ctx sdkctx.QueryContext, req []byte) ([]byte, error) {
	var request QueryBalanceRequest
	if err := json.Unmarshal(req, &request); err != nil {
		return nil, errorsmod.Wrap(sdkerrors.ErrBadRequest, err.Error())
	}
	if err := sdk.ValidateDenom(request.Denom); err != nil {
		return nil, errorsmod.Wrap(sdkerrors.ErrBadRequest, err.Error())
	}

	balance := am.keeper.GetBalance(ctx, request.Address, request.Denom)
	return json.Marshal(QueryBalanceResponse{Balance: balance})
}

// QueryAllBalancesRequest asks for every denom an account holds.
type QueryAllBalancesRequest struct {
	Address sdk.AccAddress `json:"address"`
}

type QueryAllBalancesResponse struct {
	Balances sdk.Coins `json:"balances"`
}

func (am AppModule) queryAllBalances(ctx sdkctx.QueryContext, req []byte) ([]byte, error) {
	var request QueryAllBalancesRequest
	if err := json.Unmarshal(req, &request); err != nil {
		return nil, errorsmod.Wrap(sdkerrors.ErrBadRequest, err.Error())
	}

	balances := am.keeper.GetAllBalances(ctx, request.Address)
	return json.Marshal(QueryAllBalancesResponse{Balances: balances})
}

type QueryTotalSupplyResponse struct {
	Supply sdk.Coins `json:"supply"`
}

func (am AppModule) queryTotalSupply(ctx sdkctx.QueryContext, _ []byte) ([]byte, error) {
	return json.Marshal(QueryTotalSupplyResponse{Supply: am.keeper.GetTotalSupply(ctx)})
}

// QueryDenomMetadataRequest asks for one denom's metadata.
type QueryDenomMetadataRequest struct {
	Denom string `json:"denom"`
}

type QueryDenomMetadataResponse struct {
	Metadata types.Metadata `json:"metadata"`
}

func (am AppModule) queryDenomMetadata(ctx sdkctx.QueryContext, req []byte) ([]byte, error) {
	var request QueryDenomMetadataRequest
	if err := json.Unmarshal(req, &request); err != nil {
		return nil, errorsmod.Wrap(sdkerrors.ErrBadRequest, err.Error())
	}

	meta, ok := am.keeper.GetDenomMetadata(ctx, request.Denom)
	if !ok {
		return nil, errorsmod.Wrapf(sdkerrors.ErrBadRequest, "no metadata for denom %q", request.Denom)
	}

	return json.Marshal(QueryDenomMetadataResponse{Metadata: meta})
}
