package staking

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	abci "github.com/cometbft/cometbft/abci/types"

	"github.com/gears-network/gears/module"
	sdk "github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
	sdkerrors "github.com/gears-network/gears/types/errors"
	"github.com/gears-network/gears/types/tx"
	"github.com/gears-network/gears/x/staking/keeper"
	"github.com/gears-network/gears/x/staking/types"
)

// Query paths served by the module.
const (
	QueryValidatorPath  = "/staking/validator"
	QueryValidatorsPath = "/staking/validators"
	QueryDelegationPath = "/staking/delegation"
	QueryParamsPath     = "/staking/params"
)

// AppModule implements the staking module. Its end-block drains mature
// unbonding entries and reports validator power changes to consensus.
type AppModule struct {
	keeper keeper.Keeper
}

var (
	_ module.AppModule        = AppModule{}
	_ module.HasMsgHandlers   = AppModule{}
	_ module.HasQueryHandlers = AppModule{}
	_ module.HasEndBlocker    = AppModule{}
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

	return am.keeper.InitGenesis(ctx, genesis)
}

func (am AppModule) ExportGenesis(ctx sdkctx.Context) json.RawMessage {
	bz, err := json.Marshal(am.keeper.ExportGenesis(ctx))
	if err != nil {
		panic(err)
	}
	return bz
}

// EndBlock completes mature unbondings and returns power updates.
func (am AppModule) EndBlock(ctx sdkctx.Context) ([]abci.ValidatorUpdate, error) {
	if err := am.keeper.CompleteMatureUnbondings(ctx); err != nil {
		return nil, err
	}

	return am.keeper.ValidatorUpdates(ctx)
}

func (am AppModule) RegisterMsgHandlers(router module.MsgRouter) {
	router.RegisterHandler(types.MsgCreateValidatorURL, types.UnmarshalMsgCreateValidator, am.handleCreateValidator)
	router.RegisterHandler(types.MsgDelegateURL, types.UnmarshalMsgDelegate, am.handleDelegate)
	router.RegisterHandler(types.MsgUndelegateURL, types.UnmarshalMsgUndelegate, am.handleUndelegate)
}

func (am AppModule) handleCreateValidator(ctx sdkctx.Context, msg tx.Msg) ([]byte, error) {
	create := msg.(types.MsgCreateValidator)

	if _, found := am.keeper.GetValidator(ctx, create.ValidatorAddress); found {
		return nil, errorsmod.Wrapf(types.ErrValidatorExists, "%s", create.ValidatorAddress)
	}

	am.keeper.SetValidator(ctx, types.Validator{
		OperatorAddress: create.ValidatorAddress,
		ConsensusPubKey: create.Pubkey,
		Status:          types.Unbonded,
		Tokens:          sdkZeroInt(),
		Moniker:         create.Moniker,
	})

	err := am.keeper.Delegate(ctx, sdk.AccAddress(create.ValidatorAddress), create.ValidatorAddress, create.Value)
	if err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent("create_validator",
		sdk.NewAttribute("validator", create.ValidatorAddress.String()),
		sdk.NewAttribute("amount", create.Value.String()),
	))

	return nil, nil
}

func (am AppModule) handleDelegate(ctx sdkctx.Context, msg tx.Msg) ([]byte, error) {
	delegate := msg.(types.MsgDelegate)
	return nil, am.keeper.Delegate(ctx, delegate.DelegatorAddress, delegate.ValidatorAddress, delegate.Amount)
}

func (am AppModule) handleUndelegate(ctx sdkctx.Context, msg tx.Msg) ([]byte, error) {
	undelegate := msg.(types.MsgUndelegate)

	completion, err := am.keeper.Undelegate(ctx, undelegate.DelegatorAddress, undelegate.ValidatorAddress, undelegate.Amount)
	if err != nil {
		return nil, err
	}

	bz, err := json.Marshal(struct {
		CompletionTime string `json:"completion_time"`
	}{CompletionTime: completion.UTC().Format("2006-01-02T15:04:05Z07:00")})
	return bz, err
}

func (am AppModule) RegisterQueryHandlers(router module.QueryRouter) {
	router.RegisterQuery(QueryValidatorPath, am.queryValidator)
	router.RegisterQuery(QueryValidatorsPath, am.queryValidators)
	router.RegisterQuery(QueryDelegationPath, am.queryDelegation)
	router.RegisterQuery(QueryParamsPath, am.queryParams)
}

// QueryValidatorRequest asks for one validator by operator address.
type QueryValidatorRequest struct {
	ValidatorAddress sdk.ValAddress `json:"validator_address"`
}

func (am AppModule) queryValidator(ctx sdkctx.QueryContext, req []byte) ([]byte, error) {
	var request QueryValidatorRequest
	if err := json.Unmarshal(req, &request); err != nil {
		return nil, errorsmod.Wrap(sdkerrors.ErrBadRequest, err.Error())
	}

	v, found := am.keeper.GetValidator(ctx, request.ValidatorAddress)
	if !found {
		return nil, errorsmod.Wrapf(types.ErrNoValidatorFound, "%s", request.ValidatorAddress)
	}

	return json.Marshal(v)
}

func (am AppModule) queryValidators(ctx sdkctx.QueryContext, _ []byte) ([]byte, error) {
	validators := []types.Validator{}
	am.keeper.IterateValidators(ctx, func(v types.Validator) bool {
		validators = append(validators, v)
		return false
	})

	return json.Marshal(struct {
		Validators []types.Validator `json:"validators"`
	}{Validators: validators})
}

// QueryDelegationRequest asks for one (delegator, validator) delegation.
type QueryDelegationRequest struct {
	DelegatorAddress sdk.AccAddress `json:"delegator_address"`
	ValidatorAddress sdk.ValAddress `json:"validator_address"`
}

func (am AppModule) queryDelegation(ctx sdkctx.QueryContext, req []byte) ([]byte, error) {
	var request QueryDelegationRequest
	if err := json.Unmarshal(req, &request); err != nil {
		return nil, errorsmod.Wrap(sdkerrors.ErrBadRequest, err.Error())
	}

	d, found := am.keeper.GetDelegation(ctx, request.DelegatorAddress, request.ValidatorAddress)
	if !found {
		return nil, types.ErrNoDelegation
	}

	return json.Marshal(d)
}

func (am AppModule) queryParams(ctx sdkctx.QueryContext, _ []byte) ([]byte, error) {
	return json.Marshal(am.keeper.GetParams(ctx))
}
