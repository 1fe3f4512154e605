package gov

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	abci "github.com/cometbft/cometbft/abci/types"

	"github.com/gears-network/gears/module"
	sdkctx "github.com/gears-network/gears/types/context"
	sdkerrors "github.com/gears-network/gears/types/errors"
	"github.com/gears-network/gears/types/tx"
	"github.com/gears-network/gears/x/gov/keeper"
	"github.com/gears-network/gears/x/gov/types"
)

// Query paths served by the module.
const (
	QueryProposalPath  = "/gov/proposal"
	QueryProposalsPath = "/gov/proposals"
	QueryVotePath      = "/gov/vote"
	QueryParamsPath    = "/gov/params"
)

// AppModule implements the gov module. Its end-block drains the deposit and
// voting queues.
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

func (am AppModule) EndBlock(ctx sdkctx.Context) ([]abci.ValidatorUpdate, error) {
	return nil, am.keeper.EndBlocker(ctx)
}

func (am AppModule) RegisterMsgHandlers(router module.MsgRouter) {
	router.RegisterHandler(types.MsgSubmitProposalURL, types.UnmarshalMsgSubmitProposal, am.handleSubmitProposal)
	router.RegisterHandler(types.MsgDepositURL, types.UnmarshalMsgDeposit, am.handleDeposit)
	router.RegisterHandler(types.MsgVoteURL, types.UnmarshalMsgVote, am.handleVote)
}

func (am AppModule) handleSubmitProposal(ctx sdkctx.Context, msg tx.Msg) ([]byte, error) {
	submit := msg.(types.MsgSubmitProposal)

	id, err := am.keeper.SubmitProposal(ctx, submit.Content, submit.Proposer, submit.InitialDeposit)
	if err != nil {
		return nil, err
	}

	return json.Marshal(struct {
		ProposalID uint64 `json:"proposal_id,string"`
	}{ProposalID: id})
}

func (am AppModule) handleDeposit(ctx sdkctx.Context, msg tx.Msg) ([]byte, error) {
	deposit := msg.(types.MsgDeposit)
	return nil, am.keeper.AddDeposit(ctx, deposit.ProposalID, deposit.Depositor, deposit.Amount)
}

func (am AppModule) handleVote(ctx sdkctx.Context, msg tx.Msg) ([]byte, error) {
	vote := msg.(types.MsgVote)
	return nil, am.keeper.AddVote(ctx, vote.ProposalID, vote.Voter, vote.Option)
}

func (am AppModule) RegisterQueryHandlers(router module.QueryRouter) {
	router.RegisterQuery(QueryProposalPath, am.queryProposal)
	router.RegisterQuery(QueryProposalsPath, am.queryProposals)
	router.RegisterQuery(QueryVotePath, am.queryVote)
	router.RegisterQuery(QueryParamsPath, am.queryParams)
}

// QueryProposalRequest asks for one proposal by id.
type QueryProposalRequest struct {
	ProposalID uint64 `json:"proposal_id,string"`
}

func (am AppModule) queryProposal(ctx sdkctx.QueryContext, req []byte) ([]byte, error) {
	var request QueryProposalRequest
	if err := json.Unmarshal(req, &request); err != nil {
		return nil, errorsmod.Wrap(sdkerrors.ErrBadRequest, err.Error())
	}

	p, found := am.keeper.GetProposal(ctx, request.ProposalID)
	if !found {
		return nil, errorsmod.Wrapf(types.ErrUnknownProposal, "%d", request.ProposalID)
	}

	return json.Marshal(p)
}

func (am AppModule) queryProposals(ctx sdkctx.QueryContext, _ []byte) ([]byte, error) {
	proposals := []types.Proposal{}
	am.keeper.IterateProposals(ctx, func(p types.Proposal) bool {
		proposals = append(proposals, p)
		return false
	})

	return json.Marshal(struct {
		Proposals []types.Proposal `json:"proposals"`
	}{Proposals: proposals})
}

// QueryVoteRequest asks for one (proposal, voter) vote.
type QueryVoteRequest struct {
	ProposalID uint64 `json:"proposal_id,string"`
	Voter      string `json:"voter"`
}

func (am AppModule) queryVote(ctx sdkctx.QueryContext, req []byte) ([]byte, error) {
	var request QueryVoteRequest
	if err := json.Unmarshal(req, &request); err != nil {
		return nil, errorsmod.Wrap(sdkerrors.ErrBadRequest, err.Error())
	}

	var found *types.Vote
	am.keeper.IterateVotes(ctx, request.ProposalID, func(v types.Vote) bool {
		if v.Voter.String() == request.Voter {
			found = &v
			return true
		}
		return false
	})

	if found == nil {
		return nil, errorsmod.Wrapf(sdkerrors.ErrBadRequest, "no vote by %s on proposal %d", request.Voter, request.ProposalID)
	}

	return json.Marshal(found)
}

func (am AppModule) queryParams(ctx sdkctx.QueryContext, _ []byte) ([]byte, error) {
	return json.Marshal(am.keeper.GetParams(ctx))
}
