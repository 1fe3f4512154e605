package keeper

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"

	"github.com/gears-network/gears/params"
	"github.com/gears-network/gears/store/prefix"
	storetypes "github.com/gears-network/gears/store/types"
	sdk "github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
	"github.com/gears-network/gears/x/gov/types"
)

// Keeper maintains proposals, deposits, votes and the two time-ordered
// queues that drive the proposal lifecycle.
type Keeper struct {
	storeKey storetypes.StoreKey
	subspace params.Subspace
	bk       types.BankKeeper
	sk       types.StakingKeeper
}

func NewKeeper(storeKey storetypes.StoreKey, paramsKeeper params.Keeper, bk types.BankKeeper, sk types.StakingKeeper) Keeper {
	return Keeper{
		storeKey: storeKey,
		subspace: paramsKeeper.Subspace(types.ModuleName),
		bk:       bk,
		sk:       sk,
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx sdkctx.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

var paramsKey = []byte("Params")

func (k Keeper) GetParams(ctx sdkctx.ReadContext) types.Params {
	bz := k.subspace.GetRaw(ctx, paramsKey)
	if bz == nil {
		return types.DefaultParams()
	}

	var p types.Params
	if err := json.Unmarshal(bz, &p); err != nil {
		panic(fmt.Sprintf("corrupt gov params: %v", err))
	}
	return p
}

func (k Keeper) SetParams(ctx sdkctx.Context, p types.Params) {
	bz, err := json.Marshal(p)
	if err != nil {
		panic(err)
	}
	k.subspace.SetRaw(ctx, paramsKey, bz)
}

// nextProposalID returns and advances the proposal counter, starting at 1.
func (k Keeper) nextProposalID(ctx sdkctx.Context) uint64 {
	store := ctx.KVStoreMut(k.storeKey)

	id := uint64(1)
	if bz := store.Get(types.NextProposalIDKey); bz != nil {
		id = binary.BigEndian.Uint64(bz)
	}

	next := make([]byte, 8)
	binary.BigEndian.PutUint64(next, id+1)
	store.Set(types.NextProposalIDKey, next)

	return id
}

// GetProposal returns one proposal by id.
func (k Keeper) GetProposal(ctx sdkctx.ReadContext, id uint64) (types.Proposal, bool) {
	bz := ctx.KVStore(k.storeKey).Get(types.ProposalKey(id))
	if bz == nil {
		return types.Proposal{}, false
	}

	var p types.Proposal
	if err := json.Unmarshal(bz, &p); err != nil {
		panic(fmt.Sprintf("corrupt proposal record: %v", err))
	}
	return p, true
}

func (k Keeper) SetProposal(ctx sdkctx.Context, p types.Proposal) {
	bz, err := json.Marshal(p)
	if err != nil {
		panic(err)
	}
	ctx.KVStoreMut(k.storeKey).Set(types.ProposalKey(p.ID), bz)
}

func (k Keeper) deleteProposal(ctx sdkctx.Context, id uint64) {
	ctx.KVStoreMut(k.storeKey).Delete(types.ProposalKey(id))
}

// IterateProposals walks proposals in id order.
func (k Keeper) IterateProposals(ctx sdkctx.ReadContext, cb func(types.Proposal) bool) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.ProposalsKeyPrefix)

	it := store.Iterator(nil, nil)
	defer it.Close()

	for ; it.Valid(); it.Next() {
		var p types.Proposal
		if err := json.Unmarshal(it.Value(), &p); err != nil {
			panic(fmt.Sprintf("corrupt proposal record: %v", err))
		}
		if cb(p) {
			break
		}
	}
}

// SubmitProposal opens a new proposal in the deposit period and applies the
// initial deposit.
func (k Keeper) SubmitProposal(ctx sdkctx.Context, content types.Content, proposer sdk.AccAddress, initialDeposit sdk.Coins) (uint64, error) {
	p := types.Proposal{
		ID:             k.nextProposalID(ctx),
		Content:        content,
		Status:         types.StatusDepositPeriod,
		SubmitTime:     ctx.BlockTime(),
		DepositEndTime: ctx.BlockTime().Add(k.GetParams(ctx).MaxDepositPeriod),
		TotalDeposit:   sdk.Coins{},
	}

	k.SetProposal(ctx, p)
	ctx.KVStoreMut(k.storeKey).Set(types.InactiveQueueKey(p.DepositEndTime, p.ID), types.ProposalIDBytes(p.ID))

	if !initialDeposit.IsZero() {
		if err := k.AddDeposit(ctx, p.ID, proposer, initialDeposit); err != nil {
			return 0, err
		}
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent("submit_proposal",
		sdk.NewAttribute("proposal_id", fmt.Sprintf("%d", p.ID)),
		sdk.NewAttribute("proposer", proposer.String()),
	))

	return p.ID, nil
}

// AddDeposit moves coins into the gov module account and, once the total
// reaches MinDeposit, starts the voting period.
func (k Keeper) AddDeposit(ctx sdkctx.Context, proposalID uint64, depositor sdk.AccAddress, amount sdk.Coins) error {
	p, found := k.GetProposal(ctx, proposalID)
	if !found {
		return errorsmod.Wrapf(types.ErrUnknownProposal, "%d", proposalID)
	}
	if p.Status != types.StatusDepositPeriod && p.Status != types.StatusVotingPeriod {
		return errorsmod.Wrapf(types.ErrInactiveProposal, "%d", proposalID)
	}

	if err := k.bk.SendCoinsFromAccountToModule(ctx, depositor, types.ModuleName, amount); err != nil {
		return err
	}

	deposit, _ := k.GetDeposit(ctx, proposalID, depositor)
	deposit.ProposalID = proposalID
	deposit.Depositor = depositor
	deposit.Amount = deposit.Amount.Add(amount...)
	k.setDeposit(ctx, deposit)

	p.TotalDeposit = p.TotalDeposit.Add(amount...)

	if p.Status == types.StatusDepositPeriod && p.TotalDeposit.IsAllGTE(k.GetParams(ctx).MinDeposit) {
		k.activateVotingPeriod(ctx, &p)
	}

	k.SetProposal(ctx, p)

	ctx.EventManager().EmitEvent(sdk.NewEvent("proposal_deposit",
		sdk.NewAttribute("proposal_id", fmt.Sprintf("%d", proposalID)),
		sdk.NewAttribute("depositor", depositor.String()),
		sdk.NewAttribute("amount", amount.String()),
	))

	return nil
}

func (k Keeper) activateVotingPeriod(ctx sdkctx.Context, p *types.Proposal) {
	store := ctx.KVStoreMut(k.storeKey)

	store.Delete(types.InactiveQueueKey(p.DepositEndTime, p.ID))

	p.Status = types.StatusVotingPeriod
	p.VotingStartTime = ctx.BlockTime()
	p.VotingEndTime = ctx.BlockTime().Add(k.GetParams(ctx).VotingPeriod)

	store.Set(types.ActiveQueueKey(p.VotingEndTime, p.ID), types.ProposalIDBytes(p.ID))
}

// GetDeposit returns one depositor's deposit on a proposal.
func (k Keeper) GetDeposit(ctx sdkctx.ReadContext, proposalID uint64, depositor sdk.AccAddress) (types.Deposit, bool) {
	bz := ctx.KVStore(k.storeKey).Get(types.DepositKey(proposalID, depositor))
	if bz == nil {
		return types.Deposit{Amount: sdk.Coins{}}, false
	}

	var d types.Deposit
	if err := json.Unmarshal(bz, &d); err != nil {
		panic(fmt.Sprintf("corrupt deposit record: %v", err))
	}
	return d, true
}

func (k Keeper) setDeposit(ctx sdkctx.Context, d types.Deposit) {
	bz, err := json.Marshal(d)
	if err != nil {
		panic(err)
	}
	ctx.KVStoreMut(k.storeKey).Set(types.DepositKey(d.ProposalID, d.Depositor), bz)
}

// IterateDeposits walks one proposal's deposits.
func (k Keeper) IterateDeposits(ctx sdkctx.ReadContext, proposalID uint64, cb func(types.Deposit) bool) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.DepositsPrefix(proposalID))

	it := store.Iterator(nil, nil)
	defer it.Close()

	for ; it.Valid(); it.Next() {
		var d types.Deposit
		if err := json.Unmarshal(it.Value(), &d); err != nil {
			panic(fmt.Sprintf("corrupt deposit record: %v", err))
		}
		if cb(d) {
			break
		}
	}
}

// AddVote records a vote during the voting period. Re-voting overwrites.
func (k Keeper) AddVote(ctx sdkctx.Context, proposalID uint64, voter sdk.AccAddress, option string) error {
	p, found := k.GetProposal(ctx, proposalID)
	if !found {
		return errorsmod.Wrapf(types.ErrUnknownProposal, "%d", proposalID)
	}
	if p.Status != types.StatusVotingPeriod {
		return errorsmod.Wrapf(types.ErrInactiveProposal, "proposal %d is not in voting period", proposalID)
	}

	if !k.sk.GetDelegatorBonded(ctx, voter).IsPositive() {
		return errorsmod.Wrapf(types.ErrNoVotingPower, "%s", voter)
	}

	vote := types.Vote{ProposalID: proposalID, Voter: voter, Option: option}
	bz, err := json.Marshal(vote)
	if err != nil {
		panic(err)
	}
	ctx.KVStoreMut(k.storeKey).Set(types.VoteKey(proposalID, voter), bz)

	ctx.EventManager().EmitEvent(sdk.NewEvent("proposal_vote",
		sdk.NewAttribute("proposal_id", fmt.Sprintf("%d", proposalID)),
		sdk.NewAttribute("voter", voter.String()),
		sdk.NewAttribute("option", option),
	))

	return nil
}

// IterateVotes walks one proposal's votes in voter order.
func (k Keeper) IterateVotes(ctx sdkctx.ReadContext, proposalID uint64, cb func(types.Vote) bool) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.VotesPrefix(proposalID))

	it := store.Iterator(nil, nil)
	defer it.Close()

	for ; it.Valid(); it.Next() {
		var v types.Vote
		if err := json.Unmarshal(it.Value(), &v); err != nil {
			panic(fmt.Sprintf("corrupt vote record: %v", err))
		}
		if cb(v) {
			break
		}
	}
}
