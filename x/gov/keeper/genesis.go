package keeper

import (
	"encoding/binary"

	sdkctx "github.com/gears-network/gears/types/context"
	"github.com/gears-network/gears/x/gov/types"
)

// InitGenesis restores proposals and their queue entries, deposits and
// votes.
func (k Keeper) InitGenesis(ctx sdkctx.Context, genesis types.GenesisState) {
	k.SetParams(ctx, genesis.Params)

	store := ctx.KVStoreMut(k.storeKey)

	if genesis.StartingProposalID > 0 {
		bz := make([]byte, 8)
		binary.BigEndian.PutUint64(bz, genesis.StartingProposalID)
		store.Set(types.NextProposalIDKey, bz)
	}

	for _, p := range genesis.Proposals {
		k.SetProposal(ctx, p)

		switch p.Status {
		case types.StatusDepositPeriod:
			store.Set(types.InactiveQueueKey(p.DepositEndTime, p.ID), types.ProposalIDBytes(p.ID))
		case types.StatusVotingPeriod:
			store.Set(types.ActiveQueueKey(p.VotingEndTime, p.ID), types.ProposalIDBytes(p.ID))
		}
	}

	for _, d := range genesis.Deposits {
		k.setDeposit(ctx, d)
	}

	for _, v := range genesis.Votes {
		bz := marshalJSON(v)
		store.Set(types.VoteKey(v.ProposalID, v.Voter), bz)
	}
}

// ExportGenesis reads the gov state back out.
func (k Keeper) ExportGenesis(ctx sdkctx.Context) types.GenesisState {
	genesis := types.GenesisState{
		Params:    k.GetParams(ctx),
		Proposals: []types.Proposal{},
		Deposits:  []types.Deposit{},
		Votes:     []types.Vote{},
	}

	if bz := ctx.KVStore(k.storeKey).Get(types.NextProposalIDKey); bz != nil {
		genesis.StartingProposalID = binary.BigEndian.Uint64(bz)
	}

	k.IterateProposals(ctx, func(p types.Proposal) bool {
		genesis.Proposals = append(genesis.Proposals, p)

		k.IterateDeposits(ctx, p.ID, func(d types.Deposit) bool {
			genesis.Deposits = append(genesis.Deposits, d)
			return false
		})
		k.IterateVotes(ctx, p.ID, func(v types.Vote) bool {
			genesis.Votes = append(genesis.Votes, v)
			return false
		})

		return false
	})

	return genesis
}
