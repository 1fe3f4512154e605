package keeper

import (
	"encoding/binary"
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/gears-network/gears/store/prefix"
	sdk "github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
	"github.com/gears-network/gears/x/gov/types"
)

// EndBlocker drains both queues: proposals whose deposit period expired are
// dropped with their deposits burned; proposals whose voting period ended
// are tallied.
func (k Keeper) EndBlocker(ctx sdkctx.Context) error {
	now := ctx.BlockTime()

	for _, id := range k.drainQueue(ctx, types.InactiveQueuePrefix, now) {
		p, found := k.GetProposal(ctx, id)
		if !found || p.Status != types.StatusDepositPeriod {
			continue
		}

		if err := k.burnDeposits(ctx, id); err != nil {
			return err
		}
		k.deleteProposal(ctx, id)

		k.Logger(ctx).Info("proposal dropped, deposit period expired", "proposal", id)
		ctx.EventManager().EmitEvent(sdk.NewEvent("inactive_proposal",
			sdk.NewAttribute("proposal_id", fmt.Sprintf("%d", id)),
			sdk.NewAttribute("proposal_result", "proposal_dropped"),
		))
	}

	for _, id := range k.drainQueue(ctx, types.ActiveQueuePrefix, now) {
		p, found := k.GetProposal(ctx, id)
		if !found || p.Status != types.StatusVotingPeriod {
			continue
		}

		passed, vetoed, tally := k.Tally(ctx, id)

		switch {
		case vetoed:
			p.Status = types.StatusFailed
			if err := k.burnDeposits(ctx, id); err != nil {
				return err
			}
		case passed:
			p.Status = types.StatusPassed
			if err := k.refundDeposits(ctx, id); err != nil {
				return err
			}
		default:
			p.Status = types.StatusRejected
			if err := k.refundDeposits(ctx, id); err != nil {
				return err
			}
		}

		k.SetProposal(ctx, p)

		k.Logger(ctx).Info("proposal tallied", "proposal", id, "status", p.Status)
		ctx.EventManager().EmitEvent(sdk.NewEvent("active_proposal",
			sdk.NewAttribute("proposal_id", fmt.Sprintf("%d", id)),
			sdk.NewAttribute("proposal_result", p.Status),
			sdk.NewAttribute("tally_yes", tally.Yes),
			sdk.NewAttribute("tally_no", tally.No),
		))
	}

	return nil
}

// drainQueue collects and removes every queue entry due at or before now.
func (k Keeper) drainQueue(ctx sdkctx.Context, queuePrefix []byte, now time.Time) []uint64 {
	store := ctx.KVStoreMut(k.storeKey)
	queue := prefix.NewStoreMut(store, queuePrefix)

	endBound := types.QueueEndBound(nil, now)

	var (
		ids  []uint64
		keys [][]byte
	)

	it := queue.Iterator(nil, endBound)
	for ; it.Valid(); it.Next() {
		ids = append(ids, binary.BigEndian.Uint64(it.Value()))
		keys = append(keys, append([]byte{}, it.Key()...))
	}
	it.Close()

	for _, key := range keys {
		queue.Delete(key)
	}

	return ids
}

// Tally counts votes weighted by the voter's bonded tokens at tally time.
func (k Keeper) Tally(ctx sdkctx.Context, proposalID uint64) (passed, vetoed bool, tally types.TallyResult) {
	params := k.GetParams(ctx)

	yes, no, abstain, veto := sdkmath.ZeroInt(), sdkmath.ZeroInt(), sdkmath.ZeroInt(), sdkmath.ZeroInt()

	k.IterateVotes(ctx, proposalID, func(vote types.Vote) bool {
		power := k.sk.GetDelegatorBonded(ctx, vote.Voter)
		if !power.IsPositive() {
			return false
		}

		switch vote.Option {
		case types.OptionYes:
			yes = yes.Add(power)
		case types.OptionNo:
			no = no.Add(power)
		case types.OptionAbstain:
			abstain = abstain.Add(power)
		case types.OptionNoWithVeto:
			veto = veto.Add(power)
		}
		return false
	})

	tally = types.TallyResult{
		Yes:        yes.String(),
		Abstain:    abstain.String(),
		No:         no.String(),
		NoWithVeto: veto.String(),
	}

	totalBonded := k.sk.TotalBondedTokens(ctx)
	if !totalBonded.IsPositive() {
		return false, false, tally
	}

	totalVotes := yes.Add(no).Add(abstain).Add(veto)

	// quorum: voted / bonded >= quorum
	if totalVotes.MulRaw(10_000).LT(totalBonded.Mul(sdkmath.NewInt(params.QuorumBps))) {
		return false, false, tally
	}

	nonAbstain := yes.Add(no).Add(veto)
	if !nonAbstain.IsPositive() {
		return false, false, tally
	}

	// veto: veto / voted > veto threshold
	if veto.MulRaw(10_000).GT(totalVotes.Mul(sdkmath.NewInt(params.VetoThresholdBps))) {
		return false, true, tally
	}

	// threshold: yes / (voted - abstain) > threshold
	if yes.MulRaw(10_000).GT(nonAbstain.Mul(sdkmath.NewInt(params.ThresholdBps))) {
		return true, false, tally
	}

	return false, false, tally
}

func (k Keeper) refundDeposits(ctx sdkctx.Context, proposalID uint64) error {
	return k.clearDeposits(ctx, proposalID, true)
}

func (k Keeper) burnDeposits(ctx sdkctx.Context, proposalID uint64) error {
	return k.clearDeposits(ctx, proposalID, false)
}

func (k Keeper) clearDeposits(ctx sdkctx.Context, proposalID uint64, refund bool) error {
	var deposits []types.Deposit
	k.IterateDeposits(ctx, proposalID, func(d types.Deposit) bool {
		deposits = append(deposits, d)
		return false
	})

	store := ctx.KVStoreMut(k.storeKey)
	for _, d := range deposits {
		if refund {
			if err := k.bk.SendCoinsFromModuleToAccount(ctx, types.ModuleName, d.Depositor, d.Amount); err != nil {
				return err
			}
		} else if err := k.bk.BurnCoins(ctx, types.ModuleName, d.Amount); err != nil {
			return err
		}

		store.Delete(types.DepositKey(proposalID, d.Depositor))
	}

	return nil
}
