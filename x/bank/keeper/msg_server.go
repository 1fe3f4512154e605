package keeper

import (
	errorsmod "cosmossdk.io/errors"

	sdkctx "github.com/gears-network/gears/types/context"
	"github.com/gears-network/gears/types/tx"
	"github.com/gears-network/gears/x/bank/types"
)

// HandleMsgSend executes a MsgSend.
func (k Keeper) HandleMsgSend(ctx sdkctx.Context, msg tx.Msg) ([]byte, error) {
	send, ok := msg.(types.MsgSend)
	if !ok {
		panic("mis-routed message")
	}

	if !k.GetParams(ctx).SendEnabled {
		return nil, types.ErrSendDisabled
	}

	if k.BlockedAddr(ctx, send.ToAddress) {
		return nil, errorsmod.Wrapf(types.ErrBlockedRecipient, "%s", send.ToAddress)
	}

	if err := k.SendCoins(ctx, send.FromAddress, send.ToAddress, send.Amount); err != nil {
		return nil, err
	}

	return nil, nil
}

// HandleMsgMultiSend executes a MsgMultiSend: all debits first, then all
// credits.
func (k Keeper) HandleMsgMultiSend(ctx sdkctx.Context, msg tx.Msg) ([]byte, error) {
	multi, ok := msg.(types.MsgMultiSend)
	if !ok {
		panic("mis-routed message")
	}

	if !k.GetParams(ctx).SendEnabled {
		return nil, types.ErrSendDisabled
	}

	for _, out := range multi.Outputs {
		if k.BlockedAddr(ctx, out.Address) {
			return nil, errorsmod.Wrapf(types.ErrBlockedRecipient, "%s", out.Address)
		}
	}

	for _, in := range multi.Inputs {
		if err := k.subUnlockedCoins(ctx, in.Address, in.Coins); err != nil {
			return nil, err
		}
	}

	for _, out := range multi.Outputs {
		k.addCoins(ctx, out.Address, out.Coins)

		if len(multi.Inputs) == 1 {
			ctx.EventManager().EmitEvent(types.NewTransferEvent(out.Address, multi.Inputs[0].Address, out.Coins))
		}
	}

	return nil, nil
}
