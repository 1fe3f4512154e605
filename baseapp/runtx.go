package baseapp

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"

	"github.com/gears-network/gears/store/multi"
	storetypes "github.com/gears-network/gears/store/types"
	"github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
	sdkerrors "github.com/gears-network/gears/types/errors"
	"github.com/gears-network/gears/types/tx"
)

// txResult is the outcome of one tx attempt in any mode.
type txResult struct {
	gasWanted uint64
	gasUsed   uint64
	data      []byte
	events    []types.Event
	priority  int64
	err       error
}

// runTx executes the shared tx path. Modes differ only in which state they
// touch and whether messages run:
//
//	Check/ReCheck: ante only, against the check-mode state copy
//	Deliver:       ante + msgs, merged into the block cache on success
//	Simulate:      ante + msgs, against a throwaway branch
func (app *BaseApp) runTx(mode sdkctx.ExecMode, txBytes []byte) (result txResult) {
	decoded, err := tx.DecodeTx(app.msgRouter.registry, txBytes)
	if err != nil {
		result.err = err
		return result
	}

	result.gasWanted = decoded.AuthInfo.Fee.GasLimit

	var txState *multi.TransactionMultiBank
	switch mode {
	case sdkctx.ExecModeDeliver, sdkctx.ExecModeSimulate:
		txState = app.cms.ToTxKind()
	case sdkctx.ExecModeCheck, sdkctx.ExecModeReCheck:
		txState = app.checkState
	default:
		panic(fmt.Sprintf("invalid tx exec mode %d", mode))
	}

	height := app.cms.LatestVersion() + 1
	if app.header != nil {
		height = app.header.Height
	}

	ctx := sdkctx.NewContext(txState, height, app.chainID, mode, app.logger).
		WithHeader(app.header).
		WithTxBytes(txBytes).
		WithMinGasPrices(app.minGasPrices)
	if app.blockGasMeter != nil {
		ctx = ctx.WithBlockGasMeter(app.blockGasMeter)
	}

	// out-of-block-gas is decided before any execution: a tx whose declared
	// gas cannot fit in the remaining block budget fails outright
	if mode == sdkctx.ExecModeDeliver && app.blockGasMeter != nil {
		if app.blockGasMeter.IsOutOfGas() || app.blockGasMeter.GasRemaining() < result.gasWanted {
			result.err = errorsmod.Wrapf(sdkerrors.ErrOutOfBlockGas,
				"block gas remaining %d, tx gas wanted %d", app.blockGasMeter.GasRemaining(), result.gasWanted)
			return result
		}
	}

	defer func() {
		if r := recover(); r != nil {
			switch rType := r.(type) {
			case storetypes.ErrorOutOfGas:
				result.err = errorsmod.Wrapf(sdkerrors.ErrOutOfGas,
					"out of gas in location: %v; gasWanted: %d, gasUsed: %d",
					rType.Descriptor, result.gasWanted, ctx.GasMeter().GasConsumed())
			case storetypes.ErrorGasOverflow:
				result.err = errorsmod.Wrapf(sdkerrors.ErrGasOverflow, "location: %v", rType.Descriptor)
			default:
				result.err = errorsmod.Wrapf(errorsmod.ErrPanic, "recovered: %v", r)
			}

			result.gasUsed = ctx.GasMeter().GasConsumed()
			txState.TxCachesClear()

			if mode == sdkctx.ExecModeDeliver {
				// keep whatever was upgraded before the panic (ante writes)
				app.cms.ConsumeTxCache(txState)
			}
		}
	}()

	if app.anteHandler != nil {
		anteCtx, err := app.anteHandler(ctx, decoded, mode == sdkctx.ExecModeSimulate)
		if err != nil {
			if anteCtx.GasMeter() != nil {
				ctx = anteCtx
			}
			result.gasUsed = ctx.GasMeter().GasConsumed()
			result.err = err
			txState.TxCachesClear()
			return result
		}

		ctx = anteCtx
		result.priority = ctx.Priority()
	}

	// ante writes (fee deduction, sequence bump) survive message failure
	txState.UpgradeTxCaches()

	if mode == sdkctx.ExecModeCheck || mode == sdkctx.ExecModeReCheck {
		result.gasUsed = ctx.GasMeter().GasConsumed()
		return result
	}

	msgsErr := app.runMsgs(ctx, decoded.GetMsgs(), &result)
	result.gasUsed = ctx.GasMeter().GasConsumed()

	if msgsErr != nil {
		result.err = msgsErr
		result.data = nil
		result.events = nil
		txState.TxCachesClear()
	} else {
		txState.UpgradeTxCaches()
		result.events = ctx.EventManager().Events()
	}

	if mode == sdkctx.ExecModeDeliver {
		// both on success and on message failure the upgraded writes (the
		// ante's at minimum) land in the block cache
		app.cms.ConsumeTxCache(txState)
	}

	return result
}

func (app *BaseApp) runMsgs(ctx sdkctx.Context, msgs []tx.Msg, result *txResult) error {
	for i, msg := range msgs {
		handler, ok := app.msgRouter.handler(msg.TypeURL())
		if !ok {
			// unreachable for decoded txs; the registry and router share keys
			return errorsmod.Wrapf(sdkerrors.ErrUnknownMsg, "%s", msg.TypeURL())
		}

		data, err := handler(ctx, msg)
		if err != nil {
			return errorsmod.Wrapf(err, "failed to execute message; message index: %d", i)
		}

		result.data = data
	}

	return nil
}

// chargeBlockGas books a delivered tx's consumption against the block
// budget, saturating at the limit.
func (app *BaseApp) chargeBlockGas(gasUsed uint64) {
	if app.blockGasMeter == nil {
		return
	}

	defer func() {
		// a tx that exactly exhausts the block keeps the meter consistent;
		// past-limit charges saturate rather than unwind
		_ = recover()
	}()

	app.blockGasMeter.ConsumeGas(gasUsed, "block gas")
}
