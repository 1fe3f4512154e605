package ante

import (
	errorsmod "cosmossdk.io/errors"

	storetypes "github.com/gears-network/gears/store/types"
	sdk "github.com/gears-network/gears/types"
	sdkctx "github.com/gears-network/gears/types/context"
	sdkerrors "github.com/gears-network/gears/types/errors"
	"github.com/gears-network/gears/types/tx"
	authkeeper "github.com/gears-network/gears/x/auth/keeper"
	"github.com/gears-network/gears/x/auth/types"
)

// BankKeeper is the slice of x/bank the fee deduction needs.
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx sdkctx.Context, from sdk.AccAddress, toModule string, amount sdk.Coins) error
}

// NewAnteHandler chains the standard checks in their canonical order: gas
// meter setup, basic tx validity, timeout height, signature verification
// (existence, sequence, signature), fee deduction, sequence increment.
func NewAnteHandler(ak authkeeper.Keeper, bk BankKeeper) tx.AnteHandler {
	return tx.ChainAnteDecorators(
		SetUpContextDecorator{},
		ValidateBasicDecorator{ak: ak},
		TxTimeoutHeightDecorator{},
		SigVerificationDecorator{ak: ak},
		DeductFeeDecorator{ak: ak, bk: bk},
		IncrementSequenceDecorator{ak: ak},
	)
}

// SetUpContextDecorator installs the tx gas meter from the declared gas
// limit so every later store access is metered against it.
type SetUpContextDecorator struct{}

func (d SetUpContextDecorator) AnteHandle(ctx sdkctx.Context, t *tx.Tx, simulate bool, next tx.AnteHandler) (sdkctx.Context, error) {
	gasLimit := t.AuthInfo.Fee.GasLimit

	if simulate || gasLimit == 0 {
		ctx = ctx.WithGasMeter(storetypes.NewInfiniteGasMeter())
	} else {
		ctx = ctx.WithGasMeter(storetypes.NewGasMeter(gasLimit))
	}

	return next(ctx, t, simulate)
}

// ValidateBasicDecorator enforces the stateless bounds: memo length, raw tx
// size (charged per byte), signature count, and the unsupported granter.
type ValidateBasicDecorator struct {
	ak authkeeper.Keeper
}

func (d ValidateBasicDecorator) AnteHandle(ctx sdkctx.Context, t *tx.Tx, simulate bool, next tx.AnteHandler) (sdkctx.Context, error) {
	if ctx.IsReCheckTx() {
		return next(ctx, t, simulate)
	}

	params := d.ak.GetParams(ctx)

	if uint64(len(t.Body.Memo)) > params.MaxMemoCharacters {
		return ctx, errorsmod.Wrapf(sdkerrors.ErrMemoTooLarge,
			"memo length %d exceeds max %d", len(t.Body.Memo), params.MaxMemoCharacters)
	}

	if len(t.TxBytes) > types.MaxTxBytes {
		return ctx, errorsmod.Wrapf(sdkerrors.ErrTxTooLarge, "tx size %d bytes", len(t.TxBytes))
	}
	ctx.GasMeter().ConsumeGas(params.TxSizeCostPerByte*storetypes.Gas(len(t.TxBytes)), "txSize")

	if uint64(len(t.AuthInfo.SignerInfos)) > params.TxSigLimit {
		return ctx, errorsmod.Wrapf(sdkerrors.ErrTooManySignatures,
			"signatures: %d, limit: %d", len(t.AuthInfo.SignerInfos), params.TxSigLimit)
	}

	if t.AuthInfo.Fee.Granter != "" {
		return ctx, errorsmod.Wrap(sdkerrors.ErrTxValidation, "fee grants are not supported")
	}

	return next(ctx, t, simulate)
}

// TxTimeoutHeightDecorator rejects txs whose timeout height has passed.
type TxTimeoutHeightDecorator struct{}

func (d TxTimeoutHeightDecorator) AnteHandle(ctx sdkctx.Context, t *tx.Tx, simulate bool, next tx.AnteHandler) (sdkctx.Context, error) {
	timeout := t.Body.TimeoutHeight
	if timeout > 0 && timeout < uint64(ctx.Height()) {
		return ctx, errorsmod.Wrapf(sdkerrors.ErrTxTimeout,
			"timeout height %d, current height %d", timeout, ctx.Height())
	}

	return next(ctx, t, simulate)
}

// SigVerificationDecorator checks, per signer: the account exists, the
// declared sequence matches, and the signature verifies against the
// reconstructed sign doc. The first signature also fixes the account's
// public key.
type SigVerificationDecorator struct {
	ak authkeeper.Keeper
}

func (d SigVerificationDecorator) AnteHandle(ctx sdkctx.Context, t *tx.Tx, simulate bool, next tx.AnteHandler) (sdkctx.Context, error) {
	signers := t.GetSigners()
	params := d.ak.GetParams(ctx)

	if len(signers) != len(t.AuthInfo.SignerInfos) {
		return ctx, errorsmod.Wrapf(sdkerrors.ErrTxValidation,
			"expected %d signer infos, got %d", len(signers), len(t.AuthInfo.SignerInfos))
	}

	for i, addr := range signers {
		si := t.AuthInfo.SignerInfos[i]

		acc := d.ak.GetAccount(ctx, addr)
		if acc == nil {
			return ctx, errorsmod.Wrapf(sdkerrors.ErrAccountNotFound, "%s", addr)
		}

		if si.Sequence != acc.GetSequence() {
			return ctx, errorsmod.Wrapf(sdkerrors.ErrSequenceMismatch,
				"expected %d, got %d", acc.GetSequence(), si.Sequence)
		}

		pubKey := acc.GetPubKey()
		if pubKey == nil {
			pubKey = si.PubKey
			if pubKey == nil {
				return ctx, errorsmod.Wrap(sdkerrors.ErrSignatureVerification, "pubkey on account is not set")
			}
			if !pubKey.Address().Equals(addr) {
				return ctx, errorsmod.Wrapf(sdkerrors.ErrSignatureVerification,
					"pubkey does not match signer address %s", addr)
			}

			base, ok := acc.(*types.BaseAccount)
			if !ok {
				return ctx, errorsmod.Wrapf(sdkerrors.ErrSignatureVerification,
					"account %s cannot sign transactions", addr)
			}
			base.SetPubKey(pubKey)
			d.ak.SetAccount(ctx, base)
		}

		consumeSigGas(ctx.GasMeter(), pubKey, params)

		if simulate || ctx.IsReCheckTx() {
			continue
		}

		signBytes := t.SignBytes(ctx.ChainID(), acc.GetAccountNumber())
		if !pubKey.VerifySignature(signBytes, t.Raw.Signatures[i]) {
			return ctx, errorsmod.Wrapf(sdkerrors.ErrSignatureVerification,
				"signature verification failed; please verify account number (%d), sequence (%d) and chain-id (%s)",
				acc.GetAccountNumber(), acc.GetSequence(), ctx.ChainID())
		}
	}

	return next(ctx, t, simulate)
}

func consumeSigGas(meter storetypes.GasMeter, pubKey *tx.PubKey, params types.Params) {
	switch pubKey.TypeURL() {
	case tx.PubKeyEd25519URL:
		meter.ConsumeGas(params.SigVerifyCostED25519, "ante verify: ed25519")
	default:
		meter.ConsumeGas(params.SigVerifyCostSecp256k1, "ante verify: secp256k1")
	}
}

// GasPriceDenominator scales min gas prices: a price is the fee amount
// required per this many units of gas.
const GasPriceDenominator = 1_000_000

// DeductFeeDecorator checks fee adequacy against the validator's min gas
// prices (check mode only) and moves the fee from the payer to the fee
// collector. The deduction is the one tx effect preserved on later failure.
type DeductFeeDecorator struct {
	ak authkeeper.Keeper
	bk BankKeeper
}

func (d DeductFeeDecorator) AnteHandle(ctx sdkctx.Context, t *tx.Tx, simulate bool, next tx.AnteHandler) (sdkctx.Context, error) {
	fee := t.AuthInfo.Fee

	if ctx.IsCheckTx() && !simulate && !ctx.MinGasPrices().IsZero() {
		if err := checkFeeAdequacy(fee, ctx.MinGasPrices()); err != nil {
			return ctx, err
		}
	}

	if !fee.Amount.IsZero() {
		payer := t.FeePayer()
		if payer == nil {
			return ctx, errorsmod.Wrap(sdkerrors.ErrMissingFee, "no fee payer")
		}

		if !d.ak.HasAccount(ctx, payer) {
			return ctx, errorsmod.Wrapf(sdkerrors.ErrAccountNotFound, "fee payer %s", payer)
		}

		if err := d.bk.SendCoinsFromAccountToModule(ctx, payer, types.FeeCollectorName, fee.Amount); err != nil {
			return ctx, err
		}
	}

	return next(ctx.WithPriority(feePriority(fee)), t, simulate)
}

func checkFeeAdequacy(fee tx.Fee, minGasPrices sdk.Coins) error {
	if fee.Amount.IsZero() {
		return errorsmod.Wrap(sdkerrors.ErrMissingFee, "fee required")
	}

	for _, price := range minGasPrices {
		required := price.Amount.MulRaw(int64(fee.GasLimit)).AddRaw(GasPriceDenominator - 1).QuoRaw(GasPriceDenominator)
		if fee.Amount.AmountOf(price.Denom).Amount.GTE(required) {
			return nil
		}
	}

	return errorsmod.Wrapf(sdkerrors.ErrInsufficientFees,
		"got: %s, required: %s (gas: %d)", fee.Amount, minGasPrices, fee.GasLimit)
}

// feePriority ranks mempool txs by their total fee amount.
func feePriority(fee tx.Fee) int64 {
	var total int64
	for _, coin := range fee.Amount {
		if coin.Amount.IsInt64() {
			total += coin.Amount.Int64()
		}
	}
	return total
}

// IncrementSequenceDecorator bumps every signer's sequence so a replayed tx
// fails the sequence match.
type IncrementSequenceDecorator struct {
	ak authkeeper.Keeper
}

func (d IncrementSequenceDecorator) AnteHandle(ctx sdkctx.Context, t *tx.Tx, simulate bool, next tx.AnteHandler) (sdkctx.Context, error) {
	for _, addr := range t.GetSigners() {
		acc := d.ak.GetAccount(ctx, addr)
		base, ok := acc.(*types.BaseAccount)
		if !ok {
			return ctx, errorsmod.Wrapf(sdkerrors.ErrSignatureVerification, "account %s cannot sign transactions", addr)
		}

		base.IncrementSequence()
		d.ak.SetAccount(ctx, base)
	}

	return next(ctx, t, simulate)
}
