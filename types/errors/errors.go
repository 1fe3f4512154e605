package errors

import (
	errorsmod "cosmossdk.io/errors"
)

// Codespaces. (codespace, code) pairs are unique across the engine; modules
// register their own kinds under their own codespace.
const (
	TxCodespace    = "tx"
	AnteCodespace  = "ante"
	GasCodespace   = "gas"
	StoreCodespace = "store"
	QueryCodespace = "query"
	InitCodespace  = "init"
)

// tx
var (
	ErrTxDecode     = errorsmod.Register(TxCodespace, 2, "tx parse error")
	ErrTxValidation = errorsmod.Register(TxCodespace, 3, "invalid tx")
	ErrUnknownMsg   = errorsmod.Register(TxCodespace, 4, "unknown message type")
	ErrInvalidAddress = errorsmod.Register(TxCodespace, 5, "invalid address")
	ErrInvalidCoins   = errorsmod.Register(TxCodespace, 6, "invalid coins")
)

// ante, codes matching the original taxonomy
var (
	ErrInsufficientFees      = errorsmod.Register(AnteCodespace, 2, "insufficient fees")
	ErrMissingFee            = errorsmod.Register(AnteCodespace, 3, "fee required")
	ErrTxTimeout             = errorsmod.Register(AnteCodespace, 4, "tx has timed out")
	ErrMemoTooLarge          = errorsmod.Register(AnteCodespace, 5, "memo is too long")
	ErrTxTooLarge            = errorsmod.Register(AnteCodespace, 6, "tx is too long")
	ErrAccountNotFound       = errorsmod.Register(AnteCodespace, 7, "account not found")
	ErrSignatureVerification = errorsmod.Register(AnteCodespace, 8, "signature verification failed")
	ErrSequenceMismatch      = errorsmod.Register(AnteCodespace, 9, "account sequence mismatch")
	ErrTooManySignatures     = errorsmod.Register(AnteCodespace, 10, "too many signatures")
)

// gas
var (
	ErrOutOfGas      = errorsmod.Register(GasCodespace, 2, "out of gas")
	ErrOutOfBlockGas = errorsmod.Register(GasCodespace, 3, "out of block gas")
	ErrGasOverflow   = errorsmod.Register(GasCodespace, 4, "gas overflow")
)

// store
var (
	ErrVersionNotFound = errorsmod.Register(StoreCodespace, 2, "version does not exist")
	ErrStoreCorruption = errorsmod.Register(StoreCodespace, 3, "store corruption")
)

// query
var (
	ErrPathNotFound = errorsmod.Register(QueryCodespace, 2, "unknown query path")
	ErrBadRequest   = errorsmod.Register(QueryCodespace, 3, "invalid query request")
)

// init; malformed genesis is fatal, the daemon exits on it
var (
	ErrGenesisMalformed = errorsmod.Register(InitCodespace, 2, "malformed genesis")
)

// ABCIInfo extracts (codespace, code, log) for an ABCI response. Unregistered
// errors map to the internal code and, unless debug is set, a redacted log.
func ABCIInfo(err error, debug bool) (codespace string, code uint32, log string) {
	return errorsmod.ABCIInfo(err, debug)
}
