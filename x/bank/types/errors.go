package types

import errorsmod "cosmossdk.io/errors"

const Codespace = ModuleName

var (
	ErrInsufficientFunds = errorsmod.Register(Codespace, 2, "insufficient funds")
	ErrInvalidDenom      = errorsmod.Register(Codespace, 3, "invalid denom")
	ErrSendDisabled      = errorsmod.Register(Codespace, 4, "send transactions are disabled")
	ErrBlockedRecipient  = errorsmod.Register(Codespace, 5, "recipient is not allowed to receive funds")
	ErrInputOutputMismatch = errorsmod.Register(Codespace, 6, "sum of inputs does not equal sum of outputs")
)
