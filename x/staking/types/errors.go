package types

import errorsmod "cosmossdk.io/errors"

const Codespace = ModuleName

var (
	ErrNoValidatorFound      = errorsmod.Register(Codespace, 2, "validator does not exist")
	ErrValidatorExists       = errorsmod.Register(Codespace, 3, "validator already exists")
	ErrNoDelegation          = errorsmod.Register(Codespace, 4, "no delegation for (address, validator) tuple")
	ErrInsufficientDelegation = errorsmod.Register(Codespace, 5, "insufficient delegation")
	ErrInvalidDenom          = errorsmod.Register(Codespace, 6, "invalid bond denom")
	ErrInvalidParams         = errorsmod.Register(Codespace, 7, "invalid staking params")
	ErrValidatorJailed       = errorsmod.Register(Codespace, 8, "validator is jailed")
)
