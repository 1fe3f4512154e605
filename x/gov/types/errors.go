package types

import errorsmod "cosmossdk.io/errors"

const Codespace = ModuleName

var (
	ErrUnknownProposal       = errorsmod.Register(Codespace, 2, "unknown proposal")
	ErrInactiveProposal      = errorsmod.Register(Codespace, 3, "inactive proposal")
	ErrInvalidVote           = errorsmod.Register(Codespace, 4, "invalid vote option")
	ErrInvalidProposalContent = errorsmod.Register(Codespace, 5, "invalid proposal content")
	ErrNoVotingPower         = errorsmod.Register(Codespace, 6, "voter has no staked tokens")
)
