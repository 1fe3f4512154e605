package types

// GenesisState is the gov module's genesis shape.
type GenesisState struct {
	Params             Params     `json:"params"`
	StartingProposalID uint64     `json:"starting_proposal_id,string"`
	Proposals          []Proposal `json:"proposals"`
	Deposits           []Deposit  `json:"deposits"`
	Votes              []Vote     `json:"votes"`
}

func DefaultGenesisState() GenesisState {
	return GenesisState{
		Params:             DefaultParams(),
		StartingProposalID: 1,
		Proposals:          []Proposal{},
		Deposits:           []Deposit{},
		Votes:              []Vote{},
	}
}

func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	for _, v := range gs.Votes {
		if !ValidVoteOption(v.Option) {
			return ErrInvalidVote.Wrapf("%q", v.Option)
		}
	}

	return nil
}
