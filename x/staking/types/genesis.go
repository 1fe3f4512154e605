package types

import (
	"github.com/pkg/errors"
)

// GenesisState is the staking module's genesis shape.
type GenesisState struct {
	Params               Params                `json:"params"`
	Validators           []Validator           `json:"validators"`
	Delegations          []Delegation          `json:"delegations"`
	UnbondingDelegations []UnbondingDelegation `json:"unbonding_delegations"`
}

func DefaultGenesisState() GenesisState {
	return GenesisState{
		Params:               DefaultParams(),
		Validators:           []Validator{},
		Delegations:          []Delegation{},
		UnbondingDelegations: []UnbondingDelegation{},
	}
}

func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	seen := map[string]bool{}
	for _, v := range gs.Validators {
		if v.OperatorAddress.Empty() {
			return errors.New("validator with empty operator address")
		}
		if v.ConsensusPubKey == nil {
			return errors.Errorf("validator %s missing consensus pubkey", v.OperatorAddress)
		}

		op := v.OperatorAddress.String()
		if seen[op] {
			return errors.Errorf("duplicate validator %s", op)
		}
		seen[op] = true

		if v.Tokens.IsNil() || v.Tokens.IsNegative() {
			return errors.Errorf("validator %s has invalid tokens", op)
		}
	}

	for _, d := range gs.Delegations {
		if d.Tokens.IsNil() || !d.Tokens.IsPositive() {
			return errors.Errorf("delegation of %s has non-positive tokens", d.DelegatorAddress)
		}
	}

	return nil
}
