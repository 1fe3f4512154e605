package types

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// GenesisState is the auth module's genesis shape.
type GenesisState struct {
	Params   Params            `json:"params"`
	Accounts []json.RawMessage `json:"accounts"`
}

func DefaultGenesisState() GenesisState {
	return GenesisState{Params: DefaultParams(), Accounts: []json.RawMessage{}}
}

func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	seen := map[string]bool{}
	for i, raw := range gs.Accounts {
		acc, err := UnmarshalAccount(raw)
		if err != nil {
			return errors.Wrapf(err, "account %d", i)
		}

		addr := acc.GetAddress().String()
		if seen[addr] {
			return errors.Errorf("duplicate account %s", addr)
		}
		seen[addr] = true
	}

	return nil
}
