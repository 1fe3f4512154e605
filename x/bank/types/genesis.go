package types

import (
	"sort"

	"github.com/pkg/errors"

	sdk "github.com/gears-network/gears/types"
)

// Balance pairs an address with its coins.
type Balance struct {
	Address sdk.AccAddress `json:"address"`
	Coins   sdk.Coins      `json:"coins"`
}

// Metadata describes a denomination.
type Metadata struct {
	Description string `json:"description,omitempty"`
	Base        string `json:"base"`
	Display     string `json:"display,omitempty"`
	Name        string `json:"name,omitempty"`
	Symbol      string `json:"symbol,omitempty"`
}

// GenesisState is the bank module's genesis shape. Supply, when present,
// must equal the sum of balances.
type GenesisState struct {
	Params        Params     `json:"params"`
	Balances      []Balance  `json:"balances"`
	Supply        sdk.Coins  `json:"supply"`
	DenomMetadata []Metadata `json:"denom_metadata"`
}

func DefaultGenesisState() GenesisState {
	return GenesisState{
		Params:        DefaultParams(),
		Balances:      []Balance{},
		Supply:        sdk.Coins{},
		DenomMetadata: []Metadata{},
	}
}

func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	seen := map[string]bool{}
	var total sdk.Coins

	for _, balance := range gs.Balances {
		if balance.Address.Empty() {
			return errors.New("balance with empty address")
		}

		addr := balance.Address.String()
		if seen[addr] {
			return errors.Errorf("duplicate balance for %s", addr)
		}
		seen[addr] = true

		if err := balance.Coins.Validate(); err != nil {
			return errors.Wrapf(err, "balance of %s", addr)
		}

		total = total.Add(balance.Coins...)
	}

	if err := gs.Supply.Validate(); err != nil {
		return errors.Wrap(err, "supply")
	}

	if len(gs.Supply) > 0 {
		if !gs.Supply.IsAllGTE(total) || !total.IsAllGTE(gs.Supply) {
			return errors.Errorf("genesis supply %s does not match sum of balances %s", gs.Supply, total)
		}
	}

	for _, meta := range gs.DenomMetadata {
		if err := sdk.ValidateDenom(meta.Base); err != nil {
			return err
		}
	}

	return nil
}

// SortBalances canonicalizes balance ordering by address for export.
func SortBalances(balances []Balance) {
	sort.Slice(balances, func(i, j int) bool {
		return balances[i].Address.String() < balances[j].Address.String()
	})
}
