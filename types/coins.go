package types

import (
	"sort"
	"strings"

	errorsmod "cosmossdk.io/errors"

	"github.com/gears-network/gears/types/errors"
)

// Coins is a set of coins: sorted by denom, duplicate-free, no zero amounts.
// The empty set represents "no coins"; it is never nil-vs-empty significant.
type Coins []Coin

// NewCoins normalizes the inputs into a valid set: sorts, drops zero amounts,
// panics on duplicates or negative amounts.
func NewCoins(coins ...Coin) Coins {
	out := make(Coins, 0, len(coins))
	for _, c := range coins {
		if err := c.Validate(); err != nil {
			panic(err)
		}
		if !c.IsZero() {
			out = append(out, c)
		}
	}

	out.Sort()

	for i := 1; i < len(out); i++ {
		if out[i].Denom == out[i-1].Denom {
			panic("duplicate denomination " + out[i].Denom)
		}
	}

	return out
}

func (cs Coins) Sort() {
	sort.Slice(cs, func(i, j int) bool { return cs[i].Denom < cs[j].Denom })
}

// Validate checks the set invariant: sorted, unique, positive.
func (cs Coins) Validate() error {
	for i, c := range cs {
		if err := c.Validate(); err != nil {
			return err
		}
		if c.IsZero() {
			return errorsmod.Wrapf(errors.ErrInvalidCoins, "zero coin amount for denom %s", c.Denom)
		}
		if i > 0 && cs[i-1].Denom >= c.Denom {
			return errorsmod.Wrapf(errors.ErrInvalidCoins, "coins are not sorted or contain duplicates: %s", cs)
		}
	}
	return nil
}

func (cs Coins) IsZero() bool {
	return len(cs) == 0
}

// AmountOf returns the amount of one denom, zero if absent.
func (cs Coins) AmountOf(denom string) Coin {
	for _, c := range cs {
		if c.Denom == denom {
			return c
		}
	}
	return Coin{Denom: denom, Amount: zeroInt()}
}

// Add merges two sets, preserving the invariant.
func (cs Coins) Add(other ...Coin) Coins {
	sums := map[string]Coin{}
	for _, c := range cs {
		sums[c.Denom] = c
	}
	for _, c := range other {
		if cur, ok := sums[c.Denom]; ok {
			sums[c.Denom] = cur.Add(c)
		} else {
			sums[c.Denom] = c
		}
	}

	out := make(Coins, 0, len(sums))
	for _, c := range sums {
		if !c.IsZero() {
			out = append(out, c)
		}
	}
	out.Sort()
	return out
}

// SafeSub subtracts other from cs, reporting whether any amount went
// negative.
func (cs Coins) SafeSub(other ...Coin) (Coins, bool) {
	diffs := map[string]Coin{}
	for _, c := range cs {
		diffs[c.Denom] = c
	}
	for _, c := range other {
		cur, ok := diffs[c.Denom]
		if !ok {
			cur = Coin{Denom: c.Denom, Amount: zeroInt()}
		}
		amt := cur.Amount.Sub(c.Amount)
		if amt.IsNegative() {
			return nil, true
		}
		diffs[c.Denom] = Coin{Denom: c.Denom, Amount: amt}
	}

	out := make(Coins, 0, len(diffs))
	for _, c := range diffs {
		if !c.IsZero() {
			out = append(out, c)
		}
	}
	out.Sort()
	return out, false
}

// Sub subtracts, panicking on insufficient funds. Callers that can fail use
// SafeSub.
func (cs Coins) Sub(other ...Coin) Coins {
	out, negative := cs.SafeSub(other...)
	if negative {
		panic("negative coin amount")
	}
	return out
}

// IsAllGTE reports whether cs covers every coin in other.
func (cs Coins) IsAllGTE(other Coins) bool {
	for _, c := range other {
		if cs.AmountOf(c.Denom).Amount.LT(c.Amount) {
			return false
		}
	}
	return true
}

func (cs Coins) String() string {
	if len(cs) == 0 {
		return ""
	}

	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}

// ParseCoins parses a comma-separated coin list ("10uatom,3stake").
func ParseCoins(s string) (Coins, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Coins{}, nil
	}

	parts := strings.Split(s, ",")
	coins := make([]Coin, 0, len(parts))
	for _, p := range parts {
		c, err := ParseCoin(p)
		if err != nil {
			return nil, err
		}
		coins = append(coins, c)
	}

	out := Coins(coins)
	out.Sort()
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
