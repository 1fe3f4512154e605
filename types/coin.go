package types

import (
	"fmt"
	"regexp"
	"strings"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/gears-network/gears/types/errors"
)

var denomRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9/:._-]{2,127}$`)

// ValidateDenom checks a denomination against the canonical pattern.
func ValidateDenom(denom string) error {
	if !denomRegex.MatchString(denom) {
		return errorsmod.Wrapf(errors.ErrInvalidCoins, "invalid denom: %s", denom)
	}
	return nil
}

// Coin is a non-negative amount of a single denomination.
type Coin struct {
	Denom  string      `json:"denom"`
	Amount sdkmath.Int `json:"amount"`
}

func NewCoin(denom string, amount sdkmath.Int) Coin {
	coin := Coin{Denom: denom, Amount: amount}
	if err := coin.Validate(); err != nil {
		panic(err)
	}
	return coin
}

func NewInt64Coin(denom string, amount int64) Coin {
	return NewCoin(denom, sdkmath.NewInt(amount))
}

func (c Coin) Validate() error {
	if err := ValidateDenom(c.Denom); err != nil {
		return err
	}
	if c.Amount.IsNil() || c.Amount.IsNegative() {
		return errorsmod.Wrapf(errors.ErrInvalidCoins, "negative coin amount: %v", c.Amount)
	}
	return nil
}

func (c Coin) IsZero() bool {
	return c.Amount.IsZero()
}

func (c Coin) IsGTE(other Coin) bool {
	if c.Denom != other.Denom {
		panic(fmt.Sprintf("coin denom mismatch: %s vs %s", c.Denom, other.Denom))
	}
	return c.Amount.GTE(other.Amount)
}

func (c Coin) Add(other Coin) Coin {
	if c.Denom != other.Denom {
		panic(fmt.Sprintf("coin denom mismatch: %s vs %s", c.Denom, other.Denom))
	}
	return Coin{Denom: c.Denom, Amount: c.Amount.Add(other.Amount)}
}

func (c Coin) Sub(other Coin) Coin {
	if c.Denom != other.Denom {
		panic(fmt.Sprintf("coin denom mismatch: %s vs %s", c.Denom, other.Denom))
	}

	res := Coin{Denom: c.Denom, Amount: c.Amount.Sub(other.Amount)}
	if res.Amount.IsNegative() {
		panic("negative coin amount")
	}
	return res
}

func (c Coin) String() string {
	return fmt.Sprintf("%v%s", c.Amount, c.Denom)
}

// ParseCoin parses "10uatom" style coin strings.
func ParseCoin(s string) (Coin, error) {
	s = strings.TrimSpace(s)

	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i == len(s) {
		return Coin{}, errorsmod.Wrapf(errors.ErrInvalidCoins, "invalid coin expression: %q", s)
	}

	amount, ok := sdkmath.NewIntFromString(s[:i])
	if !ok {
		return Coin{}, errorsmod.Wrapf(errors.ErrInvalidCoins, "invalid coin amount: %q", s[:i])
	}

	denom := s[i:]
	if err := ValidateDenom(denom); err != nil {
		return Coin{}, err
	}

	return Coin{Denom: denom, Amount: amount}, nil
}
