package types

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func TestNewCoinsNormalizes(t *testing.T) {
	coins := NewCoins(
		NewInt64Coin("uatom", 5),
		NewInt64Coin("stake", 3),
		Coin{Denom: "zero", Amount: sdkmath.ZeroInt()},
	)

	require.Equal(t, "3stake,5uatom", coins.String())
	require.NoError(t, coins.Validate())
}

func TestNewCoinsPanicsOnDuplicates(t *testing.T) {
	require.Panics(t, func() {
		NewCoins(NewInt64Coin("uatom", 1), NewInt64Coin("uatom", 2))
	})
}

func TestCoinsValidateRejectsUnsorted(t *testing.T) {
	unsorted := Coins{NewInt64Coin("uatom", 1), NewInt64Coin("stake", 1)}
	require.Error(t, unsorted.Validate())

	zero := Coins{Coin{Denom: "uatom", Amount: sdkmath.ZeroInt()}}
	require.Error(t, zero.Validate())
}

func TestAddAndSub(t *testing.T) {
	coins := NewCoins(NewInt64Coin("uatom", 10))

	sum := coins.Add(NewInt64Coin("uatom", 5), NewInt64Coin("stake", 2))
	require.Equal(t, "2stake,15uatom", sum.String())

	diff, negative := sum.SafeSub(NewInt64Coin("uatom", 15))
	require.False(t, negative)
	require.Equal(t, "2stake", diff.String())

	_, negative = sum.SafeSub(NewInt64Coin("uatom", 100))
	require.True(t, negative)
}

func TestAmountOfMissingDenomIsZero(t *testing.T) {
	coins := NewCoins(NewInt64Coin("uatom", 10))
	require.True(t, coins.AmountOf("stake").Amount.IsZero())
}

func TestIsAllGTE(t *testing.T) {
	coins := NewCoins(NewInt64Coin("uatom", 10), NewInt64Coin("stake", 5))

	require.True(t, coins.IsAllGTE(NewCoins(NewInt64Coin("uatom", 10))))
	require.False(t, coins.IsAllGTE(NewCoins(NewInt64Coin("uatom", 11))))
	require.False(t, coins.IsAllGTE(NewCoins(NewInt64Coin("other", 1))))
	require.True(t, coins.IsAllGTE(NewCoins()))
}

func TestParseCoins(t *testing.T) {
	coins, err := ParseCoins("10uatom,3stake")
	require.NoError(t, err)
	require.Equal(t, "3stake,10uatom", coins.String())

	_, err = ParseCoins("uatom")
	require.Error(t, err)

	_, err = ParseCoins("10uatom,5uatom")
	require.Error(t, err)

	empty, err := ParseCoins("")
	require.NoError(t, err)
	require.True(t, empty.IsZero())
}
