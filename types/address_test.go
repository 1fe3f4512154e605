package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccAddressBech32RoundTrip(t *testing.T) {
	raw := make([]byte, 20)
	for i := range raw {
		raw[i] = byte(i)
	}

	addr := AccAddress(raw)
	encoded := addr.String()
	require.Contains(t, encoded, Bech32PrefixAccAddr)

	decoded, err := AccAddressFromBech32(encoded)
	require.NoError(t, err)
	require.True(t, addr.Equals(decoded))
}

func TestAccAddressRejectsWrongPrefix(t *testing.T) {
	val := ValAddress(make([]byte, 20)).String()

	_, err := AccAddressFromBech32(val)
	require.Error(t, err)

	_, err = AccAddressFromBech32("not-an-address")
	require.Error(t, err)
}

func TestKnownFixtureAddress(t *testing.T) {
	// address fixture used across cosmos tooling
	addr, err := AccAddressFromBech32("cosmos1syavy2npfyt9tcncdtsdzf7kny9lh777pahuux")
	require.NoError(t, err)
	require.Len(t, []byte(addr), 20)
	require.Equal(t, "cosmos1syavy2npfyt9tcncdtsdzf7kny9lh777pahuux", addr.String())
}

func TestAddressJSON(t *testing.T) {
	addr := AccAddress(make([]byte, 20))

	bz, err := json.Marshal(addr)
	require.NoError(t, err)

	var decoded AccAddress
	require.NoError(t, json.Unmarshal(bz, &decoded))
	require.True(t, addr.Equals(decoded))

	var empty AccAddress
	require.NoError(t, json.Unmarshal([]byte(`""`), &empty))
	require.True(t, empty.Empty())
}
