package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBasicGasMeter(t *testing.T) {
	m := NewGasMeter(100)

	m.ConsumeGas(40, "a")
	require.Equal(t, Gas(40), m.GasConsumed())
	require.Equal(t, Gas(60), m.GasRemaining())
	require.False(t, m.IsOutOfGas())

	m.ConsumeGas(60, "b")
	require.Equal(t, Gas(100), m.GasConsumed())
	require.True(t, m.IsOutOfGas())
	require.False(t, m.IsPastLimit())

	require.PanicsWithValue(t, ErrorOutOfGas{"c"}, func() {
		m.ConsumeGas(1, "c")
	})
	require.True(t, m.IsPastLimit())
	require.Equal(t, Gas(100), m.GasConsumedToLimit())
}

func TestBasicGasMeterOverflow(t *testing.T) {
	m := NewGasMeter(NoGasLimit)
	m.ConsumeGas(math.MaxUint64-1, "fill")

	require.PanicsWithValue(t, ErrorGasOverflow{"overflow"}, func() {
		m.ConsumeGas(2, "overflow")
	})
}

func TestInfiniteGasMeter(t *testing.T) {
	m := NewInfiniteGasMeter()

	m.ConsumeGas(1 << 40, "big")
	require.Equal(t, Gas(1<<40), m.GasConsumed())
	require.False(t, m.IsOutOfGas())
	require.False(t, m.IsPastLimit())
	require.Equal(t, NoGasLimit, m.Limit())

	require.PanicsWithValue(t, ErrorGasOverflow{"overflow"}, func() {
		m.ConsumeGas(math.MaxUint64, "overflow")
	})
}

func TestStoreKeyIdentity(t *testing.T) {
	a := NewKVStoreKey("acc")
	b := NewKVStoreKey("acc")
	require.NotSame(t, a, b)
	require.Equal(t, a.Name(), b.Name())

	require.Panics(t, func() { NewKVStoreKey("") })
	require.Panics(t, func() { NewKVStoreKeys("acc", "acc") })
}
