package gaskv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gears-network/gears/db"
	"github.com/gears-network/gears/store/bank"
	"github.com/gears-network/gears/store/types"
)

func newParent(t *testing.T) types.KVStoreMut {
	t.Helper()

	b, err := bank.NewApplicationKVBank(db.NewMemDB())
	require.NoError(t, err)
	return b
}

func TestChargesPerOperation(t *testing.T) {
	parent := newParent(t)
	meter := types.NewGasMeter(100_000)
	cfg := types.KVGasConfig()

	s := NewStoreMut(parent, meter, cfg)

	s.Set([]byte("key"), []byte("value"))
	wantWrite := cfg.WriteCostFlat + cfg.WriteCostPerByte*8
	require.Equal(t, wantWrite, meter.GasConsumed())

	_ = s.Get([]byte("key"))
	wantRead := cfg.ReadCostFlat + cfg.ReadCostPerByte*8
	require.Equal(t, wantWrite+wantRead, meter.GasConsumed())

	_ = s.Has([]byte("key"))
	require.Equal(t, wantWrite+wantRead+cfg.HasCost, meter.GasConsumed())

	s.Delete([]byte("key"))
	require.Equal(t, wantWrite+wantRead+cfg.HasCost+cfg.DeleteCost, meter.GasConsumed())
}

func TestOutOfGasPanics(t *testing.T) {
	parent := newParent(t)
	meter := types.NewGasMeter(10)

	s := NewStoreMut(parent, meter, types.KVGasConfig())

	require.Panics(t, func() {
		s.Set([]byte("key"), []byte("value"))
	})
	require.True(t, meter.IsPastLimit())
}

func TestIteratorCharges(t *testing.T) {
	parent := newParent(t)
	parent.Set([]byte("a"), []byte("1"))
	parent.Set([]byte("b"), []byte("2"))

	meter := types.NewGasMeter(100_000)
	cfg := types.KVGasConfig()
	s := NewStore(parent, meter, cfg)

	it := s.Iterator(nil, nil)
	defer it.Close()

	perEntry := cfg.IterNextCostFlat + cfg.ReadCostPerByte*2
	require.Equal(t, perEntry, meter.GasConsumed())

	it.Next()
	require.Equal(t, 2*perEntry, meter.GasConsumed())

	it.Next()
	require.False(t, it.Valid())
	require.Equal(t, 2*perEntry, meter.GasConsumed())
}
