package multi

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gears-network/gears/db"
	"github.com/gears-network/gears/store/types"
)

func newTestMulti(t *testing.T) (*MultiBank, *types.KVStoreKey, *types.KVStoreKey) {
	t.Helper()

	acc := types.NewKVStoreKey("acc")
	bankKey := types.NewKVStoreKey("bank")

	ms, err := NewMultiBank(db.NewMemDB(), acc, bankKey)
	require.NoError(t, err)
	return ms, acc, bankKey
}

func TestStoresAreIsolated(t *testing.T) {
	ms, acc, bankKey := newTestMulti(t)

	ms.KVStoreMut(acc).Set([]byte("k"), []byte("acc"))
	ms.KVStoreMut(bankKey).Set([]byte("k"), []byte("bank"))

	_, err := ms.Commit()
	require.NoError(t, err)

	require.Equal(t, []byte("acc"), ms.KVStore(acc).Get([]byte("k")))
	require.Equal(t, []byte("bank"), ms.KVStore(bankKey).Get([]byte("k")))
}

func TestUnknownKeyPanics(t *testing.T) {
	ms, _, _ := newTestMulti(t)

	require.Panics(t, func() {
		ms.KVStore(types.NewKVStoreKey("other"))
	})
}

func TestCommitDeterministicHash(t *testing.T) {
	build := func() []byte {
		ms, acc, bankKey := newTestMulti(t)
		ms.KVStoreMut(acc).Set([]byte("a"), []byte("1"))
		ms.KVStoreMut(bankKey).Set([]byte("b"), []byte("2"))

		hash, err := ms.Commit()
		require.NoError(t, err)
		return hash
	}

	require.Equal(t, build(), build())
}

func TestCommitAdvancesVersion(t *testing.T) {
	ms, acc, _ := newTestMulti(t)

	require.Equal(t, int64(0), ms.LatestVersion())

	ms.KVStoreMut(acc).Set([]byte("k"), []byte("v"))
	h1, err := ms.Commit()
	require.NoError(t, err)
	require.Equal(t, int64(1), ms.LatestVersion())
	require.Equal(t, h1, ms.Head())

	h2, err := ms.Commit()
	require.NoError(t, err)
	require.Equal(t, int64(2), ms.LatestVersion())

	// empty block: same stores, same hash
	require.Equal(t, h1, h2)
	require.True(t, ms.VersionExists(1))
	require.False(t, ms.VersionExists(3))
}

func TestTransactionKindRoundTrip(t *testing.T) {
	ms, acc, _ := newTestMulti(t)

	tx := ms.ToTxKind()
	tx.KVStoreMut(acc).Set([]byte("k"), []byte("v"))
	require.Nil(t, ms.KVStore(acc).Get([]byte("k")))

	tx.UpgradeTxCaches()
	ms.ConsumeTxCache(tx)
	require.Equal(t, []byte("v"), ms.KVStore(acc).Get([]byte("k")))
}

func TestQueryMultiStoreHistorical(t *testing.T) {
	ms, acc, _ := newTestMulti(t)

	ms.KVStoreMut(acc).Set([]byte("balance"), []byte("34"))
	_, err := ms.Commit()
	require.NoError(t, err)

	ms.KVStoreMut(acc).Set([]byte("balance"), []byte("23"))
	_, err = ms.Commit()
	require.NoError(t, err)

	q1, err := ms.QueryMultiStore(1)
	require.NoError(t, err)
	require.Equal(t, []byte("34"), q1.KVStore(acc).Get([]byte("balance")))

	q2, err := ms.QueryMultiStore(2)
	require.NoError(t, err)
	require.Equal(t, []byte("23"), q2.KVStore(acc).Get([]byte("balance")))

	_, err = ms.QueryMultiStore(9)
	require.Error(t, err)
}
