package bank

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gears-network/gears/db"
)

func newTestBank(t *testing.T) *ApplicationKVBank {
	t.Helper()

	b, err := NewApplicationKVBank(db.NewMemDB())
	require.NoError(t, err)
	return b
}

func TestLayering(t *testing.T) {
	app := newTestBank(t)

	app.Set([]byte("a"), []byte("block"))
	_, err := app.Commit()
	require.NoError(t, err)

	app.Set([]byte("b"), []byte("block"))

	tx := app.ToTxKind()

	// tx sees the block cache and the tree
	require.Equal(t, []byte("block"), tx.Get([]byte("a")))
	require.Equal(t, []byte("block"), tx.Get([]byte("b")))

	// tx writes are invisible to the application store
	tx.Set([]byte("a"), []byte("tx"))
	require.Equal(t, []byte("tx"), tx.Get([]byte("a")))
	require.Equal(t, []byte("block"), app.Get([]byte("a")))

	// tombstones shadow lower layers, they are not absence
	tx.Delete([]byte("b"))
	require.Nil(t, tx.Get([]byte("b")))
	require.Equal(t, []byte("block"), app.Get([]byte("b")))
}

func TestTxCacheClearPreservesLowerLayers(t *testing.T) {
	app := newTestBank(t)
	app.Set([]byte("k"), []byte("v"))

	tx := app.ToTxKind()
	tx.Set([]byte("k"), []byte("tx"))
	tx.Delete([]byte("other"))

	tx.TxCacheClear()

	require.Equal(t, []byte("v"), tx.Get([]byte("k")))
	require.Equal(t, []byte("v"), app.Get([]byte("k")))
}

func TestConsumeTxCache(t *testing.T) {
	app := newTestBank(t)
	app.Set([]byte("existing"), []byte("1"))

	tx := app.ToTxKind()
	tx.Set([]byte("new"), []byte("2"))
	tx.Delete([]byte("existing"))
	tx.UpgradeTxCache()

	app.ConsumeTxCache(tx)

	require.Equal(t, []byte("2"), app.Get([]byte("new")))
	require.Nil(t, app.Get([]byte("existing")))

	// the transaction store is drained
	sets, deletes := tx.tx.Take()
	require.Empty(t, sets)
	require.Empty(t, deletes)
}

func TestConsumeDiscardsUnupgradedTxWrites(t *testing.T) {
	app := newTestBank(t)

	tx := app.ToTxKind()
	tx.Set([]byte("kept"), []byte("1"))
	tx.UpgradeTxCache()

	// writes after the last upgrade are a failed message's leftovers
	tx.Set([]byte("dropped"), []byte("2"))

	app.ConsumeTxCache(tx)

	require.Equal(t, []byte("1"), app.Get([]byte("kept")))
	require.Nil(t, app.Get([]byte("dropped")))
}

func TestConsumeAppliesSetsBeforeTombstones(t *testing.T) {
	app := newTestBank(t)

	tx := app.ToTxKind()
	tx.Set([]byte("k"), []byte("v"))
	tx.Delete([]byte("k"))
	tx.UpgradeTxCache()

	app.ConsumeTxCache(tx)
	require.Nil(t, app.Get([]byte("k")))
}

func TestCommitPersistsAndHashes(t *testing.T) {
	database := db.NewMemDB()

	app, err := NewApplicationKVBank(database)
	require.NoError(t, err)

	app.Set([]byte("k"), []byte("v"))
	h1, err := app.Commit()
	require.NoError(t, err)
	require.Len(t, h1, 32)

	// cache drained into the tree
	require.Equal(t, []byte("v"), app.Get([]byte("k")))
	require.Equal(t, []byte("v"), app.Tree().Get([]byte("k")))

	app.Delete([]byte("k"))
	h2, err := app.Commit()
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
	require.Nil(t, app.Get([]byte("k")))
}

func TestMergedRange(t *testing.T) {
	app := newTestBank(t)

	app.Set([]byte("a"), []byte("1"))
	app.Set([]byte("c"), []byte("3"))
	_, err := app.Commit()
	require.NoError(t, err)

	app.Set([]byte("b"), []byte("2"))       // cache-only key
	app.Set([]byte("c"), []byte("cache"))   // cache overrides tree
	app.Delete([]byte("a"))                 // tombstone hides tree key

	it := app.Iterator(nil, nil)
	defer it.Close()

	var keys, values []string
	for ; it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
		values = append(values, string(it.Value()))
	}

	require.Equal(t, []string{"b", "c"}, keys)
	require.Equal(t, []string{"2", "cache"}, values)
}

func TestMergedRangeThreeLayers(t *testing.T) {
	app := newTestBank(t)

	app.Set([]byte("tree"), []byte("1"))
	_, err := app.Commit()
	require.NoError(t, err)

	app.Set([]byte("block"), []byte("2"))

	tx := app.ToTxKind()
	tx.Set([]byte("tx"), []byte("3"))
	tx.Delete([]byte("block"))

	it := tx.Iterator(nil, nil)
	defer it.Close()

	var keys []string
	for ; it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}

	require.Equal(t, []string{"tree", "tx"}, keys)
}

func TestReverseIterator(t *testing.T) {
	app := newTestBank(t)

	app.Set([]byte("a"), []byte("1"))
	_, err := app.Commit()
	require.NoError(t, err)
	app.Set([]byte("b"), []byte("2"))

	it := app.ReverseIterator(nil, nil)
	defer it.Close()

	var keys []string
	for ; it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}

	require.Equal(t, []string{"b", "a"}, keys)
}
