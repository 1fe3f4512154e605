package tree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gears-network/gears/db"
)

func newTestTree(t *testing.T) *Tree {
	t.Helper()

	tr, err := NewTree(db.NewMemDB())
	require.NoError(t, err)
	return tr
}

func TestSetGetRemove(t *testing.T) {
	tr := newTestTree(t)

	tr.Set([]byte("alice"), []byte("abc"))
	tr.Set([]byte("bob"), []byte("123"))

	require.Equal(t, []byte("abc"), tr.Get([]byte("alice")))
	require.Equal(t, []byte("123"), tr.Get([]byte("bob")))
	require.Nil(t, tr.Get([]byte("carol")))

	value, removed := tr.Remove([]byte("alice"))
	require.True(t, removed)
	require.Equal(t, []byte("abc"), value)
	require.Nil(t, tr.Get([]byte("alice")))

	_, removed = tr.Remove([]byte("missing"))
	require.False(t, removed)
}

func TestSaveVersionDeterministic(t *testing.T) {
	build := func() *Tree {
		tr, err := NewTree(db.NewMemDB())
		require.NoError(t, err)

		for i := 0; i < 100; i++ {
			tr.Set([]byte(fmt.Sprintf("key-%03d", i)), []byte(fmt.Sprintf("val-%d", i)))
		}
		return tr
	}

	a, b := build(), build()

	hashA, versionA, err := a.SaveVersion()
	require.NoError(t, err)
	hashB, versionB, err := b.SaveVersion()
	require.NoError(t, err)

	require.Equal(t, int64(1), versionA)
	require.Equal(t, versionA, versionB)
	require.Equal(t, hashA, hashB)
	require.Len(t, hashA, 32)
}

func TestHashChangesWithWrites(t *testing.T) {
	tr := newTestTree(t)

	tr.Set([]byte("a"), []byte("1"))
	h1, _, err := tr.SaveVersion()
	require.NoError(t, err)

	tr.Set([]byte("b"), []byte("2"))
	h2, _, err := tr.SaveVersion()
	require.NoError(t, err)

	require.NotEqual(t, h1, h2)
}

func TestEmptyTreeHash(t *testing.T) {
	tr := newTestTree(t)

	hash, version, err := tr.SaveVersion()
	require.NoError(t, err)
	require.Equal(t, int64(1), version)
	require.Equal(t, emptyHash, hash)
	require.Equal(t, hash, tr.Hash())
}

func TestHistoricalReads(t *testing.T) {
	tr := newTestTree(t)

	tr.Set([]byte("balance"), []byte("34"))
	_, v1, err := tr.SaveVersion()
	require.NoError(t, err)

	tr.Set([]byte("balance"), []byte("23"))
	_, v2, err := tr.SaveVersion()
	require.NoError(t, err)

	old, err := tr.GetVersioned([]byte("balance"), v1)
	require.NoError(t, err)
	require.Equal(t, []byte("34"), old)

	cur, err := tr.GetVersioned([]byte("balance"), v2)
	require.NoError(t, err)
	require.Equal(t, []byte("23"), cur)

	_, err = tr.GetVersioned([]byte("balance"), 99)
	require.ErrorIs(t, err, ErrVersionNotFound)

	require.True(t, tr.VersionExists(v1))
	require.False(t, tr.VersionExists(99))
}

func TestDeleteThenCommit(t *testing.T) {
	tr := newTestTree(t)

	tr.Set([]byte("k"), []byte("v"))
	_, v1, err := tr.SaveVersion()
	require.NoError(t, err)

	_, removed := tr.Remove([]byte("k"))
	require.True(t, removed)
	_, v2, err := tr.SaveVersion()
	require.NoError(t, err)

	old, err := tr.GetVersioned([]byte("k"), v1)
	require.NoError(t, err)
	require.Equal(t, []byte("v"), old)

	gone, err := tr.GetVersioned([]byte("k"), v2)
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestReloadFromDisk(t *testing.T) {
	database := db.NewMemDB()

	tr, err := NewTree(database)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		tr.Set([]byte(fmt.Sprintf("k%02d", i)), []byte{byte(i)})
	}

	hash, version, err := tr.SaveVersion()
	require.NoError(t, err)

	reloaded, err := NewTree(database)
	require.NoError(t, err)
	require.Equal(t, version, reloaded.Version())
	require.Equal(t, hash, reloaded.Hash())
	require.Equal(t, []byte{byte(7)}, reloaded.Get([]byte("k07")))
}

func TestIterator(t *testing.T) {
	tr := newTestTree(t)

	keys := []string{"a", "b", "c", "d", "e"}
	for _, k := range keys {
		tr.Set([]byte(k), []byte("v"+k))
	}

	t.Run("full ascending", func(t *testing.T) {
		it := tr.Iterator(nil, nil, true)
		defer it.Close()

		var got []string
		for ; it.Valid(); it.Next() {
			got = append(got, string(it.Key()))
		}
		require.Equal(t, keys, got)
	})

	t.Run("bounded", func(t *testing.T) {
		it := tr.Iterator([]byte("b"), []byte("d"), true)
		defer it.Close()

		var got []string
		for ; it.Valid(); it.Next() {
			got = append(got, string(it.Key()))
		}
		require.Equal(t, []string{"b", "c"}, got)
	})

	t.Run("descending", func(t *testing.T) {
		it := tr.Iterator(nil, nil, false)
		defer it.Close()

		var got []string
		for ; it.Valid(); it.Next() {
			got = append(got, string(it.Key()))
		}
		require.Equal(t, []string{"e", "d", "c", "b", "a"}, got)
	})
}

func TestBalanceUnderSequentialInsert(t *testing.T) {
	tr := newTestTree(t)

	for i := 0; i < 1000; i++ {
		tr.Set([]byte(fmt.Sprintf("key-%04d", i)), []byte("x"))
	}

	// a balanced tree of 1000 leaves has height <= ~1.44*log2(1000)
	require.LessOrEqual(t, int(tr.root.height), 15)

	for i := 0; i < 1000; i++ {
		require.True(t, tr.Has([]byte(fmt.Sprintf("key-%04d", i))))
	}
}
