package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSetDelete(t *testing.T) {
	c := New()

	_, found, deleted := c.Get([]byte("k"))
	require.False(t, found)
	require.False(t, deleted)

	c.Set([]byte("k"), []byte("v"))
	v, found, deleted := c.Get([]byte("k"))
	require.True(t, found)
	require.False(t, deleted)
	require.Equal(t, []byte("v"), v)

	prev, had := c.Delete([]byte("k"))
	require.True(t, had)
	require.Equal(t, []byte("v"), prev)

	_, found, deleted = c.Get([]byte("k"))
	require.False(t, found)
	require.True(t, deleted)

	// a set clears the tombstone
	c.Set([]byte("k"), []byte("v2"))
	require.False(t, c.IsDeleted([]byte("k")))
}

func TestCopyIsIndependent(t *testing.T) {
	c := New()
	c.Set([]byte("a"), []byte("1"))
	c.Delete([]byte("b"))

	cp := c.Copy()
	cp.Set([]byte("a"), []byte("2"))
	cp.Delete([]byte("c"))
	cp.Clear()

	v, found, _ := c.Get([]byte("a"))
	require.True(t, found)
	require.Equal(t, []byte("1"), v)
	require.True(t, c.IsDeleted([]byte("b")))
	require.False(t, c.IsDeleted([]byte("c")))
}

func TestTakeDrains(t *testing.T) {
	c := New()
	c.Set([]byte("b"), []byte("2"))
	c.Set([]byte("a"), []byte("1"))
	c.Delete([]byte("z"))

	sets, deletes := c.Take()
	require.Len(t, sets, 2)
	require.Equal(t, []byte("a"), sets[0].Key)
	require.Equal(t, []byte("b"), sets[1].Key)
	require.Equal(t, [][]byte{[]byte("z")}, deletes)

	moreSets, moreDeletes := c.Take()
	require.Empty(t, moreSets)
	require.Empty(t, moreDeletes)
}

func TestIterator(t *testing.T) {
	c := New()
	c.Set([]byte("a"), []byte("1"))
	c.Set([]byte("c"), []byte("3"))
	c.Delete([]byte("b"))

	t.Run("ascending", func(t *testing.T) {
		it := c.Iterator(nil, nil, true)

		var keys []string
		var tombs []bool
		for ; it.Valid(); it.Next() {
			keys = append(keys, string(it.Key()))
			tombs = append(tombs, it.Deleted())
		}

		require.Equal(t, []string{"a", "b", "c"}, keys)
		require.Equal(t, []bool{false, true, false}, tombs)
	})

	t.Run("bounded", func(t *testing.T) {
		it := c.Iterator([]byte("b"), []byte("c"), true)

		var keys []string
		for ; it.Valid(); it.Next() {
			keys = append(keys, string(it.Key()))
		}
		require.Equal(t, []string{"b"}, keys)
	})

	t.Run("descending", func(t *testing.T) {
		it := c.Iterator(nil, nil, false)

		var keys []string
		for ; it.Valid(); it.Next() {
			keys = append(keys, string(it.Key()))
		}
		require.Equal(t, []string{"c", "b", "a"}, keys)
	})
}
