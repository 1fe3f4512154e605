package prefix

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

func TestPrefixedAccess(t *testing.T) {
	parent := newParent(t)

	s := NewStoreMut(parent, []byte{0x02})
	s.Set([]byte("addr"), []byte("34"))

	require.Equal(t, []byte("34"), s.Get([]byte("addr")))
	require.True(t, s.Has([]byte("addr")))
	require.Equal(t, []byte("34"), parent.Get([]byte{0x02, 'a', 'd', 'd', 'r'}))

	// a sibling prefix sees nothing
	other := NewStore(parent, []byte{0x03})
	require.Nil(t, other.Get([]byte("addr")))

	s.Delete([]byte("addr"))
	require.Nil(t, s.Get([]byte("addr")))
}

func TestPrefixIterationIsScoped(t *testing.T) {
	parent := newParent(t)
	parent.Set([]byte{0x01, 'x'}, []byte("other"))
	parent.Set([]byte{0x02, 'a'}, []byte("1"))
	parent.Set([]byte{0x02, 'b'}, []byte("2"))
	parent.Set([]byte{0x03, 'y'}, []byte("other"))

	s := NewStore(parent, []byte{0x02})

	it := s.Iterator(nil, nil)
	defer it.Close()

	var keys []string
	for ; it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	require.Equal(t, []string{"a", "b"}, keys)

	rit := s.ReverseIterator(nil, nil)
	defer rit.Close()

	keys = nil
	for ; rit.Valid(); rit.Next() {
		keys = append(keys, string(rit.Key()))
	}
	require.Equal(t, []string{"b", "a"}, keys)
}
