package prefix

import (
	"github.com/gears-network/gears/db"
	"github.com/gears-network/gears/store/types"
)

// Store presents the subset of a parent store under a key prefix as its own
// read-only store. Keys are stripped of the prefix on the way out.
type Store struct {
	parent types.KVStore
	prefix []byte
}

var _ types.KVStore = Store{}

func NewStore(parent types.KVStore, prefix []byte) Store {
	return Store{parent: parent, prefix: prefix}
}

func (s Store) key(k []byte) []byte {
	types.AssertValidKey(k)

	out := make([]byte, 0, len(s.prefix)+len(k))
	out = append(out, s.prefix...)
	return append(out, k...)
}

func (s Store) Get(key []byte) []byte {
	return s.parent.Get(s.key(key))
}

func (s Store) Has(key []byte) bool {
	return s.parent.Has(s.key(key))
}

func (s Store) Iterator(start, end []byte) types.Iterator {
	pstart, pend := s.bounds(start, end)
	return newPrefixIterator(s.parent.Iterator(pstart, pend), len(s.prefix))
}

func (s Store) ReverseIterator(start, end []byte) types.Iterator {
	pstart, pend := s.bounds(start, end)
	return newPrefixIterator(s.parent.ReverseIterator(pstart, pend), len(s.prefix))
}

func (s Store) bounds(start, end []byte) (pstart, pend []byte) {
	pstart = append(append([]byte{}, s.prefix...), start...)
	if end == nil {
		pend = db.PrefixEndBytes(s.prefix)
	} else {
		pend = append(append([]byte{}, s.prefix...), end...)
	}
	return pstart, pend
}

// StoreMut is the writable variant of Store.
type StoreMut struct {
	Store
	parent types.KVStoreMut
}

var _ types.KVStoreMut = StoreMut{}

func NewStoreMut(parent types.KVStoreMut, prefix []byte) StoreMut {
	return StoreMut{
		Store:  Store{parent: parent, prefix: prefix},
		parent: parent,
	}
}

func (s StoreMut) Set(key, value []byte) {
	s.parent.Set(s.key(key), value)
}

func (s StoreMut) Delete(key []byte) {
	s.parent.Delete(s.key(key))
}

type prefixIterator struct {
	types.Iterator
	strip int
}

func newPrefixIterator(parent types.Iterator, strip int) prefixIterator {
	return prefixIterator{Iterator: parent, strip: strip}
}

func (it prefixIterator) Key() []byte {
	return it.Iterator.Key()[it.strip:]
}
