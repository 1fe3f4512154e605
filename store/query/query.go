package query

import (
	"fmt"

	"github.com/gears-network/gears/store/tree"
	"github.com/gears-network/gears/store/types"
)

// MultiStore is a read-only view of every store pinned to one saved version.
// It is built for a single query and sees no caches.
type MultiStore struct {
	version int64
	stores  map[string]*kvStore
}

func NewMultiStore(version int64, trees map[string]*tree.ImmutableTree) *MultiStore {
	stores := make(map[string]*kvStore, len(trees))
	for name, t := range trees {
		stores[name] = &kvStore{tree: t}
	}

	return &MultiStore{version: version, stores: stores}
}

func (ms *MultiStore) Version() int64 {
	return ms.version
}

// KVStore returns the pinned view of one store by key.
func (ms *MultiStore) KVStore(key types.StoreKey) types.KVStore {
	s, ok := ms.stores[key.Name()]
	if !ok {
		panic(fmt.Sprintf("store does not exist for key: %s", key.String()))
	}
	return s
}

// KVStoreByName returns the pinned view of one store by name, used by raw
// /store queries where no key value is in scope.
func (ms *MultiStore) KVStoreByName(name string) (types.KVStore, bool) {
	s, ok := ms.stores[name]
	return s, ok
}

type kvStore struct {
	tree *tree.ImmutableTree
}

var _ types.KVStore = (*kvStore)(nil)

func (s *kvStore) Get(key []byte) []byte {
	return s.tree.Get(key)
}

func (s *kvStore) Has(key []byte) bool {
	return s.tree.Has(key)
}

func (s *kvStore) Iterator(start, end []byte) types.Iterator {
	return s.tree.Iterator(start, end, true)
}

func (s *kvStore) ReverseIterator(start, end []byte) types.Iterator {
	return s.tree.Iterator(start, end, false)
}
