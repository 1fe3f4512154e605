package bank

import (
	"github.com/pkg/errors"

	"github.com/gears-network/gears/db"
	"github.com/gears-network/gears/store/cache"
	"github.com/gears-network/gears/store/tree"
	"github.com/gears-network/gears/store/types"
)

// ApplicationKVBank is one store's delivery-side layering: the persistent
// versioned tree plus the block cache. Transaction-scoped writes live in the
// TransactionKVBank derived from it and are merged back only on tx success.
type ApplicationKVBank struct {
	tree  *tree.Tree
	cache *cache.KVCache
}

var _ types.KVStoreMut = (*ApplicationKVBank)(nil)

// NewApplicationKVBank opens the bank over its backend, restoring the latest
// saved version.
func NewApplicationKVBank(database db.Database) (*ApplicationKVBank, error) {
	t, err := tree.NewTree(database)
	if err != nil {
		return nil, errors.Wrap(err, "opening versioned tree")
	}

	return &ApplicationKVBank{tree: t, cache: cache.New()}, nil
}

// Tree exposes the persistent layer for read-only historical access.
func (b *ApplicationKVBank) Tree() *tree.Tree {
	return b.tree
}

// Get returns the block-cache value if set, nil if tombstoned there,
// otherwise the persistent value.
func (b *ApplicationKVBank) Get(key []byte) []byte {
	value, found, deleted := b.cache.Get(key)
	if deleted {
		return nil
	}
	if found {
		return value
	}

	return b.tree.Get(key)
}

func (b *ApplicationKVBank) Has(key []byte) bool {
	return b.Get(key) != nil
}

func (b *ApplicationKVBank) Set(key, value []byte) {
	types.AssertValidKey(key)
	types.AssertValidValue(value)
	b.cache.Set(key, value)
}

func (b *ApplicationKVBank) Delete(key []byte) {
	b.cache.Delete(key)
}

func (b *ApplicationKVBank) Iterator(start, end []byte) types.Iterator {
	return newMergedIterator(b.cache.Iterator(start, end, true), b.tree.Iterator(start, end, true), true)
}

func (b *ApplicationKVBank) ReverseIterator(start, end []byte) types.Iterator {
	return newMergedIterator(b.cache.Iterator(start, end, false), b.tree.Iterator(start, end, false), false)
}

// ToTxKind returns a transaction store sharing the persistent tree, with the
// current block cache copied in as the tx's starting view.
func (b *ApplicationKVBank) ToTxKind() *TransactionKVBank {
	return &TransactionKVBank{
		tree:  b.tree,
		block: b.cache.Copy(),
		tx:    cache.New(),
	}
}

// ConsumeTxCache merges a transaction store's block view into this bank's
// block cache, sets before tombstones. Any writes still sitting in the tx
// cache are discarded first; callers upgrade the tx cache into the block
// view at the points they want kept (after ante, after msg success).
func (b *ApplicationKVBank) ConsumeTxCache(tx *TransactionKVBank) {
	tx.TxCacheClear()
	sets, deletes := tx.block.Take()

	for _, kv := range sets {
		b.cache.Set(kv.Key, kv.Value)
	}

	for _, key := range deletes {
		b.cache.Delete(key)
	}
}

// CacheClear drops the block cache without touching the persistent layer.
func (b *ApplicationKVBank) CacheClear() {
	b.cache.Clear()
}

// Commit flushes the block cache into the persistent tree, saves a version
// and returns the new root hash.
func (b *ApplicationKVBank) Commit() ([]byte, error) {
	sets, deletes := b.cache.Take()

	for _, kv := range sets {
		b.tree.Set(kv.Key, kv.Value)
	}

	for _, key := range deletes {
		b.tree.Remove(key)
	}

	hash, _, err := b.tree.SaveVersion()
	if err != nil {
		return nil, errors.Wrap(err, "saving store version")
	}

	return hash, nil
}
