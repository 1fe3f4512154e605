package bank

import (
	"github.com/gears-network/gears/store/cache"
	"github.com/gears-network/gears/store/tree"
	"github.com/gears-network/gears/store/types"
)

// TransactionKVBank layers a tx cache over a copied block view over the
// shared persistent tree. Writes go to the tx cache only; clearing it never
// touches the block view or the tree.
type TransactionKVBank struct {
	tree  *tree.Tree
	block *cache.KVCache
	tx    *cache.KVCache
}

var _ types.KVStoreMut = (*TransactionKVBank)(nil)

func (b *TransactionKVBank) Get(key []byte) []byte {
	value, found, deleted := b.tx.Get(key)
	if deleted {
		return nil
	}
	if found {
		return value
	}

	value, found, deleted = b.block.Get(key)
	if deleted {
		return nil
	}
	if found {
		return value
	}

	return b.tree.Get(key)
}

func (b *TransactionKVBank) Has(key []byte) bool {
	return b.Get(key) != nil
}

func (b *TransactionKVBank) Set(key, value []byte) {
	types.AssertValidKey(key)
	types.AssertValidValue(value)
	b.tx.Set(key, value)
}

func (b *TransactionKVBank) Delete(key []byte) {
	b.tx.Delete(key)
}

func (b *TransactionKVBank) Iterator(start, end []byte) types.Iterator {
	inner := newMergedIterator(b.block.Iterator(start, end, true), b.tree.Iterator(start, end, true), true)
	return newMergedIterator(b.tx.Iterator(start, end, true), inner, true)
}

func (b *TransactionKVBank) ReverseIterator(start, end []byte) types.Iterator {
	inner := newMergedIterator(b.block.Iterator(start, end, false), b.tree.Iterator(start, end, false), false)
	return newMergedIterator(b.tx.Iterator(start, end, false), inner, false)
}

// TxCacheClear discards the transaction's uncommitted writes.
func (b *TransactionKVBank) TxCacheClear() {
	b.tx.Clear()
}

// UpgradeTxCache merges the tx cache into this store's block view, sets
// before tombstones. Used in every execution mode; only in deliver mode is
// the block view later merged into the application's block cache.
func (b *TransactionKVBank) UpgradeTxCache() {
	sets, deletes := b.tx.Take()

	for _, kv := range sets {
		b.block.Set(kv.Key, kv.Value)
	}

	for _, key := range deletes {
		b.block.Delete(key)
	}
}
