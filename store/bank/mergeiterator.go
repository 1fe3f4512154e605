package bank

import (
	"bytes"

	"github.com/gears-network/gears/store/cache"
	"github.com/gears-network/gears/store/types"
)

// mergedIterator lazily merges a cache cursor over a parent cursor. The cache
// takes precedence on equal keys and its tombstones hide parent keys. Layers
// nest: a transaction store merges its tx cache over (block cache over tree).
type mergedIterator struct {
	cache     *cache.Iterator
	parent    types.Iterator
	ascending bool
}

var _ types.Iterator = (*mergedIterator)(nil)

func newMergedIterator(cacheIt *cache.Iterator, parent types.Iterator, ascending bool) *mergedIterator {
	it := &mergedIterator{cache: cacheIt, parent: parent, ascending: ascending}
	it.skipShadowed()
	return it
}

// skipShadowed advances past tombstoned cache entries (and the parent keys
// they hide) until the front of the merge is a live entry.
func (it *mergedIterator) skipShadowed() {
	for it.cache.Valid() && it.cache.Deleted() {
		if it.parent.Valid() && bytes.Equal(it.parent.Key(), it.cache.Key()) {
			it.parent.Next()
		}

		// the tombstone may shadow a parent key further ahead; only advance
		// the cache once the parent is past it
		if it.parent.Valid() && it.before(it.parent.Key(), it.cache.Key()) {
			return
		}

		it.cache.Next()
	}
}

func (it *mergedIterator) before(a, b []byte) bool {
	if it.ascending {
		return bytes.Compare(a, b) < 0
	}
	return bytes.Compare(a, b) > 0
}

// frontIsCache reports whether the next emitted entry comes from the cache.
func (it *mergedIterator) frontIsCache() bool {
	if !it.cache.Valid() {
		return false
	}
	if !it.parent.Valid() {
		return true
	}

	return !it.before(it.parent.Key(), it.cache.Key())
}

func (it *mergedIterator) Domain() (start, end []byte) {
	return it.cache.Domain()
}

func (it *mergedIterator) Valid() bool {
	it.skipShadowed()
	if it.cache.Valid() && !it.cache.Deleted() {
		return true
	}

	return it.parent.Valid()
}

func (it *mergedIterator) Next() {
	it.skipShadowed()

	if it.frontIsCache() {
		// drop the parent duplicate of the overridden key
		if it.parent.Valid() && bytes.Equal(it.parent.Key(), it.cache.Key()) {
			it.parent.Next()
		}
		it.cache.Next()
		return
	}

	it.parent.Next()
}

func (it *mergedIterator) Key() []byte {
	it.skipShadowed()

	if it.frontIsCache() {
		return it.cache.Key()
	}

	return it.parent.Key()
}

func (it *mergedIterator) Value() []byte {
	it.skipShadowed()

	if it.frontIsCache() {
		return it.cache.Value()
	}

	return it.parent.Value()
}

func (it *mergedIterator) Error() error {
	return it.parent.Error()
}

func (it *mergedIterator) Close() error {
	_ = it.cache.Close()
	return it.parent.Close()
}
