package cache

import (
	"sort"

	"github.com/tidwall/btree"
)

// KVCache is a write-back overlay: a sorted map of pending sets plus a sorted
// set of tombstones. A key is never in both at once. Deletion is represented
// as a tombstone, never as absence, so the overlay can shadow keys that exist
// in the layer below.
type KVCache struct {
	storage *btree.Map[string, []byte]
	deleted *btree.Set[string]
}

func New() *KVCache {
	return &KVCache{
		storage: new(btree.Map[string, []byte]),
		deleted: new(btree.Set[string]),
	}
}

// Get returns the cached value and whether the key is tombstoned. A nil value
// with found=false and deleted=false means the cache has no opinion.
func (c *KVCache) Get(key []byte) (value []byte, found, deleted bool) {
	if c.deleted.Contains(string(key)) {
		return nil, false, true
	}

	value, found = c.storage.Get(string(key))
	return value, found, false
}

func (c *KVCache) Set(key, value []byte) {
	c.deleted.Delete(string(key))
	c.storage.Set(string(key), value)
}

// Delete tombstones the key and returns any previously cached value.
func (c *KVCache) Delete(key []byte) ([]byte, bool) {
	prev, had := c.storage.Delete(string(key))
	c.deleted.Insert(string(key))
	return prev, had
}

func (c *KVCache) IsDeleted(key []byte) bool {
	return c.deleted.Contains(string(key))
}

func (c *KVCache) Clear() {
	c.storage = new(btree.Map[string, []byte])
	c.deleted = new(btree.Set[string])
}

// Copy returns an independent clone. The underlying btrees are copy-on-write,
// so this is cheap even for large block caches.
func (c *KVCache) Copy() *KVCache {
	return &KVCache{
		storage: c.storage.Copy(),
		deleted: c.deleted.Copy(),
	}
}

// Take drains the cache, returning sets in ascending key order and tombstones
// in ascending key order.
func (c *KVCache) Take() (sets []KVPair, deletes [][]byte) {
	sets = make([]KVPair, 0, c.storage.Len())
	c.storage.Scan(func(k string, v []byte) bool {
		sets = append(sets, KVPair{Key: []byte(k), Value: v})
		return true
	})

	deletes = make([][]byte, 0, c.deleted.Len())
	c.deleted.Scan(func(k string) bool {
		deletes = append(deletes, []byte(k))
		return true
	})

	c.Clear()
	return sets, deletes
}

// KVPair is one cached write.
type KVPair struct {
	Key   []byte
	Value []byte
}

// entry is one materialized cache record inside an iterator.
type entry struct {
	key     string
	value   []byte
	deleted bool
}

// Iterator returns a cursor over the cache's sets and tombstones within
// [start, end). Entries are materialized at creation; the cursor does not see
// later cache mutations.
func (c *KVCache) Iterator(start, end []byte, ascending bool) *Iterator {
	var entries []entry

	collectSet := func(k string, v []byte) bool {
		if end != nil && k >= string(end) {
			return ascending == false
		}
		if start != nil && k < string(start) {
			return ascending == true
		}
		entries = append(entries, entry{key: k, value: v})
		return true
	}

	collectDel := func(k string) bool {
		if end != nil && k >= string(end) {
			return ascending == false
		}
		if start != nil && k < string(start) {
			return ascending == true
		}
		entries = append(entries, entry{key: k, deleted: true})
		return true
	}

	if ascending {
		if start != nil {
			c.storage.Ascend(string(start), collectSet)
			c.deleted.Ascend(string(start), collectDel)
		} else {
			c.storage.Scan(collectSet)
			c.deleted.Scan(collectDel)
		}
	} else {
		pivot := string(end)
		if end != nil {
			c.storage.Descend(pivot, func(k string, v []byte) bool {
				if k >= pivot {
					return true // Descend pivot is inclusive; [start, end) excludes end
				}
				return collectSet(k, v)
			})
			c.deleted.Descend(pivot, func(k string) bool {
				if k >= pivot {
					return true
				}
				return collectDel(k)
			})
		} else {
			c.storage.Reverse(collectSet)
			c.deleted.Reverse(collectDel)
		}
	}

	// sets and tombstones are merged into a single ordered stream; the two
	// sources are disjoint so a stable merge suffices
	sortEntries(entries, ascending)

	return &Iterator{entries: entries, start: start, end: end}
}

func sortEntries(entries []entry, ascending bool) {
	sort.Slice(entries, func(i, j int) bool {
		if ascending {
			return entries[i].key < entries[j].key
		}
		return entries[i].key > entries[j].key
	})
}

// Iterator walks materialized cache entries, including tombstones. Callers
// that merge it with a parent store use Deleted to filter shadowed keys.
type Iterator struct {
	entries []entry
	start   []byte
	end     []byte
	pos     int
}

func (it *Iterator) Domain() (start, end []byte) {
	return it.start, it.end
}

func (it *Iterator) Valid() bool {
	return it.pos < len(it.entries)
}

func (it *Iterator) Next() {
	it.pos++
}

func (it *Iterator) Key() []byte {
	return []byte(it.entries[it.pos].key)
}

func (it *Iterator) Value() []byte {
	return it.entries[it.pos].value
}

// Deleted reports whether the current entry is a tombstone.
func (it *Iterator) Deleted() bool {
	return it.entries[it.pos].deleted
}

func (it *Iterator) Error() error {
	return nil
}

func (it *Iterator) Close() error {
	it.pos = len(it.entries)
	return nil
}
