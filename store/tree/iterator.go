package tree

import "bytes"

// Iterator performs an in-order traversal over [start, end). Subtrees wholly
// outside the range are pruned by the inner-node split key.
type Iterator struct {
	ndb       nodeDB
	start     []byte
	end       []byte
	ascending bool
	stack     []*node
	current   *node
	valid     bool
}

func newIterator(ndb nodeDB, root *node, start, end []byte, ascending bool) *Iterator {
	it := &Iterator{
		ndb:       ndb,
		start:     start,
		end:       end,
		ascending: ascending,
		valid:     true,
	}

	if root != nil {
		it.stack = []*node{root}
	}

	it.Next()
	return it
}

func (it *Iterator) Domain() (start, end []byte) {
	return it.start, it.end
}

func (it *Iterator) Valid() bool {
	return it.valid && it.current != nil
}

func (it *Iterator) Next() {
	for len(it.stack) > 0 {
		n := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]

		if n.isLeaf() {
			if it.inRange(n.key) {
				it.current = n
				return
			}
			continue
		}

		// left subtree holds keys < n.key, right subtree keys >= n.key
		descendLeft := it.start == nil || bytes.Compare(it.start, n.key) < 0
		descendRight := it.end == nil || bytes.Compare(n.key, it.end) < 0

		if it.ascending {
			if descendRight {
				it.stack = append(it.stack, n.rightNode(it.ndb))
			}
			if descendLeft {
				it.stack = append(it.stack, n.leftNode(it.ndb))
			}
		} else {
			if descendLeft {
				it.stack = append(it.stack, n.leftNode(it.ndb))
			}
			if descendRight {
				it.stack = append(it.stack, n.rightNode(it.ndb))
			}
		}
	}

	it.current = nil
}

func (it *Iterator) inRange(key []byte) bool {
	if it.start != nil && bytes.Compare(key, it.start) < 0 {
		return false
	}
	if it.end != nil && bytes.Compare(key, it.end) >= 0 {
		return false
	}
	return true
}

func (it *Iterator) Key() []byte {
	return it.current.key
}

func (it *Iterator) Value() []byte {
	return it.current.value
}

func (it *Iterator) Error() error {
	return nil
}

func (it *Iterator) Close() error {
	it.stack = nil
	it.current = nil
	it.valid = false
	return nil
}
