package tree

import (
	"bytes"
	"encoding/binary"

	"github.com/cometbft/cometbft/crypto/tmhash"
	"github.com/pkg/errors"
)

// node is a single tree node. Leaves carry key+value; inner nodes carry only
// the key (the smallest key of the right subtree) and child links. Nodes are
// immutable once persisted; mutation clones the path from the root.
type node struct {
	key       []byte
	value     []byte
	version   int64
	height    int8
	size      int64
	hash      []byte
	leftHash  []byte
	rightHash []byte
	left      *node
	right     *node
	persisted bool
}

func newLeaf(key, value []byte, version int64) *node {
	return &node{
		key:     key,
		value:   value,
		version: version,
		size:    1,
	}
}

func (n *node) isLeaf() bool {
	return n.height == 0
}

// clone returns an unpersisted copy stamped with the given version. The hash
// is cleared; it is recomputed at save time.
func (n *node) clone(version int64) *node {
	c := *n
	c.version = version
	c.hash = nil
	c.persisted = false
	return &c
}

func (n *node) leftNode(ndb nodeDB) *node {
	if n.left == nil {
		n.left = ndb.mustLoadNode(n.leftHash)
	}
	return n.left
}

func (n *node) rightNode(ndb nodeDB) *node {
	if n.right == nil {
		n.right = ndb.mustLoadNode(n.rightHash)
	}
	return n.right
}

func (n *node) calcHeightAndSize(ndb nodeDB) {
	l, r := n.leftNode(ndb), n.rightNode(ndb)
	n.height = maxInt8(l.height, r.height) + 1
	n.size = l.size + r.size
}

func (n *node) calcBalance(ndb nodeDB) int {
	return int(n.leftNode(ndb).height) - int(n.rightNode(ndb).height)
}

// computeHash computes and memoizes the node hash. Children must already be
// hashed (save order is post-order).
func (n *node) computeHash() []byte {
	if n.hash != nil {
		return n.hash
	}

	buf := new(bytes.Buffer)
	writeVarint(buf, int64(n.height))
	writeVarint(buf, n.size)
	writeVarint(buf, n.version)

	if n.isLeaf() {
		writeBytes(buf, n.key)
		writeBytes(buf, tmhash.Sum(n.value))
	} else {
		writeBytes(buf, n.leftHash)
		writeBytes(buf, n.rightHash)
	}

	n.hash = tmhash.Sum(buf.Bytes())
	return n.hash
}

// encode serializes a node for persistence. Hashes of children are stored,
// not the children themselves.
func (n *node) encode() []byte {
	buf := new(bytes.Buffer)
	writeVarint(buf, int64(n.height))
	writeVarint(buf, n.size)
	writeVarint(buf, n.version)
	writeBytes(buf, n.key)

	if n.isLeaf() {
		writeBytes(buf, n.value)
	} else {
		writeBytes(buf, n.leftHash)
		writeBytes(buf, n.rightHash)
	}

	return buf.Bytes()
}

func decodeNode(bz []byte) (*node, error) {
	r := bytes.NewReader(bz)

	height, err := binary.ReadVarint(r)
	if err != nil {
		return nil, errors.Wrap(err, "decoding node height")
	}

	size, err := binary.ReadVarint(r)
	if err != nil {
		return nil, errors.Wrap(err, "decoding node size")
	}

	version, err := binary.ReadVarint(r)
	if err != nil {
		return nil, errors.Wrap(err, "decoding node version")
	}

	key, err := readBytes(r)
	if err != nil {
		return nil, errors.Wrap(err, "decoding node key")
	}

	n := &node{
		height:    int8(height),
		size:      size,
		version:   version,
		key:       key,
		persisted: true,
	}

	if n.isLeaf() {
		n.value, err = readBytes(r)
		if err != nil {
			return nil, errors.Wrap(err, "decoding leaf value")
		}
		return n, nil
	}

	n.leftHash, err = readBytes(r)
	if err != nil {
		return nil, errors.Wrap(err, "decoding left hash")
	}

	n.rightHash, err = readBytes(r)
	if err != nil {
		return nil, errors.Wrap(err, "decoding right hash")
	}

	return n, nil
}

func writeVarint(buf *bytes.Buffer, v int64) {
	var scratch [binary.MaxVarintLen64]byte
	n := binary.PutVarint(scratch[:], v)
	buf.Write(scratch[:n])
}

func writeBytes(buf *bytes.Buffer, bz []byte) {
	var scratch [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(scratch[:], uint64(len(bz)))
	buf.Write(scratch[:n])
	buf.Write(bz)
}

func readBytes(r *bytes.Reader) ([]byte, error) {
	length, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, err
	}

	if length == 0 {
		return []byte{}, nil
	}

	bz := make([]byte, length)
	if _, err := r.Read(bz); err != nil {
		return nil, err
	}

	return bz, nil
}

func maxInt8(a, b int8) int8 {
	if a > b {
		return a
	}
	return b
}
