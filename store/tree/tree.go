package tree

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/cometbft/cometbft/crypto/tmhash"
	"github.com/pkg/errors"

	"github.com/gears-network/gears/db"
)

var (
	nodePrefix = []byte("n/")
	rootPrefix = []byte("r/")

	// ErrVersionNotFound is returned on historical reads against a version
	// that was never saved (or no longer exists).
	ErrVersionNotFound = errors.New("version does not exist")
)

// emptyHash is the hash of a tree with no keys.
var emptyHash = tmhash.Sum([]byte{})

// nodeDB loads persisted nodes by hash. Backend failures are fatal: a missing
// or unreadable node means the store is corrupt and no deterministic answer
// exists.
type nodeDB struct {
	db db.Database
}

func (ndb nodeDB) mustLoadNode(hash []byte) *node {
	bz, err := ndb.db.Get(nodeKey(hash))
	if err != nil {
		panic(errors.Wrap(err, "store backend read failed"))
	}
	if bz == nil {
		panic(fmt.Sprintf("store corruption: missing node %X", hash))
	}

	n, err := decodeNode(bz)
	if err != nil {
		panic(errors.Wrapf(err, "store corruption: undecodable node %X", hash))
	}

	n.hash = hash
	return n
}

func (ndb nodeDB) loadRoot(version int64) (*node, error) {
	hash, err := ndb.db.Get(rootKey(version))
	if err != nil {
		panic(errors.Wrap(err, "store backend read failed"))
	}
	if hash == nil {
		return nil, errors.Wrapf(ErrVersionNotFound, "version %d", version)
	}

	if bytes.Equal(hash, emptyHash) {
		return nil, nil
	}

	return ndb.mustLoadNode(hash), nil
}

// Tree is a versioned, Merkle-hashed AVL tree. At most one version is pending
// at a time; SaveVersion persists it, advances the version counter and
// returns the new root hash. Saved versions stay readable.
type Tree struct {
	ndb       nodeDB
	root      *node
	version   int64
	savedHash []byte
}

// NewTree opens a tree over the given backend, restoring the latest saved
// version if one exists.
func NewTree(database db.Database) (*Tree, error) {
	t := &Tree{ndb: nodeDB{db: database}}

	latest, err := t.latestVersion()
	if err != nil {
		return nil, err
	}

	if latest > 0 {
		if err := t.loadVersion(latest); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// LoadVersion resets the working tree to a previously saved version.
func (t *Tree) LoadVersion(version int64) error {
	if version == 0 {
		t.root = nil
		t.version = 0
		t.savedHash = nil
		return nil
	}

	return t.loadVersion(version)
}

func (t *Tree) loadVersion(version int64) error {
	root, err := t.ndb.loadRoot(version)
	if err != nil {
		return err
	}

	t.root = root
	t.version = version

	if root != nil {
		t.savedHash = root.hash
	} else {
		t.savedHash = emptyHash
	}

	return nil
}

func (t *Tree) latestVersion() (int64, error) {
	it, err := t.ndb.db.PrefixIterator(rootPrefix)
	if err != nil {
		panic(errors.Wrap(err, "store backend read failed"))
	}
	defer it.Close()

	var latest int64
	for ; it.Valid(); it.Next() {
		v := int64(binary.BigEndian.Uint64(it.Key()[len(rootPrefix):]))
		if v > latest {
			latest = v
		}
	}

	return latest, it.Error()
}

// Version returns the last saved version.
func (t *Tree) Version() int64 {
	return t.version
}

// VersionExists reports whether a version was saved.
func (t *Tree) VersionExists(version int64) bool {
	has, err := t.ndb.db.Has(rootKey(version))
	if err != nil {
		panic(errors.Wrap(err, "store backend read failed"))
	}

	return has
}

// Hash returns the root hash of the last saved version.
func (t *Tree) Hash() []byte {
	if t.savedHash == nil {
		return emptyHash
	}

	return t.savedHash
}

// Get returns the value for key in the working tree, nil if absent.
func (t *Tree) Get(key []byte) []byte {
	if t.root == nil {
		return nil
	}

	return t.get(t.root, key)
}

func (t *Tree) get(n *node, key []byte) []byte {
	if n.isLeaf() {
		if bytes.Equal(n.key, key) {
			return n.value
		}
		return nil
	}

	if bytes.Compare(key, n.key) < 0 {
		return t.get(n.leftNode(t.ndb), key)
	}

	return t.get(n.rightNode(t.ndb), key)
}

// Has reports key membership in the working tree.
func (t *Tree) Has(key []byte) bool {
	return t.Get(key) != nil
}

// Set writes key=value into the pending version.
func (t *Tree) Set(key, value []byte) {
	if key == nil {
		panic("nil key")
	}
	if value == nil {
		panic("nil value")
	}

	version := t.version + 1
	if t.root == nil {
		t.root = newLeaf(key, value, version)
		return
	}

	t.root, _ = t.recursiveSet(t.root, key, value, version)
}

func (t *Tree) recursiveSet(n *node, key, value []byte, version int64) (*node, bool) {
	if n.isLeaf() {
		switch bytes.Compare(key, n.key) {
		case -1:
			return &node{
				key:     n.key,
				version: version,
				height:  1,
				size:    2,
				left:    newLeaf(key, value, version),
				right:   n,
			}, false
		case 0:
			c := n.clone(version)
			c.value = value
			return c, true
		default:
			return &node{
				key:     key,
				version: version,
				height:  1,
				size:    2,
				left:    n,
				right:   newLeaf(key, value, version),
			}, false
		}
	}

	c := n.clone(version)
	var updated bool

	if bytes.Compare(key, n.key) < 0 {
		c.left, updated = t.recursiveSet(n.leftNode(t.ndb), key, value, version)
		c.leftHash = nil
	} else {
		c.right, updated = t.recursiveSet(n.rightNode(t.ndb), key, value, version)
		c.rightHash = nil
	}

	if !updated {
		c.calcHeightAndSize(t.ndb)
		c = t.balance(c, version)
	}

	return c, updated
}

// Remove deletes key from the pending version, returning the removed value
// and whether it existed.
func (t *Tree) Remove(key []byte) ([]byte, bool) {
	if t.root == nil {
		return nil, false
	}

	newRoot, _, value, removed := t.recursiveRemove(t.root, key, t.version+1)
	if !removed {
		return nil, false
	}

	t.root = newRoot
	return value, true
}

func (t *Tree) recursiveRemove(n *node, key []byte, version int64) (newSelf *node, newKey []byte, value []byte, removed bool) {
	if n.isLeaf() {
		if bytes.Equal(n.key, key) {
			return nil, nil, n.value, true
		}
		return n, nil, nil, false
	}

	if bytes.Compare(key, n.key) < 0 {
		newLeft, leftKey, value, removed := t.recursiveRemove(n.leftNode(t.ndb), key, version)
		if !removed {
			return n, nil, nil, false
		}

		if newLeft == nil { // the left leaf held the key
			return n.rightNode(t.ndb), n.key, value, true
		}

		c := n.clone(version)
		c.left, c.leftHash = newLeft, nil
		c.calcHeightAndSize(t.ndb)
		c = t.balance(c, version)
		return c, leftKey, value, true
	}

	newRight, rightKey, value, removed := t.recursiveRemove(n.rightNode(t.ndb), key, version)
	if !removed {
		return n, nil, nil, false
	}

	if newRight == nil { // the right leaf held the key
		return n.leftNode(t.ndb), nil, value, true
	}

	c := n.clone(version)
	c.right, c.rightHash = newRight, nil
	if rightKey != nil {
		c.key = rightKey
	}
	c.calcHeightAndSize(t.ndb)
	c = t.balance(c, version)
	return c, nil, value, true
}

func (t *Tree) balance(n *node, version int64) *node {
	switch bal := n.calcBalance(t.ndb); {
	case bal > 1:
		if n.leftNode(t.ndb).calcBalance(t.ndb) >= 0 {
			return t.rotateRight(n, version)
		}
		n.left = t.rotateLeft(t.writableNode(n.leftNode(t.ndb), version), version)
		n.leftHash = nil
		return t.rotateRight(n, version)
	case bal < -1:
		if n.rightNode(t.ndb).calcBalance(t.ndb) <= 0 {
			return t.rotateLeft(n, version)
		}
		n.right = t.rotateRight(t.writableNode(n.rightNode(t.ndb), version), version)
		n.rightHash = nil
		return t.rotateLeft(n, version)
	default:
		return n
	}
}

// writableNode returns n itself when it is already part of the pending
// version, otherwise an unpersisted clone.
func (t *Tree) writableNode(n *node, version int64) *node {
	if !n.persisted && n.version == version {
		return n
	}
	return n.clone(version)
}

func (t *Tree) rotateRight(n *node, version int64) *node {
	l := t.writableNode(n.leftNode(t.ndb), version)

	n.left, n.leftHash = l.right, l.rightHash
	l.right, l.rightHash = n, nil

	n.calcHeightAndSize(t.ndb)
	l.calcHeightAndSize(t.ndb)
	return l
}

func (t *Tree) rotateLeft(n *node, version int64) *node {
	r := t.writableNode(n.rightNode(t.ndb), version)

	n.right, n.rightHash = r.left, r.leftHash
	r.left, r.leftHash = n, nil

	n.calcHeightAndSize(t.ndb)
	r.calcHeightAndSize(t.ndb)
	return r
}

// SaveVersion persists the pending version and returns its root hash and the
// new version number.
func (t *Tree) SaveVersion() ([]byte, int64, error) {
	version := t.version + 1

	var hash []byte
	if t.root == nil {
		hash = emptyHash
	} else {
		hash = t.saveNode(t.root)
	}

	if err := t.ndb.db.Set(rootKey(version), hash); err != nil {
		return nil, 0, errors.Wrap(err, "store backend write failed")
	}

	t.version = version
	t.savedHash = hash
	return hash, version, nil
}

// saveNode persists n and all unpersisted descendants post-order, returning
// n's hash.
func (t *Tree) saveNode(n *node) []byte {
	if n.persisted {
		return n.hash
	}

	if !n.isLeaf() {
		if n.leftHash == nil {
			n.leftHash = t.saveNode(n.left)
		}
		if n.rightHash == nil {
			n.rightHash = t.saveNode(n.right)
		}
	}

	hash := n.computeHash()
	if err := t.ndb.db.Set(nodeKey(hash), n.encode()); err != nil {
		panic(errors.Wrap(err, "store backend write failed"))
	}

	n.persisted = true
	return hash
}

// Iterator walks the working tree over [start, end) in the given direction.
func (t *Tree) Iterator(start, end []byte, ascending bool) *Iterator {
	return newIterator(t.ndb, t.root, start, end, ascending)
}

// GetImmutable returns a read-only view of a saved version.
func (t *Tree) GetImmutable(version int64) (*ImmutableTree, error) {
	root, err := t.ndb.loadRoot(version)
	if err != nil {
		return nil, err
	}

	return &ImmutableTree{ndb: t.ndb, root: root, version: version}, nil
}

// GetVersioned reads key at a saved version.
func (t *Tree) GetVersioned(key []byte, version int64) ([]byte, error) {
	imm, err := t.GetImmutable(version)
	if err != nil {
		return nil, err
	}

	return imm.Get(key), nil
}

// ImmutableTree is a read-only view of one saved version.
type ImmutableTree struct {
	ndb     nodeDB
	root    *node
	version int64
}

func (t *ImmutableTree) Version() int64 {
	return t.version
}

func (t *ImmutableTree) Get(key []byte) []byte {
	if t.root == nil {
		return nil
	}

	n := t.root
	for !n.isLeaf() {
		if bytes.Compare(key, n.key) < 0 {
			n = n.leftNode(t.ndb)
		} else {
			n = n.rightNode(t.ndb)
		}
	}

	if bytes.Equal(n.key, key) {
		return n.value
	}

	return nil
}

func (t *ImmutableTree) Has(key []byte) bool {
	return t.Get(key) != nil
}

func (t *ImmutableTree) Iterator(start, end []byte, ascending bool) *Iterator {
	return newIterator(t.ndb, t.root, start, end, ascending)
}

func nodeKey(hash []byte) []byte {
	return append(nodePrefix, hash...)
}

func rootKey(version int64) []byte {
	key := make([]byte, len(rootPrefix)+8)
	copy(key, rootPrefix)
	binary.BigEndian.PutUint64(key[len(rootPrefix):], uint64(version))
	return key
}
