package multi

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/cometbft/cometbft/crypto/tmhash"
	"github.com/pkg/errors"

	"github.com/gears-network/gears/db"
	"github.com/gears-network/gears/store/bank"
	"github.com/gears-network/gears/store/query"
	"github.com/gears-network/gears/store/tree"
	"github.com/gears-network/gears/store/types"
)

var storePrefixFmt = "s/k:%s/"

// MultiBank owns one ApplicationKVBank per store key. Commit walks the banks
// in ascending store-name order so the app hash is deterministic.
type MultiBank struct {
	banks map[types.StoreKey]*bank.ApplicationKVBank
	keys  []types.StoreKey // sorted by name
}

// NewMultiBank opens one bank per key, each namespaced inside the shared
// backend.
func NewMultiBank(database db.Database, keys ...types.StoreKey) (*MultiBank, error) {
	banks := make(map[types.StoreKey]*bank.ApplicationKVBank, len(keys))

	sorted := make([]types.StoreKey, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name() < sorted[j].Name() })

	for i, key := range sorted {
		if i > 0 && sorted[i-1].Name() == key.Name() {
			return nil, errors.Errorf("duplicate store key %q", key.Name())
		}

		b, err := bank.NewApplicationKVBank(db.NewPrefixDB(database, []byte(fmt.Sprintf(storePrefixFmt, key.Name()))))
		if err != nil {
			return nil, errors.Wrapf(err, "opening store %q", key.Name())
		}

		banks[key] = b
	}

	return &MultiBank{banks: banks, keys: sorted}, nil
}

func (ms *MultiBank) bank(key types.StoreKey) *bank.ApplicationKVBank {
	b, ok := ms.banks[key]
	if !ok {
		panic(fmt.Sprintf("store does not exist for key: %s", key.String()))
	}
	return b
}

// KVStore returns the read-only view of one store.
func (ms *MultiBank) KVStore(key types.StoreKey) types.KVStore {
	return ms.bank(key)
}

// KVStoreMut returns the mutable view of one store.
func (ms *MultiBank) KVStoreMut(key types.StoreKey) types.KVStoreMut {
	return ms.bank(key)
}

// ToTxKind derives a transaction multi-store: per store, the block cache is
// copied and an empty tx cache layered on top.
func (ms *MultiBank) ToTxKind() *TransactionMultiBank {
	banks := make(map[types.StoreKey]*bank.TransactionKVBank, len(ms.banks))
	for key, b := range ms.banks {
		banks[key] = b.ToTxKind()
	}

	return &TransactionMultiBank{banks: banks, keys: ms.keys}
}

// ConsumeTxCache merges every transaction store's block view (the writes
// already upgraded out of its tx cache) into the corresponding block cache.
// Writes still sitting in a tx cache are discarded.
func (ms *MultiBank) ConsumeTxCache(tx *TransactionMultiBank) {
	for key, b := range ms.banks {
		b.ConsumeTxCache(tx.banks[key])
	}
}

// CacheClear drops all block caches.
func (ms *MultiBank) CacheClear() {
	for _, b := range ms.banks {
		b.CacheClear()
	}
}

// Commit commits every store and returns the app hash: the hash of the
// ordered list of per-store hashes.
func (ms *MultiBank) Commit() ([]byte, error) {
	buf := new(bytes.Buffer)
	var scratch [binary.MaxVarintLen64]byte

	for _, key := range ms.keys {
		hash, err := ms.banks[key].Commit()
		if err != nil {
			return nil, errors.Wrapf(err, "committing store %q", key.Name())
		}

		n := binary.PutUvarint(scratch[:], uint64(len(key.Name())))
		buf.Write(scratch[:n])
		buf.WriteString(key.Name())
		buf.Write(hash)
	}

	return tmhash.Sum(buf.Bytes()), nil
}

// Head computes the current app hash without committing: the hash over the
// stores' last saved hashes. Used by Info after restart.
func (ms *MultiBank) Head() []byte {
	buf := new(bytes.Buffer)
	var scratch [binary.MaxVarintLen64]byte

	for _, key := range ms.keys {
		hash := ms.banks[key].Tree().Hash()

		n := binary.PutUvarint(scratch[:], uint64(len(key.Name())))
		buf.Write(scratch[:n])
		buf.WriteString(key.Name())
		buf.Write(hash)
	}

	return tmhash.Sum(buf.Bytes())
}

// LatestVersion is the version of the last commit, zero before the first.
func (ms *MultiBank) LatestVersion() int64 {
	if len(ms.keys) == 0 {
		return 0
	}

	return ms.banks[ms.keys[0]].Tree().Version()
}

// VersionExists reports whether every store saved the given version.
func (ms *MultiBank) VersionExists(version int64) bool {
	for _, b := range ms.banks {
		if !b.Tree().VersionExists(version) {
			return false
		}
	}

	return len(ms.banks) > 0
}

// QueryMultiStore pins a read-only view of all stores at a saved version.
func (ms *MultiBank) QueryMultiStore(version int64) (*query.MultiStore, error) {
	trees := make(map[string]*tree.ImmutableTree, len(ms.banks))
	for key, b := range ms.banks {
		imm, err := b.Tree().GetImmutable(version)
		if err != nil {
			return nil, err
		}
		trees[key.Name()] = imm
	}

	return query.NewMultiStore(version, trees), nil
}

// TransactionMultiBank is the tx-scoped view over all stores.
type TransactionMultiBank struct {
	banks map[types.StoreKey]*bank.TransactionKVBank
	keys  []types.StoreKey
}

func (ms *TransactionMultiBank) bank(key types.StoreKey) *bank.TransactionKVBank {
	b, ok := ms.banks[key]
	if !ok {
		panic(fmt.Sprintf("store does not exist for key: %s", key.String()))
	}
	return b
}

func (ms *TransactionMultiBank) KVStore(key types.StoreKey) types.KVStore {
	return ms.bank(key)
}

func (ms *TransactionMultiBank) KVStoreMut(key types.StoreKey) types.KVStoreMut {
	return ms.bank(key)
}

// TxCachesClear discards every store's uncommitted tx writes.
func (ms *TransactionMultiBank) TxCachesClear() {
	for _, b := range ms.banks {
		b.TxCacheClear()
	}
}

// UpgradeTxCaches merges every store's tx cache into its own block view.
// runTx calls it in every mode once the ante succeeds, and again once the
// messages succeed.
func (ms *TransactionMultiBank) UpgradeTxCaches() {
	for _, b := range ms.banks {
		b.UpgradeTxCache()
	}
}
