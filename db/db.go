package db

import (
	dbm "github.com/cosmos/cosmos-db"
	"github.com/pkg/errors"
)

// Database is the engine-facing view of a persistent key-value backend. It is
// deliberately narrow: ordered iteration, point reads and writes. Anything the
// engine builds on top (versioning, caching, gas) lives in the store packages.
type Database interface {
	// Get returns nil if the key does not exist. An error indicates backend
	// failure and is treated as fatal by callers.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Set(key, value []byte) error
	Delete(key []byte) error

	// Iterator iterates over the domain [start, end) in ascending key order.
	// A nil start is inclusive of the first key, a nil end of the last.
	Iterator(start, end []byte) (Iterator, error)

	// PrefixIterator iterates over all keys with the given prefix in
	// ascending order.
	PrefixIterator(prefix []byte) (Iterator, error)

	Close() error
}

// Iterator is the ordered cursor returned by a Database. It matches the
// cosmos-db iterator contract: Valid/Next/Key/Value, released with Close.
type Iterator = dbm.Iterator

// wrapper adapts a cosmos-db backend to the Database interface.
type wrapper struct {
	db dbm.DB
}

var _ Database = wrapper{}

// Wrap adapts any cosmos-db backend.
func Wrap(db dbm.DB) Database {
	return wrapper{db: db}
}

// NewMemDB returns an in-memory backend, used by tests and one-off tooling.
func NewMemDB() Database {
	return wrapper{db: dbm.NewMemDB()}
}

// NewGoLevelDB opens (creating if necessary) a goleveldb backend under dir.
func NewGoLevelDB(name, dir string) (Database, error) {
	db, err := dbm.NewGoLevelDB(name, dir, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db %q in %q", name, dir)
	}

	return wrapper{db: db}, nil
}

func (w wrapper) Get(key []byte) ([]byte, error) {
	return w.db.Get(key)
}

func (w wrapper) Has(key []byte) (bool, error) {
	return w.db.Has(key)
}

func (w wrapper) Set(key, value []byte) error {
	return w.db.Set(key, value)
}

func (w wrapper) Delete(key []byte) error {
	return w.db.Delete(key)
}

func (w wrapper) Iterator(start, end []byte) (Iterator, error) {
	return w.db.Iterator(start, end)
}

func (w wrapper) PrefixIterator(prefix []byte) (Iterator, error) {
	if len(prefix) == 0 {
		return w.db.Iterator(nil, nil)
	}

	return w.db.Iterator(prefix, PrefixEndBytes(prefix))
}

func (w wrapper) Close() error {
	return w.db.Close()
}
