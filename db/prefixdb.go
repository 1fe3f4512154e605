package db

// prefixDB exposes the subset of a parent database under a key prefix as a
// full Database. Used to give each store's tree its own keyspace inside one
// physical backend.
type prefixDB struct {
	parent Database
	prefix []byte
}

var _ Database = prefixDB{}

// NewPrefixDB wraps parent so that all keys are transparently namespaced
// under prefix.
func NewPrefixDB(parent Database, prefix []byte) Database {
	return prefixDB{parent: parent, prefix: prefix}
}

func (p prefixDB) key(k []byte) []byte {
	out := make([]byte, 0, len(p.prefix)+len(k))
	out = append(out, p.prefix...)
	return append(out, k...)
}

func (p prefixDB) Get(key []byte) ([]byte, error) {
	return p.parent.Get(p.key(key))
}

func (p prefixDB) Has(key []byte) (bool, error) {
	return p.parent.Has(p.key(key))
}

func (p prefixDB) Set(key, value []byte) error {
	return p.parent.Set(p.key(key), value)
}

func (p prefixDB) Delete(key []byte) error {
	return p.parent.Delete(p.key(key))
}

func (p prefixDB) Iterator(start, end []byte) (Iterator, error) {
	pstart := p.key(start)
	var pend []byte
	if end == nil {
		pend = PrefixEndBytes(p.prefix)
	} else {
		pend = p.key(end)
	}

	it, err := p.parent.Iterator(pstart, pend)
	if err != nil {
		return nil, err
	}

	return stripIterator{Iterator: it, strip: len(p.prefix)}, nil
}

func (p prefixDB) PrefixIterator(prefix []byte) (Iterator, error) {
	it, err := p.parent.PrefixIterator(p.key(prefix))
	if err != nil {
		return nil, err
	}

	return stripIterator{Iterator: it, strip: len(p.prefix)}, nil
}

// Close is a no-op; the parent owns the backend handle.
func (p prefixDB) Close() error {
	return nil
}

type stripIterator struct {
	Iterator
	strip int
}

func (s stripIterator) Key() []byte {
	return s.Iterator.Key()[s.strip:]
}
