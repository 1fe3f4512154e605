package gaskv

import (
	"github.com/gears-network/gears/store/types"
)

// Store wraps a KVStore and charges every access against a gas meter. Charges
// that exceed the meter's limit panic with ErrorOutOfGas; the tx boundary
// recovers.
type Store struct {
	parent types.KVStore
	meter  types.GasMeter
	config types.GasConfig
}

var _ types.KVStore = Store{}

func NewStore(parent types.KVStore, meter types.GasMeter, config types.GasConfig) Store {
	return Store{parent: parent, meter: meter, config: config}
}

func (s Store) Get(key []byte) []byte {
	s.meter.ConsumeGas(s.config.ReadCostFlat, "ReadFlat")

	value := s.parent.Get(key)
	s.meter.ConsumeGas(s.config.ReadCostPerByte*types.Gas(len(key)+len(value)), "ReadPerByte")
	return value
}

func (s Store) Has(key []byte) bool {
	s.meter.ConsumeGas(s.config.HasCost, "Has")
	return s.parent.Has(key)
}

func (s Store) Iterator(start, end []byte) types.Iterator {
	return s.iterator(s.parent.Iterator(start, end))
}

func (s Store) ReverseIterator(start, end []byte) types.Iterator {
	return s.iterator(s.parent.ReverseIterator(start, end))
}

func (s Store) iterator(parent types.Iterator) types.Iterator {
	it := &gasIterator{Iterator: parent, meter: s.meter, config: s.config}
	it.consumeSeekGas()
	return it
}

// StoreMut is the writable variant.
type StoreMut struct {
	Store
	parent types.KVStoreMut
}

var _ types.KVStoreMut = StoreMut{}

func NewStoreMut(parent types.KVStoreMut, meter types.GasMeter, config types.GasConfig) StoreMut {
	return StoreMut{
		Store:  NewStore(parent, meter, config),
		parent: parent,
	}
}

func (s StoreMut) Set(key, value []byte) {
	s.meter.ConsumeGas(s.config.WriteCostFlat, "WriteFlat")
	s.meter.ConsumeGas(s.config.WriteCostPerByte*types.Gas(len(key)+len(value)), "WritePerByte")
	s.parent.Set(key, value)
}

func (s StoreMut) Delete(key []byte) {
	s.meter.ConsumeGas(s.config.DeleteCost, "Delete")
	s.parent.Delete(key)
}

type gasIterator struct {
	types.Iterator
	meter  types.GasMeter
	config types.GasConfig
}

func (it *gasIterator) Next() {
	it.Iterator.Next()
	it.consumeSeekGas()
}

// consumeSeekGas charges for the entry the cursor currently points at.
func (it *gasIterator) consumeSeekGas() {
	if !it.Valid() {
		return
	}

	key, value := it.Iterator.Key(), it.Iterator.Value()
	it.meter.ConsumeGas(it.config.ReadCostPerByte*types.Gas(len(key)+len(value)), "ValuePerByte")
	it.meter.ConsumeGas(it.config.IterNextCostFlat, "IterNextFlat")
}
