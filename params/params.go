package params

import (
	"fmt"
	"strconv"

	"github.com/gears-network/gears/store/prefix"
	storetypes "github.com/gears-network/gears/store/types"
	sdkctx "github.com/gears-network/gears/types/context"
)

// Keeper owns the shared params store. Modules receive Subspaces carved out
// of it; distinct subspace names yield disjoint key prefixes.
type Keeper struct {
	key storetypes.StoreKey
}

func NewKeeper(key storetypes.StoreKey) Keeper {
	return Keeper{key: key}
}

// Subspace reserves the prefix for one parameter group.
func (k Keeper) Subspace(name string) Subspace {
	if name == "" {
		panic("empty params subspace name")
	}

	return Subspace{key: k.key, prefix: []byte(name + "/")}
}

// Subspace is typed parameter storage under a reserved prefix of the params
// store. Values are stored as strings; the typed accessors parse on read and
// treat malformed stored values as corruption.
type Subspace struct {
	key    storetypes.StoreKey
	prefix []byte
}

func (s Subspace) store(ctx sdkctx.ReadContext) storetypes.KVStore {
	return prefix.NewStore(ctx.KVStore(s.key), s.prefix)
}

func (s Subspace) storeMut(ctx sdkctx.Context) storetypes.KVStoreMut {
	return prefix.NewStoreMut(ctx.KVStoreMut(s.key), s.prefix)
}

func (s Subspace) Has(ctx sdkctx.ReadContext, key []byte) bool {
	return s.store(ctx).Has(key)
}

// GetRaw returns the raw stored value, nil if unset.
func (s Subspace) GetRaw(ctx sdkctx.ReadContext, key []byte) []byte {
	return s.store(ctx).Get(key)
}

func (s Subspace) SetRaw(ctx sdkctx.Context, key, value []byte) {
	s.storeMut(ctx).Set(key, value)
}

func (s Subspace) GetString(ctx sdkctx.ReadContext, key []byte) (string, bool) {
	bz := s.GetRaw(ctx, key)
	if bz == nil {
		return "", false
	}
	return string(bz), true
}

func (s Subspace) SetString(ctx sdkctx.Context, key []byte, value string) {
	s.SetRaw(ctx, key, []byte(value))
}

func (s Subspace) GetUint64(ctx sdkctx.ReadContext, key []byte) (uint64, bool) {
	bz := s.GetRaw(ctx, key)
	if bz == nil {
		return 0, false
	}

	v, err := strconv.ParseUint(string(bz), 10, 64)
	if err != nil {
		panic(fmt.Sprintf("corrupt param %q: %v", string(key), err))
	}
	return v, true
}

func (s Subspace) SetUint64(ctx sdkctx.Context, key []byte, value uint64) {
	s.SetRaw(ctx, key, []byte(strconv.FormatUint(value, 10)))
}

func (s Subspace) GetBool(ctx sdkctx.ReadContext, key []byte) (bool, bool) {
	bz := s.GetRaw(ctx, key)
	if bz == nil {
		return false, false
	}

	v, err := strconv.ParseBool(string(bz))
	if err != nil {
		panic(fmt.Sprintf("corrupt param %q: %v", string(key), err))
	}
	return v, true
}

func (s Subspace) SetBool(ctx sdkctx.Context, key []byte, value bool) {
	s.SetRaw(ctx, key, []byte(strconv.FormatBool(value)))
}
