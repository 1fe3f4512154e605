package context

import (
	"github.com/gears-network/gears/store/query"
	storetypes "github.com/gears-network/gears/store/types"
)

// QueryContext is the read-only context handed to module query handlers. It
// is pinned to one saved version and cannot reach a mutable store.
type QueryContext struct {
	qms     *query.MultiStore
	chainID string
}

var _ ReadContext = QueryContext{}

func NewQueryContext(qms *query.MultiStore, chainID string) QueryContext {
	return QueryContext{qms: qms, chainID: chainID}
}

func (c QueryContext) KVStore(key storetypes.StoreKey) storetypes.KVStore {
	return c.qms.KVStore(key)
}

func (c QueryContext) Height() int64 {
	return c.qms.Version()
}

func (c QueryContext) ChainID() string {
	return c.chainID
}
