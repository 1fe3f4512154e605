package baseapp

import (
	"fmt"

	"github.com/gears-network/gears/module"
	"github.com/gears-network/gears/types/tx"
)

// msgServiceRouter binds message type URLs to their decoder and handler.
// Registration happens once at app construction, before the first ABCI call.
type msgServiceRouter struct {
	registry *tx.Registry
	handlers map[string]module.MsgHandler
}

var _ module.MsgRouter = (*msgServiceRouter)(nil)

func newMsgServiceRouter() *msgServiceRouter {
	return &msgServiceRouter{
		registry: tx.NewRegistry(),
		handlers: make(map[string]module.MsgHandler),
	}
}

func (r *msgServiceRouter) RegisterHandler(typeURL string, decoder tx.MsgDecoder, handler module.MsgHandler) {
	r.registry.Register(typeURL, decoder)
	r.handlers[typeURL] = handler
}

func (r *msgServiceRouter) handler(typeURL string) (module.MsgHandler, bool) {
	h, ok := r.handlers[typeURL]
	return h, ok
}

// queryServiceRouter binds query paths to handlers.
type queryServiceRouter struct {
	handlers map[string]module.QueryHandler
}

var _ module.QueryRouter = (*queryServiceRouter)(nil)

func newQueryServiceRouter() *queryServiceRouter {
	return &queryServiceRouter{handlers: make(map[string]module.QueryHandler)}
}

func (r *queryServiceRouter) RegisterQuery(path string, handler module.QueryHandler) {
	if _, ok := r.handlers[path]; ok {
		panic(fmt.Sprintf("query path %q registered twice", path))
	}
	r.handlers[path] = handler
}

func (r *queryServiceRouter) handler(path string) (module.QueryHandler, bool) {
	h, ok := r.handlers[path]
	return h, ok
}
