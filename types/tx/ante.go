package tx

import (
	sdkctx "github.com/gears-network/gears/types/context"
)

// AnteHandler runs the pre-execution checks over a decoded tx. It returns
// the (possibly re-derived) context the message handlers should run under.
type AnteHandler func(ctx sdkctx.Context, tx *Tx, simulate bool) (sdkctx.Context, error)

// AnteDecorator is one ordered check. The first failure short-circuits the
// chain.
type AnteDecorator interface {
	AnteHandle(ctx sdkctx.Context, tx *Tx, simulate bool, next AnteHandler) (sdkctx.Context, error)
}

// ChainAnteDecorators links decorators into a single AnteHandler, invoked in
// the order given.
func ChainAnteDecorators(decorators ...AnteDecorator) AnteHandler {
	if len(decorators) == 0 {
		return func(ctx sdkctx.Context, _ *Tx, _ bool) (sdkctx.Context, error) {
			return ctx, nil
		}
	}

	return func(ctx sdkctx.Context, tx *Tx, simulate bool) (sdkctx.Context, error) {
		return decorators[0].AnteHandle(ctx, tx, simulate, ChainAnteDecorators(decorators[1:]...))
	}
}
