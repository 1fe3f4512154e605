package baseapp

import (
	"encoding/json"

	sdkctx "github.com/gears-network/gears/types/context"
)

// DefaultGenesis assembles the module set's default app state, used by the
// daemon's init command.
func (app *BaseApp) DefaultGenesis() map[string]json.RawMessage {
	return app.mm.DefaultGenesis()
}

// ExportAppState walks every module's export genesis over the committed
// state and returns the combined app state document.
func (app *BaseApp) ExportAppState() (json.RawMessage, error) {
	ctx := app.internalContext(sdkctx.ExecModeBlock)
	return json.Marshal(app.mm.ExportGenesis(ctx))
}
