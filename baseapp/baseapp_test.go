package baseapp

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/log"
	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/stretchr/testify/require"

	"github.com/gears-network/gears/db"
	"github.com/gears-network/gears/module"
	storetypes "github.com/gears-network/gears/store/types"
)

func newBareApp(t *testing.T) *BaseApp {
	t.Helper()

	paramsKey := storetypes.NewKVStoreKey("params")

	app, err := NewBaseApp(
		log.NewNopLogger(),
		"bare", "0.0.1",
		db.NewMemDB(),
		paramsKey,
		[]storetypes.StoreKey{paramsKey},
		module.NewManager(),
		nil,
	)
	require.NoError(t, err)
	return app
}

func TestInfoBeforeInitChain(t *testing.T) {
	app := newBareApp(t)

	res, err := app.Info(context.Background(), &abci.RequestInfo{})
	require.NoError(t, err)
	require.Equal(t, "bare", res.Data)
	require.Equal(t, int64(0), res.LastBlockHeight)
	require.Len(t, res.LastBlockAppHash, 32)
}

func TestInitChainRejectsEmptyChainID(t *testing.T) {
	app := newBareApp(t)

	_, err := app.InitChain(context.Background(), &abci.RequestInitChain{ChainId: "  "})
	require.Error(t, err)
}

func TestInitChainDoesNotAdvanceHeight(t *testing.T) {
	app := newBareApp(t)

	_, err := app.InitChain(context.Background(), &abci.RequestInitChain{ChainId: "test"})
	require.NoError(t, err)
	require.Equal(t, int64(0), app.LastBlockHeight())
	require.Equal(t, "test", app.ChainID())
}

func TestFinalizeBlockRejectsWrongHeight(t *testing.T) {
	app := newBareApp(t)

	_, err := app.InitChain(context.Background(), &abci.RequestInitChain{ChainId: "test"})
	require.NoError(t, err)

	_, err = app.FinalizeBlock(context.Background(), &abci.RequestFinalizeBlock{Height: 5})
	require.Error(t, err)
}

func TestBlockCommitAdvancesHeight(t *testing.T) {
	app := newBareApp(t)

	_, err := app.InitChain(context.Background(), &abci.RequestInitChain{ChainId: "test"})
	require.NoError(t, err)

	res, err := app.FinalizeBlock(context.Background(), &abci.RequestFinalizeBlock{
		Height: 1,
		Time:   time.Unix(1700000000, 0),
	})
	require.NoError(t, err)
	require.Len(t, res.AppHash, 32)

	commitRes, err := app.Commit(context.Background(), &abci.RequestCommit{})
	require.NoError(t, err)
	require.Equal(t, int64(0), commitRes.RetainHeight)
	require.Equal(t, int64(1), app.LastBlockHeight())
}

func TestSnapshotStubs(t *testing.T) {
	app := newBareApp(t)
	ctx := context.Background()

	list, err := app.ListSnapshots(ctx, &abci.RequestListSnapshots{})
	require.NoError(t, err)
	require.Empty(t, list.Snapshots)

	offer, err := app.OfferSnapshot(ctx, &abci.RequestOfferSnapshot{})
	require.NoError(t, err)
	require.Equal(t, abci.ResponseOfferSnapshot_REJECT, offer.Result)

	chunk, err := app.LoadSnapshotChunk(ctx, &abci.RequestLoadSnapshotChunk{})
	require.NoError(t, err)
	require.Empty(t, chunk.Chunk)

	apply, err := app.ApplySnapshotChunk(ctx, &abci.RequestApplySnapshotChunk{})
	require.NoError(t, err)
	require.Equal(t, abci.ResponseApplySnapshotChunk_ABORT, apply.Result)
}

func TestProposalHandlers(t *testing.T) {
	app := newBareApp(t)
	ctx := context.Background()

	prep, err := app.PrepareProposal(ctx, &abci.RequestPrepareProposal{
		Txs:        [][]byte{{0x01}, {0x02}},
		MaxTxBytes: 1,
	})
	require.NoError(t, err)
	require.Len(t, prep.Txs, 1)

	proc, err := app.ProcessProposal(ctx, &abci.RequestProcessProposal{})
	require.NoError(t, err)
	require.Equal(t, abci.ResponseProcessProposal_ACCEPT, proc.Status)
}
