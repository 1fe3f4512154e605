package gearsd_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cometbft/cometbft/crypto/ed25519"
	"github.com/stretchr/testify/require"

	"github.com/gears-network/gears/testutil"
	sdk "github.com/gears-network/gears/types"
	"github.com/gears-network/gears/types/tx"
	banktypes "github.com/gears-network/gears/x/bank/types"
	govtypes "github.com/gears-network/gears/x/gov/types"
	stakingtypes "github.com/gears-network/gears/x/staking/types"
)

func newConsKey() *tx.PubKey {
	return tx.NewEd25519PubKey(ed25519.GenPrivKey().PubKey().Bytes())
}

func govGenesisForTests() govtypes.GenesisState {
	genesis := govtypes.DefaultGenesisState()
	genesis.Params.MinDeposit = sdk.NewCoins(sdk.NewInt64Coin("uatom", 100))
	genesis.Params.VotingPeriod = time.Minute
	genesis.Params.MaxDepositPeriod = time.Minute
	return genesis
}

func stakingGenesisForTests() stakingtypes.GenesisState {
	genesis := stakingtypes.DefaultGenesisState()
	genesis.Params.UnbondingTime = time.Minute
	return genesis
}

func TestCreateValidatorDelegateUndelegate(t *testing.T) {
	operator := testutil.NewTestAccount()
	delegator := testutil.NewTestAccount()

	app := testutil.SetupApp(t, []banktypes.Balance{
		{Address: operator.Address, Coins: sdk.NewCoins(sdk.NewInt64Coin("uatom", 10_000_000))},
		{Address: delegator.Address, Coins: sdk.NewCoins(sdk.NewInt64Coin("uatom", 5_000_000))},
	}, testutil.WithModuleGenesis(stakingtypes.ModuleName, stakingGenesisForTests()))
	delegator.AccountNumber = 1

	valAddr := sdk.ValAddress(operator.Address)

	createTx := app.SignTx(t, operator, feeOne, gasLimit, stakingtypes.MsgCreateValidator{
		ValidatorAddress: valAddr,
		Pubkey:           newConsKey(),
		Value:            sdk.NewInt64Coin("uatom", 2_000_000),
		Moniker:          "testval",
	})

	res := app.NextBlock(t, createTx)
	require.Equal(t, uint32(0), res.TxResults[0].Code, res.TxResults[0].Log)

	// the end-block reported the new validator's power (2_000_000 / 10^6)
	require.Len(t, res.ValidatorUpdates, 1)
	require.Equal(t, int64(2), res.ValidatorUpdates[0].Power)

	// a second delegator bonds
	delegateTx := app.SignTx(t, delegator, feeOne, gasLimit, stakingtypes.MsgDelegate{
		DelegatorAddress: delegator.Address,
		ValidatorAddress: valAddr,
		Amount:           sdk.NewInt64Coin("uatom", 3_000_000),
	})

	res = app.NextBlock(t, delegateTx)
	require.Equal(t, uint32(0), res.TxResults[0].Code, res.TxResults[0].Log)
	require.Len(t, res.ValidatorUpdates, 1)
	require.Equal(t, int64(5), res.ValidatorUpdates[0].Power)

	// undelegate; the refund arrives only after the unbonding time
	undelegateTx := app.SignTx(t, delegator, feeOne, gasLimit, stakingtypes.MsgUndelegate{
		DelegatorAddress: delegator.Address,
		ValidatorAddress: valAddr,
		Amount:           sdk.NewInt64Coin("uatom", 3_000_000),
	})

	res = app.NextBlock(t, undelegateTx)
	require.Equal(t, uint32(0), res.TxResults[0].Code, res.TxResults[0].Log)
	require.Equal(t, int64(2), res.ValidatorUpdates[0].Power)

	// before maturity: tokens are neither spendable nor returned
	balance := app.QueryBalance(t, delegator.Address, "uatom", 0)
	require.Equal(t, "1999998", balance.Amount.String()) // 5M - 3M unbonding - 2 fees

	// advance past the unbonding time
	app.NextBlockAt(t, time.Date(2023, 1, 1, 0, 2, 0, 0, time.UTC))

	balance = app.QueryBalance(t, delegator.Address, "uatom", 0)
	require.Equal(t, "4999998", balance.Amount.String())
}

func TestGovProposalLifecycle(t *testing.T) {
	operator := testutil.NewTestAccount()

	app := testutil.SetupApp(t, []banktypes.Balance{
		{Address: operator.Address, Coins: sdk.NewCoins(sdk.NewInt64Coin("uatom", 10_000_000))},
	},
		testutil.WithModuleGenesis(govtypes.ModuleName, govGenesisForTests()),
		testutil.WithModuleGenesis(stakingtypes.ModuleName, stakingGenesisForTests()),
	)

	valAddr := sdk.ValAddress(operator.Address)

	// bond stake so the proposer has voting power
	createTx := app.SignTx(t, operator, feeOne, gasLimit, stakingtypes.MsgCreateValidator{
		ValidatorAddress: valAddr,
		Pubkey:           newConsKey(),
		Value:            sdk.NewInt64Coin("uatom", 2_000_000),
		Moniker:          "testval",
	})
	res := app.NextBlock(t, createTx)
	require.Equal(t, uint32(0), res.TxResults[0].Code, res.TxResults[0].Log)

	// submit with the full min deposit: voting starts immediately
	submitTx := app.SignTx(t, operator, feeOne, gasLimit, govtypes.MsgSubmitProposal{
		Content:        govtypes.Content{Title: "raise limits", Description: "increase the block size"},
		InitialDeposit: sdk.NewCoins(sdk.NewInt64Coin("uatom", 100)),
		Proposer:       operator.Address,
	})
	res = app.NextBlock(t, submitTx)
	require.Equal(t, uint32(0), res.TxResults[0].Code, res.TxResults[0].Log)

	var submitResp struct {
		ProposalID uint64 `json:"proposal_id,string"`
	}
	require.NoError(t, json.Unmarshal(res.TxResults[0].Data, &submitResp))
	require.Equal(t, uint64(1), submitResp.ProposalID)

	voteTx := app.SignTx(t, operator, feeOne, gasLimit, govtypes.MsgVote{
		ProposalID: 1,
		Voter:      operator.Address,
		Option:     govtypes.OptionYes,
	})
	res = app.NextBlock(t, voteTx)
	require.Equal(t, uint32(0), res.TxResults[0].Code, res.TxResults[0].Log)

	balanceBefore := app.QueryBalance(t, operator.Address, "uatom", 0)

	// pass the voting end time; tally runs in end-block
	app.NextBlockAt(t, time.Date(2023, 1, 1, 0, 3, 0, 0, time.UTC))

	queryRes := app.Query(t, "/gov/proposal", map[string]string{"proposal_id": "1"}, 0)
	require.Equal(t, uint32(0), queryRes.Code, queryRes.Log)

	var proposal govtypes.Proposal
	require.NoError(t, json.Unmarshal(queryRes.Value, &proposal))
	require.Equal(t, govtypes.StatusPassed, proposal.Status)

	// the deposit was refunded
	balanceAfter := app.QueryBalance(t, operator.Address, "uatom", 0)
	require.Equal(t, balanceBefore.Amount.AddRaw(100).String(), balanceAfter.Amount.String())
}

func TestProposalDroppedWithoutDeposit(t *testing.T) {
	operator := testutil.NewTestAccount()

	app := testutil.SetupApp(t, []banktypes.Balance{
		{Address: operator.Address, Coins: sdk.NewCoins(sdk.NewInt64Coin("uatom", 10_000_000))},
	}, testutil.WithModuleGenesis(govtypes.ModuleName, govGenesisForTests()))

	submitTx := app.SignTx(t, operator, feeOne, gasLimit, govtypes.MsgSubmitProposal{
		Content:        govtypes.Content{Title: "underfunded", Description: "never reaches min deposit"},
		InitialDeposit: sdk.NewCoins(sdk.NewInt64Coin("uatom", 10)),
		Proposer:       operator.Address,
	})
	res := app.NextBlock(t, submitTx)
	require.Equal(t, uint32(0), res.TxResults[0].Code, res.TxResults[0].Log)

	// past the deposit period the proposal is dropped and the deposit burned
	app.NextBlockAt(t, time.Date(2023, 1, 1, 0, 3, 0, 0, time.UTC))

	queryRes := app.Query(t, "/gov/proposal", map[string]string{"proposal_id": "1"}, 0)
	require.NotEqual(t, uint32(0), queryRes.Code)
	require.Equal(t, govtypes.Codespace, queryRes.Codespace)
}
