package types

import (
	"time"

	"github.com/pkg/errors"

	sdk "github.com/gears-network/gears/types"
)

// Params are the gov module's chain parameters. Quorum, threshold and veto
// threshold are expressed in basis points of 10_000.
type Params struct {
	MinDeposit       sdk.Coins     `json:"min_deposit"`
	MaxDepositPeriod time.Duration `json:"max_deposit_period"`
	VotingPeriod     time.Duration `json:"voting_period"`
	QuorumBps        int64         `json:"quorum_bps,string"`
	ThresholdBps     int64         `json:"threshold_bps,string"`
	VetoThresholdBps int64         `json:"veto_threshold_bps,string"`
}

func DefaultParams() Params {
	return Params{
		MinDeposit:       sdk.NewCoins(sdk.NewInt64Coin("uatom", 10_000_000)),
		MaxDepositPeriod: 48 * time.Hour,
		VotingPeriod:     48 * time.Hour,
		QuorumBps:        3340, // 33.4%
		ThresholdBps:     5000, // 50%
		VetoThresholdBps: 3340, // 33.4%
	}
}

func (p Params) Validate() error {
	if err := p.MinDeposit.Validate(); err != nil {
		return errors.Wrap(err, "min deposit")
	}
	if p.MinDeposit.IsZero() {
		return errors.New("min deposit must be positive")
	}
	if p.VotingPeriod <= 0 {
		return errors.New("voting period must be positive")
	}
	if p.QuorumBps < 0 || p.QuorumBps > 10_000 {
		return errors.New("quorum out of range")
	}
	if p.ThresholdBps <= 0 || p.ThresholdBps > 10_000 {
		return errors.New("threshold out of range")
	}
	if p.VetoThresholdBps < 0 || p.VetoThresholdBps > 10_000 {
		return errors.New("veto threshold out of range")
	}
	return nil
}
