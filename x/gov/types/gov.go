package types

import (
	"encoding/binary"
	"time"

	sdk "github.com/gears-network/gears/types"
)

// ModuleName is the gov module's name, store key and module account.
const ModuleName = "gov"

// StoreKey is the store key the module owns.
const StoreKey = ModuleName

// Proposal statuses.
const (
	StatusDepositPeriod = "PROPOSAL_STATUS_DEPOSIT_PERIOD"
	StatusVotingPeriod  = "PROPOSAL_STATUS_VOTING_PERIOD"
	StatusPassed        = "PROPOSAL_STATUS_PASSED"
	StatusRejected      = "PROPOSAL_STATUS_REJECTED"
	StatusFailed        = "PROPOSAL_STATUS_FAILED"
)

// Vote options.
const (
	OptionYes        = "VOTE_OPTION_YES"
	OptionAbstain    = "VOTE_OPTION_ABSTAIN"
	OptionNo         = "VOTE_OPTION_NO"
	OptionNoWithVeto = "VOTE_OPTION_NO_WITH_VETO"
)

// ValidVoteOption reports whether s names a vote option.
func ValidVoteOption(s string) bool {
	switch s {
	case OptionYes, OptionAbstain, OptionNo, OptionNoWithVeto:
		return true
	}
	return false
}

// Content is a text proposal's payload. Passed proposals are recorded, not
// executed.
type Content struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Proposal tracks one governance proposal through its lifecycle:
// DepositPeriod -> VotingPeriod -> Passed | Rejected | Failed.
type Proposal struct {
	ID              uint64    `json:"id,string"`
	Content         Content   `json:"content"`
	Status          string    `json:"status"`
	SubmitTime      time.Time `json:"submit_time"`
	DepositEndTime  time.Time `json:"deposit_end_time"`
	VotingStartTime time.Time `json:"voting_start_time,omitempty"`
	VotingEndTime   time.Time `json:"voting_end_time,omitempty"`
	TotalDeposit    sdk.Coins `json:"total_deposit"`
}

// Deposit is one depositor's contribution to a proposal.
type Deposit struct {
	ProposalID uint64         `json:"proposal_id,string"`
	Depositor  sdk.AccAddress `json:"depositor"`
	Amount     sdk.Coins      `json:"amount"`
}

// Vote is one voter's option on a proposal.
type Vote struct {
	ProposalID uint64         `json:"proposal_id,string"`
	Voter      sdk.AccAddress `json:"voter"`
	Option     string         `json:"option"`
}

// TallyResult is the outcome of a voting period.
type TallyResult struct {
	Yes        string `json:"yes"`
	Abstain    string `json:"abstain"`
	No         string `json:"no"`
	NoWithVeto string `json:"no_with_veto"`
}

// Store layout.
var (
	ProposalsKeyPrefix    = []byte{0x00}
	ActiveQueuePrefix     = []byte{0x01}
	InactiveQueuePrefix   = []byte{0x02}
	DepositsKeyPrefix     = []byte{0x10}
	VotesKeyPrefix        = []byte{0x20}
	NextProposalIDKey     = []byte{0x30}
)

func ProposalIDBytes(id uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, id)
	return bz
}

func ProposalKey(id uint64) []byte {
	return append(ProposalsKeyPrefix, ProposalIDBytes(id)...)
}

// sortableTimeFormat yields lexicographically time-ordered keys.
const sortableTimeFormat = "2006-01-02T15:04:05.000000000"

func formatTime(t time.Time) []byte {
	return []byte(t.UTC().Round(0).Format(sortableTimeFormat))
}

// ActiveQueueKey orders proposals by absolute voting end time.
func ActiveQueueKey(endTime time.Time, id uint64) []byte {
	out := append([]byte{}, ActiveQueuePrefix...)
	out = append(out, formatTime(endTime)...)
	return append(out, ProposalIDBytes(id)...)
}

// InactiveQueueKey orders proposals by absolute deposit end time.
func InactiveQueueKey(endTime time.Time, id uint64) []byte {
	out := append([]byte{}, InactiveQueuePrefix...)
	out = append(out, formatTime(endTime)...)
	return append(out, ProposalIDBytes(id)...)
}

// QueueEndBound is the exclusive iteration bound for entries due at t.
func QueueEndBound(prefix []byte, t time.Time) []byte {
	out := append([]byte{}, prefix...)
	out = append(out, formatTime(t)...)
	return append(out, 0xff)
}

func DepositKey(id uint64, depositor sdk.AccAddress) []byte {
	out := append([]byte{}, DepositsKeyPrefix...)
	out = append(out, ProposalIDBytes(id)...)
	return append(out, depositor...)
}

func DepositsPrefix(id uint64) []byte {
	return append(append([]byte{}, DepositsKeyPrefix...), ProposalIDBytes(id)...)
}

func VoteKey(id uint64, voter sdk.AccAddress) []byte {
	out := append([]byte{}, VotesKeyPrefix...)
	out = append(out, ProposalIDBytes(id)...)
	return append(out, voter...)
}

func VotesPrefix(id uint64) []byte {
	return append(append([]byte{}, VotesKeyPrefix...), ProposalIDBytes(id)...)
}
