package types

import (
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/gears-network/gears/types"
	sdkerrors "github.com/gears-network/gears/types/errors"
	"github.com/gears-network/gears/types/tx"
)

// Message type URLs.
const (
	MsgSubmitProposalURL = "/cosmos.gov.v1beta1.MsgSubmitProposal"
	MsgDepositURL        = "/cosmos.gov.v1beta1.MsgDeposit"
	MsgVoteURL           = "/cosmos.gov.v1beta1.MsgVote"
)

// MaxTitleLength and MaxDescriptionLength bound proposal content.
const (
	MaxTitleLength       = 140
	MaxDescriptionLength = 10_000
)

// MsgSubmitProposal opens a proposal with an initial deposit.
type MsgSubmitProposal struct {
	Content        Content
	InitialDeposit sdk.Coins
	Proposer       sdk.AccAddress
}

var _ tx.Msg = MsgSubmitProposal{}

func (m MsgSubmitProposal) TypeURL() string { return MsgSubmitProposalURL }

func (m MsgSubmitProposal) ValidateBasic() error {
	if m.Proposer.Empty() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidAddress, "missing proposer")
	}
	if m.Content.Title == "" || len(m.Content.Title) > MaxTitleLength {
		return errorsmod.Wrap(ErrInvalidProposalContent, "bad title length")
	}
	if m.Content.Description == "" || len(m.Content.Description) > MaxDescriptionLength {
		return errorsmod.Wrap(ErrInvalidProposalContent, "bad description length")
	}
	return m.InitialDeposit.Validate()
}

func (m MsgSubmitProposal) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{m.Proposer}
}

func (m MsgSubmitProposal) Marshal() ([]byte, error) {
	var content []byte
	content = tx.AppendTagString(content, 1, m.Content.Title)
	content = tx.AppendTagString(content, 2, m.Content.Description)

	var buf []byte
	buf = tx.AppendTagBytes(buf, 1, content)
	for _, coin := range m.InitialDeposit {
		buf = tx.AppendCoin(buf, 2, coin)
	}
	buf = tx.AppendTagString(buf, 3, m.Proposer.String())
	return buf, nil
}

// UnmarshalMsgSubmitProposal is the registered decoder.
func UnmarshalMsgSubmitProposal(value []byte) (tx.Msg, error) {
	var m MsgSubmitProposal

	err := tx.WalkFields(value, func(num int32, bytes []byte, _ uint64) error {
		switch num {
		case 1:
			return tx.WalkFields(bytes, func(inner int32, innerBytes []byte, _ uint64) error {
				switch inner {
				case 1:
					m.Content.Title = string(innerBytes)
				case 2:
					m.Content.Description = string(innerBytes)
				}
				return nil
			})
		case 2:
			coin, err := tx.DecodeCoin(bytes)
			if err != nil {
				return err
			}
			m.InitialDeposit = m.InitialDeposit.Add(coin)
		case 3:
			addr, err := sdk.AccAddressFromBech32(string(bytes))
			if err != nil {
				return err
			}
			m.Proposer = addr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// MsgDeposit adds to a proposal's deposit.
type MsgDeposit struct {
	ProposalID uint64
	Depositor  sdk.AccAddress
	Amount     sdk.Coins
}

var _ tx.Msg = MsgDeposit{}

func (m MsgDeposit) TypeURL() string { return MsgDepositURL }

func (m MsgDeposit) ValidateBasic() error {
	if m.Depositor.Empty() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidAddress, "missing depositor")
	}
	if err := m.Amount.Validate(); err != nil {
		return err
	}
	if m.Amount.IsZero() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidCoins, "empty deposit")
	}
	return nil
}

func (m MsgDeposit) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{m.Depositor}
}

func (m MsgDeposit) Marshal() ([]byte, error) {
	var buf []byte
	buf = tx.AppendTagUvarint(buf, 1, m.ProposalID)
	buf = tx.AppendTagString(buf, 2, m.Depositor.String())
	for _, coin := range m.Amount {
		buf = tx.AppendCoin(buf, 3, coin)
	}
	return buf, nil
}

// UnmarshalMsgDeposit is the registered decoder.
func UnmarshalMsgDeposit(value []byte) (tx.Msg, error) {
	var m MsgDeposit

	err := tx.WalkFields(value, func(num int32, bytes []byte, varint uint64) error {
		switch num {
		case 1:
			m.ProposalID = varint
		case 2:
			addr, err := sdk.AccAddressFromBech32(string(bytes))
			if err != nil {
				return err
			}
			m.Depositor = addr
		case 3:
			coin, err := tx.DecodeCoin(bytes)
			if err != nil {
				return err
			}
			m.Amount = m.Amount.Add(coin)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// MsgVote casts a vote during a proposal's voting period.
type MsgVote struct {
	ProposalID uint64
	Voter      sdk.AccAddress
	Option     string
}

var _ tx.Msg = MsgVote{}

func (m MsgVote) TypeURL() string { return MsgVoteURL }

func (m MsgVote) ValidateBasic() error {
	if m.Voter.Empty() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidAddress, "missing voter")
	}
	if !ValidVoteOption(m.Option) {
		return errorsmod.Wrapf(ErrInvalidVote, "%q", m.Option)
	}
	return nil
}

func (m MsgVote) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{m.Voter}
}

func (m MsgVote) Marshal() ([]byte, error) {
	var buf []byte
	buf = tx.AppendTagUvarint(buf, 1, m.ProposalID)
	buf = tx.AppendTagString(buf, 2, m.Voter.String())
	buf = tx.AppendTagString(buf, 3, m.Option)
	return buf, nil
}

// UnmarshalMsgVote is the registered decoder.
func UnmarshalMsgVote(value []byte) (tx.Msg, error) {
	var m MsgVote

	err := tx.WalkFields(value, func(num int32, bytes []byte, varint uint64) error {
		switch num {
		case 1:
			m.ProposalID = varint
		case 2:
			addr, err := sdk.AccAddressFromBech32(string(bytes))
			if err != nil {
				return err
			}
			m.Voter = addr
		case 3:
			m.Option = string(bytes)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}
