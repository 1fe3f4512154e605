package types

import (
	sdk "github.com/gears-network/gears/types"
)

// Event types and attribute keys emitted by the bank module.
const (
	EventTypeTransfer     = "transfer"
	EventTypeCoinSpent    = "coin_spent"
	EventTypeCoinReceived = "coin_received"

	AttributeKeyRecipient = "recipient"
	AttributeKeySender    = "sender"
	AttributeKeyAmount    = "amount"
	AttributeKeySpender   = "spender"
	AttributeKeyReceiver  = "receiver"
)

// NewTransferEvent is the canonical transfer event with (recipient, sender,
// amount) attributes.
func NewTransferEvent(recipient, sender sdk.AccAddress, amount sdk.Coins) sdk.Event {
	return sdk.NewEvent(
		EventTypeTransfer,
		sdk.NewAttribute(AttributeKeyRecipient, recipient.String()),
		sdk.NewAttribute(AttributeKeySender, sender.String()),
		sdk.NewAttribute(AttributeKeyAmount, amount.String()),
	)
}

func NewCoinSpentEvent(spender sdk.AccAddress, amount sdk.Coins) sdk.Event {
	return sdk.NewEvent(
		EventTypeCoinSpent,
		sdk.NewAttribute(AttributeKeySpender, spender.String()),
		sdk.NewAttribute(AttributeKeyAmount, amount.String()),
	)
}

func NewCoinReceivedEvent(receiver sdk.AccAddress, amount sdk.Coins) sdk.Event {
	return sdk.NewEvent(
		EventTypeCoinReceived,
		sdk.NewAttribute(AttributeKeyReceiver, receiver.String()),
		sdk.NewAttribute(AttributeKeyAmount, amount.String()),
	)
}
