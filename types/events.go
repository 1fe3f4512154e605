package types

import (
	abci "github.com/cometbft/cometbft/abci/types"
)

// Event is an ABCI event emitted during execution.
type Event = abci.Event

// Attribute is one key-value pair of an event.
type Attribute struct {
	Key   string
	Value string
}

func NewAttribute(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// NewEvent builds an event with the given type and attributes.
func NewEvent(ty string, attrs ...Attribute) Event {
	e := Event{Type: ty}
	for _, a := range attrs {
		e.Attributes = append(e.Attributes, abci.EventAttribute{
			Key:   a.Key,
			Value: a.Value,
			Index: true,
		})
	}
	return e
}

// EventManager is the per-context append-only event buffer. It is drained by
// the phase owner into the ABCI response.
type EventManager struct {
	events []Event
}

func NewEventManager() *EventManager {
	return &EventManager{}
}

func (em *EventManager) EmitEvent(event Event) {
	em.events = append(em.events, event)
}

func (em *EventManager) EmitEvents(events []Event) {
	em.events = append(em.events, events...)
}

// Events returns the buffered events in emission order.
func (em *EventManager) Events() []Event {
	return em.events
}
