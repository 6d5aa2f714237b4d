package state

import "context"

type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Event struct {
	Type       string      `json:"type"`
	Attributes []Attribute `json:"attributes"`
}

func NewAttribute(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func NewEvent(typ string, attrs ...Attribute) Event {
	return Event{Type: typ, Attributes: attrs}
}

// Attr returns the value of key, or "" when absent.
func (e Event) Attr(key string) string {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// EventManager collects the events emitted by one operation.
type EventManager struct {
	events []Event
}

func NewEventManager() *EventManager {
	return &EventManager{}
}

func (em *EventManager) EmitEvent(e Event) {
	em.events = append(em.events, e)
}

func (em *EventManager) Events() []Event {
	return append([]Event(nil), em.events...)
}

// EventManagerFromContext returns the context's manager, or a detached one
// whose events are dropped.
func EventManagerFromContext(ctx context.Context) *EventManager {
	em, ok := ctx.Value(eventsCtxKey).(*EventManager)
	if !ok || em == nil {
		return NewEventManager()
	}
	return em
}
