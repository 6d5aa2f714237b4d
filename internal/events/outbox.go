package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"cosmossdk.io/log"

	"pokerarena/internal/state"
)

// Publisher delivers one encoded event to a subject.
type Publisher interface {
	Publish(ctx context.Context, subject, msgID string, data []byte) error
}

// Message is the wire form of a committed event.
type Message struct {
	Height     int64             `json:"height"`
	Index      int               `json:"index"`
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

// ID is unique per committed event and stable across redeliveries.
func (m Message) ID() string {
	return fmt.Sprintf("%d-%d", m.Height, m.Index)
}

// Outbox buffers committed block events until they are published. Events are
// published in commit order; a failed publish keeps it and everything after it
// for the next flush.
type Outbox struct {
	flushMu sync.Mutex

	mu      sync.Mutex
	pending []Message

	pub    Publisher
	prefix string
	logger log.Logger
}

func NewOutbox(pub Publisher, subjectPrefix string, logger log.Logger) *Outbox {
	if pub == nil {
		panic("publisher is nil")
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Outbox{
		pub:    pub,
		prefix: subjectPrefix,
		logger: logger.With("module", "events"),
	}
}

// Enqueue implements app.EventSink.
func (o *Outbox) Enqueue(height int64, events []state.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i, e := range events {
		attrs := make(map[string]string, len(e.Attributes))
		for _, a := range e.Attributes {
			attrs[a.Key] = a.Value
		}
		o.pending = append(o.pending, Message{Height: height, Index: i, Type: e.Type, Attributes: attrs})
	}
}

func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

// Subject returns the subject an event type is published on.
func (o *Outbox) Subject(eventType string) string {
	if o.prefix == "" {
		return eventType
	}
	return o.prefix + "." + eventType
}

// Flush publishes pending events and returns how many were delivered.
func (o *Outbox) Flush(ctx context.Context) (int, error) {
	o.flushMu.Lock()
	defer o.flushMu.Unlock()

	o.mu.Lock()
	batch := o.pending
	o.mu.Unlock()

	sent := 0
	var err error
	for _, m := range batch {
		var data []byte
		data, err = json.Marshal(m)
		if err != nil {
			err = fmt.Errorf("encode event %s: %w", m.ID(), err)
			break
		}
		if err = o.pub.Publish(ctx, o.Subject(m.Type), m.ID(), data); err != nil {
			err = fmt.Errorf("publish event %s: %w", m.ID(), err)
			break
		}
		sent++
	}

	o.mu.Lock()
	// Enqueue only appends, so the first sent entries are still the head.
	o.pending = o.pending[sent:]
	o.mu.Unlock()

	if sent > 0 {
		o.logger.Debug("published events", "count", sent)
	}
	return sent, err
}
