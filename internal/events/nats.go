package events

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
)

// JetStreamPublisher publishes events to a JetStream stream. The message id
// lets the server drop redeliveries after a partial flush.
type JetStreamPublisher struct {
	js nats.JetStreamContext
}

func NewJetStreamPublisher(js nats.JetStreamContext) *JetStreamPublisher {
	return &JetStreamPublisher{js: js}
}

func (p *JetStreamPublisher) Publish(ctx context.Context, subject, msgID string, data []byte) error {
	if _, err := p.js.Publish(subject, data, nats.MsgId(msgID), nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

// Connect dials NATS and makes sure stream captures subjectPrefix.>.
func Connect(url, stream, subjectPrefix string) (*nats.Conn, *JetStreamPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("arenad"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	if err := ConfigureStream(js, stream, subjectPrefix); err != nil {
		nc.Close()
		return nil, nil, err
	}
	return nc, NewJetStreamPublisher(js), nil
}

func ConfigureStream(js nats.JetStreamContext, stream, subjectPrefix string) error {
	_, err := js.AddStream(&nats.StreamConfig{
		Name:     stream,
		Subjects: []string{subjectPrefix + ".>"},
	})
	if err != nil {
		return fmt.Errorf("failed to add stream: %w", err)
	}
	return nil
}
