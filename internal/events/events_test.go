package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"

	"pokerarena/internal/state"
)

type published struct {
	subject string
	msgID   string
	msg     Message
}

type fakePublisher struct {
	mu     sync.Mutex
	sent   []published
	failAt int // fail the n-th publish call (1-based); 0 never fails
	calls  int
}

func (p *fakePublisher) Publish(_ context.Context, subject, msgID string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	if p.failAt != 0 && p.calls == p.failAt {
		return errors.New("nats: no responders available")
	}
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	p.sent = append(p.sent, published{subject: subject, msgID: msgID, msg: m})
	return nil
}

func (p *fakePublisher) snapshot() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.sent...)
}

func blockEvents() []state.Event {
	return []state.Event{
		state.NewEvent("PlayerRegistered",
			state.NewAttribute("tournamentId", "1"),
			state.NewAttribute("wallet", "aa"),
		),
		state.NewEvent("CoinsSent", state.NewAttribute("amount", "100uchip")),
	}
}

func TestOutboxPublishesInCommitOrder(t *testing.T) {
	pub := &fakePublisher{}
	o := NewOutbox(pub, "arena.events", log.NewNopLogger())

	o.Enqueue(7, blockEvents())
	o.Enqueue(8, blockEvents()[:1])
	require.Equal(t, 3, o.Len())

	n, err := o.Flush(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Zero(t, o.Len())

	sent := pub.snapshot()
	require.Len(t, sent, 3)
	require.Equal(t, "arena.events.PlayerRegistered", sent[0].subject)
	require.Equal(t, "7-0", sent[0].msgID)
	require.Equal(t, "1", sent[0].msg.Attributes["tournamentId"])
	require.Equal(t, "arena.events.CoinsSent", sent[1].subject)
	require.Equal(t, "7-1", sent[1].msgID)
	require.Equal(t, "8-0", sent[2].msgID)
	require.Equal(t, int64(8), sent[2].msg.Height)
}

func TestOutboxKeepsUnsentEventsOnFailure(t *testing.T) {
	pub := &fakePublisher{failAt: 2}
	o := NewOutbox(pub, "arena", nil)
	o.Enqueue(3, blockEvents())

	n, err := o.Flush(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "3-1")
	require.Equal(t, 1, n)
	require.Equal(t, 1, o.Len())

	o.Enqueue(4, blockEvents()[:1])
	n, err = o.Flush(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)

	sent := pub.snapshot()
	require.Len(t, sent, 3)
	require.Equal(t, []string{"3-0", "3-1", "4-0"}, []string{sent[0].msgID, sent[1].msgID, sent[2].msgID})
}

func TestOutboxSubjectWithoutPrefix(t *testing.T) {
	o := NewOutbox(&fakePublisher{}, "", nil)
	require.Equal(t, "TournamentStarted", o.Subject("TournamentStarted"))
}

func TestNewOutboxRequiresPublisher(t *testing.T) {
	require.Panics(t, func() { NewOutbox(nil, "arena", nil) })
}

func TestFlushSchedulerFlushesPeriodically(t *testing.T) {
	pub := &fakePublisher{}
	o := NewOutbox(pub, "arena", nil)

	s, err := NewFlushScheduler(o, 10*time.Millisecond, log.NewNopLogger())
	require.NoError(t, err)
	s.Start()

	o.Enqueue(1, blockEvents())
	require.Eventually(t, func() bool { return len(pub.snapshot()) == 2 }, 2*time.Second, 5*time.Millisecond)

	o.Enqueue(2, blockEvents()[:1])
	require.NoError(t, s.Shutdown(context.Background()))
	require.Len(t, pub.snapshot(), 3)
	require.Zero(t, o.Len())
}

func TestFlushSchedulerRejectsBadInterval(t *testing.T) {
	_, err := NewFlushScheduler(NewOutbox(&fakePublisher{}, "arena", nil), 0, nil)
	require.Error(t, err)
}
