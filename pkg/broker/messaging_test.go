package broker

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToSubscriber(t *testing.T) {
	b := NewInMemoryBroker(logrus.New(), 10)
	defer b.Close()
	ctx := context.Background()

	received := make(chan *Message, 1)
	_, err := b.Subscribe(ctx, "achievements.unlocked", func(_ context.Context, m *Message) error {
		received <- m
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, "achievements.unlocked", []byte(`{"id":"task_starter"}`), map[string]string{"user_id": "u1"}))

	select {
	case m := <-received:
		assert.Equal(t, "achievements.unlocked", m.Topic)
		assert.JSONEq(t, `{"id":"task_starter"}`, string(m.Payload))
		assert.Equal(t, "u1", m.Attributes["user_id"])
		assert.NotEmpty(t, m.ID)
	case <-time.After(time.Second):
		t.Fatal("message was not delivered")
	}
}

func TestPublishRetainsBacklog(t *testing.T) {
	b := NewInMemoryBroker(logrus.New(), 10)
	defer b.Close()
	ctx := context.Background()

	// No subscribers yet; the message is still retained.
	require.NoError(t, b.Publish(ctx, "events", []byte("one"), nil))
	require.NoError(t, b.Publish(ctx, "events", []byte("two"), nil))

	backlog := b.Backlog("events")
	require.Len(t, backlog, 2)
	assert.Equal(t, "one", string(backlog[0].Payload))
	assert.Equal(t, "two", string(backlog[1].Payload))
}

func TestBacklogEvictsOldestAtCapacity(t *testing.T) {
	b := NewInMemoryBroker(logrus.New(), 2)
	defer b.Close()
	ctx := context.Background()

	require.NoError(t, b.Publish(ctx, "events", []byte("one"), nil))
	require.NoError(t, b.Publish(ctx, "events", []byte("two"), nil))
	require.NoError(t, b.Publish(ctx, "events", []byte("three"), nil))

	backlog := b.Backlog("events")
	require.Len(t, backlog, 2)
	assert.Equal(t, "two", string(backlog[0].Payload))
	assert.Equal(t, "three", string(backlog[1].Payload))
}

func TestPublishContinuesPastCapacity(t *testing.T) {
	b := NewInMemoryBroker(logrus.New(), 1)
	defer b.Close()
	ctx := context.Background()

	received := make(chan *Message, 3)
	_, err := b.Subscribe(ctx, "events", func(_ context.Context, m *Message) error {
		received <- m
		return nil
	})
	require.NoError(t, err)

	// A full backlog must not stop delivery to live subscribers.
	for _, payload := range []string{"one", "two", "three"} {
		require.NoError(t, b.Publish(ctx, "events", []byte(payload), nil))
	}
	for i := 0; i < 3; i++ {
		select {
		case <-received:
		case <-time.After(time.Second):
			t.Fatalf("message %d was not delivered", i+1)
		}
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := NewInMemoryBroker(logrus.New(), 10)
	defer b.Close()
	ctx := context.Background()

	received := make(chan *Message, 2)
	sub, err := b.Subscribe(ctx, "events", func(_ context.Context, m *Message) error {
		received <- m
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, sub.Unsubscribe())
	require.NoError(t, sub.Unsubscribe(), "unsubscribe is idempotent")

	require.NoError(t, b.Publish(ctx, "events", []byte("late"), nil))

	select {
	case <-received:
		t.Fatal("unsubscribed handler still received a message")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestClosedBrokerRejectsOperations(t *testing.T) {
	b := NewInMemoryBroker(logrus.New(), 10)
	require.NoError(t, b.Close())
	ctx := context.Background()

	assert.ErrorIs(t, b.Publish(ctx, "events", []byte("x"), nil), ErrBrokerClosed)
	_, err := b.Subscribe(ctx, "events", func(context.Context, *Message) error { return nil })
	assert.ErrorIs(t, err, ErrBrokerClosed)
}
