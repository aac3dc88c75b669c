package broker_test

import (
	"testing"
	"time"

	"hotel-backoffice/internal/broker"
	"hotel-backoffice/internal/testutil"
	"hotel-backoffice/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBroker(t *testing.T) *broker.RedisEventBroker {
	logger.Init(false)

	testRedis := testutil.SetupTestRedis(t)
	t.Cleanup(func() { testRedis.Server.Close() })

	b, err := broker.NewRedisEventBroker(testRedis.Client)
	require.NoError(t, err, "Broker should connect to miniredis")

	return b
}

func waitForEvent(t *testing.T, events <-chan broker.RoomEvent) broker.RoomEvent {
	select {
	case event := <-events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for event")
		return broker.RoomEvent{}
	}
}

func TestRedisEventBroker_PublishSubscribe(t *testing.T) {
	b := setupBroker(t)

	events, cancel, err := b.Subscribe()
	require.NoError(t, err)
	defer cancel()

	published := broker.RoomEvent{
		Type:       broker.EventRoomCreated,
		RoomID:     "room-1",
		RoomNumber: "101",
		Actor:      "admin-1",
		OccurredAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, b.Publish(published))

	received := waitForEvent(t, events)
	assert.Equal(t, broker.EventRoomCreated, received.Type)
	assert.Equal(t, "room-1", received.RoomID)
	assert.Equal(t, "101", received.RoomNumber)
	assert.Equal(t, "admin-1", received.Actor)
}

func TestRedisEventBroker_MultipleSubscribers(t *testing.T) {
	b := setupBroker(t)

	events1, cancel1, err := b.Subscribe()
	require.NoError(t, err)
	defer cancel1()

	events2, cancel2, err := b.Subscribe()
	require.NoError(t, err)
	defer cancel2()

	require.NoError(t, b.Publish(broker.RoomEvent{
		Type:   broker.EventRoomStatusChanged,
		RoomID: "room-2",
		Status: "Cleaning",
	}))

	// Every subscriber gets every event
	first := waitForEvent(t, events1)
	second := waitForEvent(t, events2)
	assert.Equal(t, first.RoomID, second.RoomID)
	assert.Equal(t, "Cleaning", first.Status)
}

func TestRedisEventBroker_CancelStopsDelivery(t *testing.T) {
	b := setupBroker(t)

	events, cancel, err := b.Subscribe()
	require.NoError(t, err)

	cancel()

	// The event channel closes once the pub/sub connection is gone.
	select {
	case _, open := <-events:
		assert.False(t, open, "Channel should be closed after cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("Channel did not close after cancel")
	}
}

func TestRedisEventBroker_SlowSubscriberDoesNotWedgeDelivery(t *testing.T) {
	b := setupBroker(t)

	events, cancel, err := b.Subscribe()
	require.NoError(t, err)

	// Overflow the subscriber buffer without draining it. Excess events are
	// dropped rather than blocking the forwarding goroutine.
	for i := 0; i < 150; i++ {
		require.NoError(t, b.Publish(broker.RoomEvent{
			Type:   broker.EventRoomUpdated,
			RoomID: "room-4",
		}))
	}
	time.Sleep(100 * time.Millisecond)

	cancel()

	// The channel still closes promptly; a wedged forwarder would leave it
	// open forever.
	deadline := time.After(2 * time.Second)
	received := 0
	for {
		select {
		case _, open := <-events:
			if !open {
				assert.LessOrEqual(t, received, 150)
				return
			}
			received++
		case <-deadline:
			t.Fatal("Channel did not close after cancel")
		}
	}
}

func TestRedisEventBroker_ActiveFlagRoundTrip(t *testing.T) {
	b := setupBroker(t)

	events, cancel, err := b.Subscribe()
	require.NoError(t, err)
	defer cancel()

	inactive := false
	require.NoError(t, b.Publish(broker.RoomEvent{
		Type:     broker.EventRoomActiveChanged,
		RoomID:   "room-3",
		IsActive: &inactive,
	}))

	received := waitForEvent(t, events)
	require.NotNil(t, received.IsActive)
	assert.False(t, *received.IsActive)
}
