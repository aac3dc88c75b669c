package broker

import (
	"context"
	"encoding/json"

	"hotel-backoffice/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const roomEventsChannel = "rooms:events"

// RedisEventBroker implements RoomEventBroker using pub/sub
type RedisEventBroker struct {
	client *redis.Client
	ctx    context.Context
	log    *zap.Logger
}

func NewRedisEventBroker(client *redis.Client) (*RedisEventBroker, error) {
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisEventBroker{
		client: client,
		ctx:    ctx,
		log:    logger.Named("broker"),
	}, nil
}

func (b *RedisEventBroker) Publish(event RoomEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return b.client.Publish(b.ctx, roomEventsChannel, data).Err()
}

// Subscribe opens its own pub/sub connection per subscriber so multiple
// dashboard clients each get every event.
func (b *RedisEventBroker) Subscribe() (<-chan RoomEvent, func(), error) {
	pubsub := b.client.Subscribe(b.ctx, roomEventsChannel)

	// Force the subscription to be established before returning so a
	// Publish right after Subscribe is not lost.
	if _, err := pubsub.Receive(b.ctx); err != nil {
		pubsub.Close()
		return nil, nil, err
	}

	eventChan := make(chan RoomEvent, 100)

	go func() {
		defer close(eventChan)

		for redisMsg := range pubsub.Channel() {
			var event RoomEvent

			if err := json.Unmarshal([]byte(redisMsg.Payload), &event); err != nil {
				b.log.Warn("Dropping undecodable room event", zap.Error(err))
				continue
			}

			// Never block on a subscriber that stopped draining; dropping an
			// event is better than wedging this goroutine past cancel.
			select {
			case eventChan <- event:
			default:
				b.log.Warn("Dropping room event for slow subscriber",
					zap.String("type", string(event.Type)),
				)
			}
		}
	}()

	cancel := func() {
		_ = pubsub.Close()
	}

	return eventChan, cancel, nil
}

func (b *RedisEventBroker) Close() error {
	return b.client.Close()
}
