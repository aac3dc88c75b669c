package cache

import (
	"context"
	"encoding/json"
	"time"

	"hotel-backoffice/internal/models"
	"hotel-backoffice/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const availableRoomsKey = "rooms:available"

var cacheEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "backoffice",
		Name:      "cache_events_total",
		Help:      "Cache hits/misses/sets/invalidations.",
	},
	[]string{"cache", "event"},
)

// Collectors returns the cache metrics for registration at startup.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{cacheEvents}
}

// RoomCache is a read-through cache for the public available-rooms listing.
// Every failure degrades to the database; the cache never fails a request.
type RoomCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRoomCache(client *redis.Client, ttl time.Duration) *RoomCache {
	return &RoomCache{
		client: client,
		ttl:    ttl,
	}
}

// GetAvailable returns the cached listing and whether it was present.
func (c *RoomCache) GetAvailable(ctx context.Context) ([]*models.Room, bool) {
	data, err := c.client.Get(ctx, availableRoomsKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("Room cache read failed",
				zap.Error(err),
			)
		}
		cacheEvents.WithLabelValues("rooms_available", "miss").Inc()
		return nil, false
	}

	var rooms []*models.Room
	if err := json.Unmarshal(data, &rooms); err != nil {
		logger.Log.Warn("Room cache payload corrupt, dropping it",
			zap.Error(err),
		)
		_ = c.client.Del(ctx, availableRoomsKey).Err()
		cacheEvents.WithLabelValues("rooms_available", "miss").Inc()
		return nil, false
	}

	cacheEvents.WithLabelValues("rooms_available", "hit").Inc()
	return rooms, true
}

func (c *RoomCache) SetAvailable(ctx context.Context, rooms []*models.Room) {
	data, err := json.Marshal(rooms)
	if err != nil {
		logger.Log.Warn("Room cache marshal failed",
			zap.Error(err),
		)
		return
	}

	if err := c.client.Set(ctx, availableRoomsKey, data, c.ttl).Err(); err != nil {
		logger.Log.Warn("Room cache write failed",
			zap.Error(err),
		)
		return
	}
	cacheEvents.WithLabelValues("rooms_available", "set").Inc()
}

// Invalidate drops the cached listing. Called after every room mutation.
func (c *RoomCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, availableRoomsKey).Err(); err != nil {
		logger.Log.Warn("Room cache invalidation failed",
			zap.Error(err),
		)
		return
	}
	cacheEvents.WithLabelValues("rooms_available", "invalidate").Inc()
}
