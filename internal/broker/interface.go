package broker

import "time"

type EventType string

const (
	EventRoomCreated       EventType = "room_created"
	EventRoomUpdated       EventType = "room_updated"
	EventRoomDeleted       EventType = "room_deleted"
	EventRoomStatusChanged EventType = "room_status_changed"
	EventRoomActiveChanged EventType = "room_active_changed"
)

// RoomEvent is what dashboards see on the live feed.
type RoomEvent struct {
	Type       EventType `json:"type"`
	RoomID     string    `json:"roomId"`
	RoomNumber string    `json:"roomNumber"`
	Status     string    `json:"status,omitempty"`
	IsActive   *bool     `json:"isActive,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// RoomEventBroker fans room lifecycle events out to every subscriber,
// across API nodes. Subscribe returns the event channel plus a cancel
// function the subscriber must call when done.
type RoomEventBroker interface {
	Publish(event RoomEvent) error
	Subscribe() (<-chan RoomEvent, func(), error)
	Close() error
}
