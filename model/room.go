// model/room.go
package model

import "time"

type RoomType string

const (
	RoomDorm    RoomType = "dorm"
	RoomPrivate RoomType = "private"
	RoomSuite   RoomType = "suite"
	RoomFamily  RoomType = "family"
)

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
	RoomCleaning    RoomStatus = "cleaning"
	RoomOutOfOrder  RoomStatus = "out_of_order"
)

// ValidRoomStatus reports whether s is one of the known room statuses.
func ValidRoomStatus(s RoomStatus) bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomMaintenance, RoomCleaning, RoomOutOfOrder:
		return true
	}
	return false
}

func ValidRoomType(t RoomType) bool {
	switch t {
	case RoomDorm, RoomPrivate, RoomSuite, RoomFamily:
		return true
	}
	return false
}

type Room struct {
	ID       int64    `json:"id"`
	Number   string   `json:"number"`
	Type     RoomType `json:"type"`
	Capacity int      `json:"capacity"`
	// CurrentOccupancy is derived: the count of checked_in reservations
	// referencing this room. It is recomputed, never incremented blindly.
	CurrentOccupancy int        `json:"current_occupancy"`
	BasePrice        float64    `json:"base_price"`
	Status           RoomStatus `json:"status"`
	Floor            int        `json:"floor"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
