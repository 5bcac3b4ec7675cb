package room

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "room not found")
	ErrRoomNumberTaken    = apperror.New(http.StatusConflict, "room number already exists")
	ErrRoomNumberRequired = apperror.New(http.StatusBadRequest, "room number is required")
	ErrInvalidType        = apperror.New(http.StatusBadRequest, "invalid room type")
	ErrInvalidPrice       = apperror.New(http.StatusBadRequest, "price per night must not be negative")
	ErrInvalidCapacity    = apperror.New(http.StatusBadRequest, "capacity must be at least 1")
	ErrInvalidStatus      = apperror.New(http.StatusBadRequest, "invalid room status")
	ErrRoomInUse          = apperror.New(http.StatusConflict, "room has reservations and cannot be deleted")
)

// Status is the cached operational state of a room.
// AVAILABLE and OCCUPIED follow the reservations checked in to the room;
// MAINTENANCE is set by an administrator.
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusOccupied    Status = "OCCUPIED"
	StatusMaintenance Status = "MAINTENANCE"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusMaintenance:
		return true
	}
	return false
}

// ValidRoomTypes lists the accepted values of Room.Type.
var ValidRoomTypes = []string{"SINGLE", "DOUBLE", "TWIN", "SUITE", "DELUXE"}

func isValidType(t string) bool {
	for _, v := range ValidRoomTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Room is a bookable unit.
type Room struct {
	ID            string
	RoomNumber    string
	Type          string
	PricePerNight float64
	Status        Status
	Capacity      int
	Amenities     []string
	ImageFileID   *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Filter defines parameters for listing rooms.
type Filter struct {
	Type        string
	Status      Status
	MinCapacity int
	MaxPrice    *float64
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
