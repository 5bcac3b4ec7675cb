package reservation

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/daterange"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/pkg/apperror"
)

var (
	ErrNotFound                = apperror.New(http.StatusNotFound, "reservation not found")
	ErrRoomNotAvailable        = apperror.New(http.StatusConflict, "room is not available for the requested dates")
	ErrInvalidStatusTransition = apperror.New(http.StatusBadRequest, "invalid reservation status transition")
	ErrUnauthorizedAccess      = apperror.New(http.StatusForbidden, "not allowed to modify this reservation")
	ErrInvalidStatus           = apperror.New(http.StatusBadRequest, "invalid reservation status")
	ErrInvalidInput            = apperror.New(http.StatusBadRequest, "invalid input parameters")
)

// Reservation is a guest's claim on a room for [CheckInDate, CheckOutDate).
// Its status only changes through the lifecycle transitions of Service.
type Reservation struct {
	ID           string
	UserID       string
	UserEmail    string
	RoomID       string
	RoomNumber   string
	CheckInDate  time.Time
	CheckOutDate time.Time
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Range returns the stay interval of the reservation.
func (r *Reservation) Range() daterange.Range {
	return daterange.Range{CheckIn: r.CheckInDate, CheckOut: r.CheckOutDate}
}

// Filter defines parameters for listing reservations.
type Filter struct {
	UserID    string
	RoomID    string
	Status    Status
	From      *time.Time // stays checking out after this date
	To        *time.Time // stays checking in on or before this date
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
