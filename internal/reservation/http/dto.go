package http

import (
	"time"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/daterange"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/pkg/request"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/reservation"
	roomhttp "github.com/nekogravitycat/lodging-reservation-backend/internal/room/http"
	userhttp "github.com/nekogravitycat/lodging-reservation-backend/internal/user/http"
)

// CreateReservationRequest books a room for the caller.
// Dates are YYYY-MM-DD; check-out is the departure day.
type CreateReservationRequest struct {
	RoomID   string `json:"room_id" binding:"required,uuid"`
	CheckIn  string `json:"check_in" binding:"required"`
	CheckOut string `json:"check_out" binding:"required"`
}

// ListReservationsRequest defines query parameters for listing reservations.
// user_id is honoured for staff only.
type ListReservationsRequest struct {
	request.ListParams
	UserID string `form:"user_id" binding:"omitempty,uuid"`
	RoomID string `form:"room_id" binding:"omitempty,uuid"`
	Status string `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED CHECKED_IN CHECKED_OUT CANCELLED"`
	From   string `form:"from"`
	To     string `form:"to"`
	SortBy string `form:"sort_by" binding:"omitempty,oneof=check_in_date check_out_date created_at updated_at"`
}

type ReservationResponse struct {
	ID        string           `json:"id"`
	User      userhttp.UserTag `json:"user"`
	Room      roomhttp.RoomTag `json:"room"`
	CheckIn   string           `json:"check_in"`
	CheckOut  string           `json:"check_out"`
	Nights    int              `json:"nights"`
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func NewReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:        r.ID,
		User:      userhttp.UserTag{ID: r.UserID, Name: r.UserEmail},
		Room:      roomhttp.RoomTag{ID: r.RoomID, RoomNumber: r.RoomNumber},
		CheckIn:   r.CheckInDate.Format(daterange.DateLayout),
		CheckOut:  r.CheckOutDate.Format(daterange.DateLayout),
		Nights:    r.Range().Nights(),
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
