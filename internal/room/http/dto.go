package http

import (
	"time"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/file"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/pkg/request"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/room"
)

// ListRoomsRequest defines query parameters for listing rooms.
type ListRoomsRequest struct {
	request.ListParams
	Type        string   `form:"type"`
	Status      string   `form:"status" binding:"omitempty,oneof=AVAILABLE OCCUPIED MAINTENANCE"`
	MinCapacity int      `form:"min_capacity" binding:"omitempty,min=1"`
	MaxPrice    *float64 `form:"max_price" binding:"omitempty,min=0"`
	SortBy      string   `form:"sort_by" binding:"omitempty,oneof=room_number price_per_night capacity created_at"`
}

// CreateRoomRequest defines the payload for creating a room.
type CreateRoomRequest struct {
	RoomNumber    string   `json:"room_number" binding:"required"`
	Type          string   `json:"type" binding:"required"`
	PricePerNight *float64 `json:"price_per_night" binding:"required,min=0"`
	Capacity      int      `json:"capacity" binding:"required,min=1"`
	Amenities     []string `json:"amenities"`
}

// UpdateRoomRequest defines fields allowed to be updated via PATCH /rooms/:id.
type UpdateRoomRequest struct {
	RoomNumber    *string   `json:"room_number"`
	Type          *string   `json:"type"`
	PricePerNight *float64  `json:"price_per_night" binding:"omitempty,min=0"`
	Capacity      *int      `json:"capacity" binding:"omitempty,min=1"`
	Amenities     *[]string `json:"amenities"`
}

// MaintenanceRequest switches the maintenance override.
type MaintenanceRequest struct {
	Maintenance *bool `json:"maintenance" binding:"required"`
}

// AvailabilityRequest is the date window of an availability check.
type AvailabilityRequest struct {
	CheckIn  string `form:"check_in" binding:"required"`
	CheckOut string `form:"check_out" binding:"required"`
}

type AvailabilityResponse struct {
	RoomID    string `json:"room_id"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Nights    int    `json:"nights"`
	Available bool   `json:"available"`
}

type RoomResponse struct {
	ID                string    `json:"id"`
	RoomNumber        string    `json:"room_number"`
	Type              string    `json:"type"`
	PricePerNight     float64   `json:"price_per_night"`
	Status            string    `json:"status"`
	Capacity          int       `json:"capacity"`
	Amenities         []string  `json:"amenities"`
	ImageURL          *string   `json:"image_url"`
	ImageThumbnailURL *string   `json:"image_thumbnail_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// RoomTag is a brief representation of a room.
type RoomTag struct {
	ID         string `json:"id"`
	RoomNumber string `json:"room_number"`
}

func NewRoomResponse(r *room.Room) RoomResponse {
	resp := RoomResponse{
		ID:            r.ID,
		RoomNumber:    r.RoomNumber,
		Type:          r.Type,
		PricePerNight: r.PricePerNight,
		Status:        string(r.Status),
		Capacity:      r.Capacity,
		Amenities:     r.Amenities,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if resp.Amenities == nil {
		resp.Amenities = []string{}
	}
	if r.ImageFileID != nil {
		u := file.FileURL(*r.ImageFileID)
		t := file.ThumbnailURL(*r.ImageFileID)
		resp.ImageURL = &u
		resp.ImageThumbnailURL = &t
	}
	return resp
}
