package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/daterange"
	filehttp "github.com/nekogravitycat/lodging-reservation-backend/internal/file/http"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/pkg/request"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/pkg/response"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/room"
)

// Operations are the room actions that depend on reservations.
type Operations interface {
	CheckAvailability(ctx context.Context, roomID string, rng daterange.Range) (bool, error)
	SetRoomMaintenance(ctx context.Context, roomID string, on bool) (*room.Room, error)
}

type RoomHandler struct {
	roomService    room.Service
	ops            Operations
	fileHandler    *filehttp.Handler
	maxPageSize    int
	maxUploadBytes int64
}

func NewHandler(roomService room.Service, ops Operations, fileHandler *filehttp.Handler, maxPageSize int, maxUploadBytes int64) *RoomHandler {
	return &RoomHandler{
		roomService:    roomService,
		ops:            ops,
		fileHandler:    fileHandler,
		maxPageSize:    maxPageSize,
		maxUploadBytes: maxUploadBytes,
	}
}

// List retrieves a paginated list of rooms.
func (h *RoomHandler) List(c *gin.Context) {
	var req ListRoomsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	req.Normalize(h.maxPageSize)

	filter := room.Filter{
		Type:        strings.ToUpper(req.Type),
		Status:      room.Status(req.Status),
		MinCapacity: req.MinCapacity,
		MaxPrice:    req.MaxPrice,
		Page:        req.Page,
		PageSize:    req.PageSize,
		SortBy:      req.SortBy,
		SortOrder:   strings.ToUpper(req.SortOrder),
	}

	rooms, total, err := h.roomService.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]RoomResponse, len(rooms))
	for i, r := range rooms {
		items[i] = NewRoomResponse(r)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *RoomHandler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	r, err := h.roomService.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRoomResponse(r))
}

// Create adds a room.
// Access Control: Admin only.
func (h *RoomHandler) Create(c *gin.Context) {
	var body CreateRoomRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	r, err := h.roomService.Create(c.Request.Context(), room.CreateRequest{
		RoomNumber:    body.RoomNumber,
		Type:          body.Type,
		PricePerNight: *body.PricePerNight,
		Capacity:      body.Capacity,
		Amenities:     body.Amenities,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewRoomResponse(r))
}

// Update modifies room attributes.
// Access Control: Admin only.
func (h *RoomHandler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body UpdateRoomRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	r, err := h.roomService.Update(c.Request.Context(), uri.ID, room.UpdateRequest{
		RoomNumber:    body.RoomNumber,
		Type:          body.Type,
		PricePerNight: body.PricePerNight,
		Capacity:      body.Capacity,
		Amenities:     body.Amenities,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRoomResponse(r))
}

// Delete removes a room that has never been reserved.
// Access Control: Admin only.
func (h *RoomHandler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.roomService.Delete(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetMaintenance switches the maintenance override of a room.
// Access Control: Admin only.
func (h *RoomHandler) SetMaintenance(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body MaintenanceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	r, err := h.ops.SetRoomMaintenance(c.Request.Context(), uri.ID, *body.Maintenance)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRoomResponse(r))
}

// Availability reports whether the room can be booked for [check_in, check_out).
func (h *RoomHandler) Availability(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var q AvailabilityRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	in, err := daterange.ParseDate(q.CheckIn)
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := daterange.ParseDate(q.CheckOut)
	if err != nil {
		response.Error(c, err)
		return
	}
	rng, err := daterange.New(in, out)
	if err != nil {
		response.Error(c, err)
		return
	}

	ok, err := h.ops.CheckAvailability(c.Request.Context(), uri.ID, rng)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, AvailabilityResponse{
		RoomID:    uri.ID,
		CheckIn:   rng.CheckIn.Format(daterange.DateLayout),
		CheckOut:  rng.CheckOut.Format(daterange.DateLayout),
		Nights:    rng.Nights(),
		Available: ok,
	})
}

// UploadImage stores a photo and attaches it to the room.
// Access Control: Admin only.
func (h *RoomHandler) UploadImage(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if _, err := h.roomService.GetByID(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	h.fileHandler.HandleFileUpload(c, filehttp.FileUploadConfig{
		FormFieldName: "image",
		MaxSizeBytes:  h.maxUploadBytes,
		AllowedTypes:  filehttp.ImageTypes,
		ResizeImage:   true,
		AfterUpload: func(ctx context.Context, fileID string) error {
			return h.roomService.SetImage(ctx, uri.ID, fileID)
		},
	})
}
