package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/auth"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/daterange"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/pkg/request"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/pkg/response"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/reservation"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/user"
)

type ReservationHandler struct {
	service     reservation.Service
	maxPageSize int
}

func NewHandler(service reservation.Service, maxPageSize int) *ReservationHandler {
	return &ReservationHandler{
		service:     service,
		maxPageSize: maxPageSize,
	}
}

func isStaff(c *gin.Context) bool {
	return user.Role(auth.GetUserRole(c)).IsStaff()
}

// Create books a room for the authenticated user.
func (h *ReservationHandler) Create(c *gin.Context) {
	var body CreateReservationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	in, err := daterange.ParseDate(body.CheckIn)
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := daterange.ParseDate(body.CheckOut)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.service.Create(c.Request.Context(), reservation.CreateRequest{
		UserID:   auth.GetUserID(c),
		RoomID:   body.RoomID,
		CheckIn:  in,
		CheckOut: out,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewReservationResponse(res))
}

// List returns reservations. Guests only ever see their own.
func (h *ReservationHandler) List(c *gin.Context) {
	var req ListReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	req.Normalize(h.maxPageSize)

	filter := reservation.Filter{
		UserID:    req.UserID,
		RoomID:    req.RoomID,
		Status:    reservation.Status(req.Status),
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: strings.ToUpper(req.SortOrder),
	}
	if !isStaff(c) {
		filter.UserID = auth.GetUserID(c)
	}
	if req.From != "" {
		from, err := daterange.ParseDate(req.From)
		if err != nil {
			response.Error(c, err)
			return
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := daterange.ParseDate(req.To)
		if err != nil {
			response.Error(c, err)
			return
		}
		filter.To = &to
	}

	list, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ReservationResponse, len(list))
	for i, r := range list {
		items[i] = NewReservationResponse(r)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// Get returns one reservation to its owner or to staff.
func (h *ReservationHandler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	res, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !isStaff(c) && res.UserID != auth.GetUserID(c) {
		response.Error(c, reservation.ErrUnauthorizedAccess)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(res))
}

// Confirm moves a pending reservation to CONFIRMED.
// Access Control: Staff only.
func (h *ReservationHandler) Confirm(c *gin.Context) {
	h.transition(c, h.service.Confirm)
}

// CheckIn marks the guest as arrived and the room as occupied.
// Access Control: Staff only.
func (h *ReservationHandler) CheckIn(c *gin.Context) {
	h.transition(c, h.service.CheckIn)
}

// CheckOut marks the guest as departed and releases the room.
// Access Control: Staff only.
func (h *ReservationHandler) CheckOut(c *gin.Context) {
	h.transition(c, h.service.CheckOut)
}

// Cancel cancels a reservation for its owner, or for staff on anyone's behalf.
func (h *ReservationHandler) Cancel(c *gin.Context) {
	requester := auth.GetUserID(c)
	staff := isStaff(c)
	h.transition(c, func(ctx context.Context, id string) (*reservation.Reservation, error) {
		return h.service.Cancel(ctx, id, requester, staff)
	})
}

func (h *ReservationHandler) transition(c *gin.Context, apply func(ctx context.Context, id string) (*reservation.Reservation, error)) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	res, err := apply(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(res))
}
