package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/dashboard"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/daterange"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/pkg/request"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/pkg/response"
	reservationhttp "github.com/nekogravitycat/lodging-reservation-backend/internal/reservation/http"
	userhttp "github.com/nekogravitycat/lodging-reservation-backend/internal/user/http"
)

const defaultRecentLimit = 10

type DashboardHandler struct {
	service     dashboard.Service
	maxPageSize int
}

func NewHandler(service dashboard.Service, maxPageSize int) *DashboardHandler {
	return &DashboardHandler{service: service, maxPageSize: maxPageSize}
}

// Stats returns room and reservation counts, occupancy rate and revenue.
func (h *DashboardHandler) Stats(c *gin.Context) {
	s, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewStatsResponse(s))
}

// Occupancy returns the daily occupancy between from and to, inclusive.
func (h *DashboardHandler) Occupancy(c *gin.Context) {
	var req OccupancyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	from, err := daterange.ParseDate(req.From)
	if err != nil {
		response.Error(c, err)
		return
	}
	to, err := daterange.ParseDate(req.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	series, err := h.service.Occupancy(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]DailyOccupancyResponse, len(series))
	for i, d := range series {
		items[i] = NewDailyOccupancyResponse(d)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// RecentReservations returns the newest reservations.
func (h *DashboardHandler) RecentReservations(c *gin.Context) {
	var req RecentReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	limit := request.ClampLimit(req.Limit, defaultRecentLimit, h.maxPageSize)

	list, err := h.service.RecentReservations(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]reservationhttp.ReservationResponse, len(list))
	for i, r := range list {
		items[i] = reservationhttp.NewReservationResponse(r)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Users lists accounts, newest first.
// Access Control: Admin only.
func (h *DashboardHandler) Users(c *gin.Context) {
	var req ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	req.Normalize(h.maxPageSize)

	users, total, err := h.service.Users(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]userhttp.UserResponse, len(users))
	for i, u := range users {
		items[i] = userhttp.NewUserResponse(u)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// Audit reports rooms whose cached status disagrees with their checked-in reservations.
func (h *DashboardHandler) Audit(c *gin.Context) {
	drift, err := h.service.Audit(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := AuditResponse{Consistent: len(drift) == 0, Drift: make([]StatusDriftResponse, len(drift))}
	for i, d := range drift {
		resp.Drift[i] = StatusDriftResponse{
			RoomID:         d.RoomID,
			RoomNumber:     d.RoomNumber,
			CachedStatus:   string(d.Cached),
			ExpectedStatus: string(d.Expected),
		}
	}
	c.JSON(http.StatusOK, resp)
}
