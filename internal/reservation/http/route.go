package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers reservation routes. Front desk transitions need staff.
func RegisterRoutes(g *gin.RouterGroup, h *ReservationHandler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	group := g.Group("/reservations")
	group.Use(authMiddleware)
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("/:id/cancel", h.Cancel)

		group.POST("/:id/confirm", staffMiddleware, h.Confirm)
		group.POST("/:id/check-in", staffMiddleware, h.CheckIn)
		group.POST("/:id/check-out", staffMiddleware, h.CheckOut)
	}
}
