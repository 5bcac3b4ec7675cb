package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the reporting routes. All of them need staff; the user list needs an admin.
func RegisterRoutes(g *gin.RouterGroup, h *DashboardHandler, authMiddleware, staffMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/dashboard")
	group.Use(authMiddleware, staffMiddleware)
	{
		group.GET("/stats", h.Stats)
		group.GET("/occupancy", h.Occupancy)
		group.GET("/recent-reservations", h.RecentReservations)
		group.GET("/audit", h.Audit)
		group.GET("/users", adminMiddleware, h.Users)
	}
}
