package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers room routes. Every route needs an authenticated user;
// changes to the inventory need an administrator.
func RegisterRoutes(g *gin.RouterGroup, h *RoomHandler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	rooms := g.Group("/rooms")
	rooms.Use(authMiddleware)
	{
		rooms.GET("", h.List)
		rooms.GET("/:id", h.Get)
		rooms.GET("/:id/availability", h.Availability)

		rooms.POST("", adminMiddleware, h.Create)
		rooms.PATCH("/:id", adminMiddleware, h.Update)
		rooms.DELETE("/:id", adminMiddleware, h.Delete)
		rooms.PUT("/:id/maintenance", adminMiddleware, h.SetMaintenance)
		rooms.POST("/:id/image", adminMiddleware, h.UploadImage)
	}
}
