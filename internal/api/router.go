package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/auth"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/dashboard"
	dashboardHttp "github.com/nekogravitycat/lodging-reservation-backend/internal/dashboard/http"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/file"
	fileHttp "github.com/nekogravitycat/lodging-reservation-backend/internal/file/http"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/reservation"
	reservationHttp "github.com/nekogravitycat/lodging-reservation-backend/internal/reservation/http"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/room"
	roomHttp "github.com/nekogravitycat/lodging-reservation-backend/internal/room/http"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/user"
	userHttp "github.com/nekogravitycat/lodging-reservation-backend/internal/user/http"
)

// Config carries the services the router exposes.
type Config struct {
	IsProduction       bool
	ProdOrigins        string
	MaxPageSize        int
	MaxUploadBytes     int64
	UserService        user.Service
	RoomService        room.Service
	ReservationService reservation.Service
	DashboardService   dashboard.Service
	FileService        file.Service
	JWTManager         *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000", // Front desk UI
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware validates the JWT and then loads the caller's role.
	tokenMiddleware := auth.AuthRequired(cfg.JWTManager)
	roleMiddleware := LoadRole(cfg.UserService)
	authMiddleware := func(c *gin.Context) {
		tokenMiddleware(c)
		if c.IsAborted() {
			return
		}
		roleMiddleware(c)
	}
	adminMiddleware := RequireRole(user.RoleAdmin)
	staffMiddleware := RequireRole(user.RoleAdmin, user.RoleStaff)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager, cfg.MaxPageSize)
	fileHandler := fileHttp.NewHandler(cfg.FileService)
	roomHandler := roomHttp.NewHandler(cfg.RoomService, cfg.ReservationService, fileHandler, cfg.MaxPageSize, cfg.MaxUploadBytes)
	reservationHandler := reservationHttp.NewHandler(cfg.ReservationService, cfg.MaxPageSize)
	dashboardHandler := dashboardHttp.NewHandler(cfg.DashboardService, cfg.MaxPageSize)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		fileHttp.RegisterRoutes(v1, fileHandler)
		roomHttp.RegisterRoutes(v1, roomHandler, authMiddleware, adminMiddleware)
		reservationHttp.RegisterRoutes(v1, reservationHandler, authMiddleware, staffMiddleware)
		dashboardHttp.RegisterRoutes(v1, dashboardHandler, authMiddleware, staffMiddleware, adminMiddleware)
	}

	return r
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
