package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/api"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/auth"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/dashboard"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/file"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/pkg/clock"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/pkg/storage"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/reservation"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/room"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	DBPool         *pgxpool.Pool
	JWTSecret      string
	JWTTTL         time.Duration
	BcryptCost     int
	Clock          clock.Clock
	MaxPageSize    int
	MaxSeriesDays  int
	StorageDriver  string
	UploadDir      string
	S3Bucket       string
	S3Prefix       string
	MaxUploadBytes int64
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router             *gin.Engine
	JWTManager         *auth.JWTManager
	UserService        user.Service
	RoomService        room.Service
	ReservationService reservation.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	if cfg.Clock == nil {
		cfg.Clock = clock.New(time.UTC)
	}

	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	store, err := newStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("init upload storage: %w", err)
	}

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// File Module
	fileRepo := file.NewPgxRepository(cfg.DBPool)
	fileService := file.NewService(fileRepo, store)

	// Room Module
	roomRepo := room.NewPgxRepository(cfg.DBPool)
	roomService := room.NewService(roomRepo)

	// Reservation Module
	txManager := reservation.NewPgxTxManager(cfg.DBPool)
	reservationRepo := reservation.NewPgxRepository(cfg.DBPool)
	reservationService := reservation.NewService(txManager, reservationRepo, roomRepo, cfg.Clock)

	// Dashboard Module
	dashboardService := dashboard.NewService(txManager, userService, cfg.MaxSeriesDays)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		MaxPageSize:        cfg.MaxPageSize,
		MaxUploadBytes:     cfg.MaxUploadBytes,
		UserService:        userService,
		RoomService:        roomService,
		ReservationService: reservationService,
		DashboardService:   dashboardService,
		FileService:        fileService,
		JWTManager:         jwtManager,
	})

	return &Container{
		Router:             router,
		JWTManager:         jwtManager,
		UserService:        userService,
		RoomService:        roomService,
		ReservationService: reservationService,
	}, nil
}

func newStorage(cfg Config) (storage.Storage, error) {
	if cfg.StorageDriver == "s3" {
		return storage.NewS3Storage(context.Background(), cfg.S3Bucket, cfg.S3Prefix)
	}
	return storage.NewLocalStorage(cfg.UploadDir)
}
