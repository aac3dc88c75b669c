package main

import (
	"log"

	"hotel-backoffice/internal/audit"
	"hotel-backoffice/internal/broker"
	"hotel-backoffice/internal/cache"
	"hotel-backoffice/internal/config"
	"hotel-backoffice/internal/database"
	"hotel-backoffice/internal/handler"
	"hotel-backoffice/internal/media"
	"hotel-backoffice/internal/middleware"
	"hotel-backoffice/internal/models"
	"hotel-backoffice/internal/repository"
	"hotel-backoffice/internal/service"
	"hotel-backoffice/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	log.Println("Config loaded successfully")

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}
	redisClient := redis.NewClient(redisOpts)

	mediaStore, err := media.NewCloudinaryStore(cfg.CloudinaryURL)
	if err != nil {
		log.Fatalf("Failed to initialize media store: %v", err)
	}

	trail, err := audit.NewTrail(cfg.AuditLogPath)
	if err != nil {
		log.Fatalf("Failed to initialize audit trail: %v", err)
	}
	defer trail.Close()

	eventBroker, err := broker.NewRedisEventBroker(redisClient)
	if err != nil {
		log.Fatalf("Failed to initialize event broker: %v", err)
	}
	defer eventBroker.Close()

	roomCache := cache.NewRoomCache(redisClient, cfg.RoomCacheTTL)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	staffService := service.NewStaffService(userRepo, trail)
	roomService := service.NewRoomService(roomRepo, mediaStore, roomCache, eventBroker, trail)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	staffHandler := handler.NewStaffHandler(staffService)
	roomHandler := handler.NewRoomHandler(roomService)
	eventsHandler := handler.NewEventsHandler(eventBroker)

	// Rate limiter for the credential endpoints
	rateLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimiterConfig{
		MaxRequests: cfg.RateLimitMaxRequests,
		Window:      cfg.RateLimitWindow,
		BlockTime:   cfg.RateLimitBlockTime,
	})

	metricsRegistry := middleware.MetricsRegistry(cache.Collectors()...)

	router := gin.Default()
	router.Use(cors.Default())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(cfg.IsProduction()))
	router.Use(middleware.Metrics())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(middleware.MetricsHandler(metricsRegistry)))

	// Public auth routes, rate limited per IP
	auth := router.Group("/auth")
	{
		auth.POST("/register", rateLimiter.Middleware(), authHandler.Register)
		auth.POST("/login", rateLimiter.Middleware(), authHandler.Login)

		// Admin-only staff administration
		staff := auth.Group("")
		staff.Use(middleware.Authenticate(authService))
		staff.Use(middleware.RequireRoles(models.RoleAdmin))
		{
			staff.POST("/createstaff", staffHandler.CreateStaff)
			staff.GET("/staff", staffHandler.GetStaff)
			staff.PUT("/staff/:id", staffHandler.UpdateStaff)
			staff.DELETE("/staff/:id", staffHandler.DeleteStaff)
			staff.PATCH("/staff/:id/status", staffHandler.UpdateStaffStatus)
		}
	}

	// Room inventory. Role checks beyond authentication live in the service
	// layer, which knows the allow-list per operation.
	room := router.Group("/room")
	room.Use(middleware.Authenticate(authService))
	{
		room.POST("/createroom", roomHandler.CreateRoom)
		room.GET("/getroom", roomHandler.GetRooms)
		room.GET("/available", roomHandler.GetAvailableRooms)
		room.GET("/getsingleroom/:id", roomHandler.GetSingleRoom)
		room.PUT("/updateroom/:id", roomHandler.UpdateRoom)
		room.DELETE("/deleteroom/:id", roomHandler.DeleteRoom)
		room.PATCH("/updatestatus/:id/status", roomHandler.UpdateStatus)
		room.PATCH("/updateactivestatus/:id/active-status", roomHandler.UpdateActiveStatus)

		// Live inventory feed for back-office dashboards
		room.GET("/events", middleware.RequireRoles(models.StaffRoles...), eventsHandler.HandleEvents)
	}

	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
