package main

import (
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/perfhub/performance-hub-api/internal/auth"
	"github.com/perfhub/performance-hub-api/internal/config"
	"github.com/perfhub/performance-hub-api/internal/database"
	"github.com/perfhub/performance-hub-api/internal/handlers"
	"github.com/perfhub/performance-hub-api/internal/hierarchy"
	"github.com/perfhub/performance-hub-api/internal/middleware"
	"github.com/perfhub/performance-hub-api/internal/repository"
	"github.com/perfhub/performance-hub-api/internal/services"
)

func main() {
	// Load .env if present; real deployments set env vars directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize token signing
	if err := auth.Init(cfg.JWTSecret, cfg.TokenTTLMinutes); err != nil {
		log.Fatalf("Failed to initialize token signing: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// CORS for browser clients
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Initialize repositories
	userRepo := repository.NewUserRepository(database.GetDB())
	memberRepo := repository.NewTeamMemberRepository(database.GetDB())
	objectiveRepo := repository.NewObjectiveRepository(database.GetDB())
	meetingLogRepo := repository.NewMeetingLogRepository(database.GetDB())
	actionItemRepo := repository.NewActionItemRepository(database.GetDB())

	// Initialize services
	resolver := hierarchy.NewResolver(memberRepo)
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	memberService := services.NewTeamMemberService(memberRepo, userRepo, resolver)
	objectiveService := services.NewObjectiveService(objectiveRepo, memberRepo, resolver)
	meetingLogService := services.NewMeetingLogService(meetingLogRepo, memberRepo, resolver)
	actionItemService := services.NewActionItemService(actionItemRepo, memberRepo, resolver)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	memberHandler := handlers.NewTeamMemberHandler(memberService)
	objectiveHandler := handlers.NewObjectiveHandler(objectiveService)
	meetingLogHandler := handlers.NewMeetingLogHandler(meetingLogService)
	actionItemHandler := handlers.NewActionItemHandler(actionItemService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Performance Hub API is running",
		})
	})

	// Auth routes (public)
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/logout", authHandler.Logout)
		authRoutes.POST("/reset-password", authHandler.ResetPassword)
	}

	// User routes (protected)
	users := r.Group("/users")
	users.Use(middleware.RequireAuth())
	{
		users.GET("/me", userHandler.GetMe)
		users.PUT("/me", userHandler.UpdateMe)
		users.DELETE("/me", userHandler.DeleteMe)
		users.GET("", userHandler.List)
		users.POST("", userHandler.Create)
		users.GET("/:id", userHandler.Get)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
	}

	// Team member routes (protected)
	members := r.Group("/team-members")
	members.Use(middleware.RequireAuth())
	{
		members.GET("/me", memberHandler.GetMe)
		members.GET("/hierarchy", memberHandler.Hierarchy)
		members.GET("", memberHandler.List)
		members.POST("", memberHandler.Create)
		members.GET("/:id", memberHandler.Get)
		members.PUT("/:id", memberHandler.Update)
		members.DELETE("/:id", memberHandler.Delete)
	}

	// Objective and key result routes (protected)
	objectives := r.Group("/objectives")
	objectives.Use(middleware.RequireAuth())
	{
		objectives.GET("", objectiveHandler.List)
		objectives.POST("", objectiveHandler.Create)
		objectives.GET("/:id", objectiveHandler.Get)
		objectives.PUT("/:id", objectiveHandler.Update)
		objectives.DELETE("/:id", objectiveHandler.Delete)
		objectives.POST("/:id/key-results", objectiveHandler.AddKeyResult)
	}

	keyResults := r.Group("/key-results")
	keyResults.Use(middleware.RequireAuth())
	{
		keyResults.PUT("/:id", objectiveHandler.UpdateKeyResult)
		keyResults.DELETE("/:id", objectiveHandler.DeleteKeyResult)
	}

	// Meeting log routes (protected)
	meetingLogs := r.Group("/meeting-logs")
	meetingLogs.Use(middleware.RequireAuth())
	{
		meetingLogs.GET("", meetingLogHandler.List)
		meetingLogs.POST("", meetingLogHandler.Create)
		meetingLogs.GET("/:id", meetingLogHandler.Get)
		meetingLogs.PUT("/:id", meetingLogHandler.Update)
		meetingLogs.DELETE("/:id", meetingLogHandler.Delete)
	}

	// Action item routes (protected)
	actionItems := r.Group("/action-items")
	actionItems.Use(middleware.RequireAuth())
	{
		actionItems.GET("", actionItemHandler.List)
		actionItems.POST("", actionItemHandler.Create)
		actionItems.GET("/:id", actionItemHandler.Get)
		actionItems.PUT("/:id", actionItemHandler.Update)
		actionItems.DELETE("/:id", actionItemHandler.Delete)
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
