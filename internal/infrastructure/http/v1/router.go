// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"electa/internal/domain/auth"
	"electa/internal/domain/catalog/course"
	"electa/internal/domain/catalog/elective"
	"electa/internal/domain/choice"
	"electa/internal/domain/user"
	"electa/internal/infrastructure/http/v1/handlers"
	"electa/internal/infrastructure/http/v1/middleware"
	"electa/internal/infrastructure/sso"
	"electa/internal/infrastructure/storage/postgres"
	"electa/pkg/logger"
)

// RouterConfig holds the wired services the router exposes.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	JWTService *auth.JWTService
	SSOClient  *sso.Client

	Courses   *course.Service
	Electives *elective.Service
	Choices   *choice.Service
	Users     *user.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()

	// Auth endpoints; login and callback are public, the rest ride on a
	// valid session.
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.SSOClient, cfg.Users, cfg.JWTService)
	authGroup := router.Group("/auth")
	{
		authGroup.GET("/login", authHandler.Login)
		authGroup.GET("/callback", authHandler.Callback)

		sessionGroup := authGroup.Group("")
		sessionGroup.Use(middleware.Auth(cfg.JWTService))
		sessionGroup.POST("/logout", authHandler.Logout)
		sessionGroup.GET("/me", authHandler.Me)
	}

	// API v1 - everything requires an authenticated session; mutations on
	// the catalog and all account endpoints additionally require Admin.
	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.Auth(cfg.JWTService))

	adminOnly := middleware.RequireRole(string(user.RoleAdmin))

	choiceHandler := handlers.NewChoiceHandler(baseHandler, cfg.Choices)
	electiveHandler := handlers.NewElectiveHandler(baseHandler, cfg.Electives)

	// --- COURSES ---
	{
		handler := handlers.NewCourseHandler(baseHandler, cfg.Courses)
		g := apiV1.Group("/courses")
		g.GET("", handler.List)
		g.GET("/:id", handler.Get)
		g.GET("/:id/electives", electiveHandler.ListByCourse)
		g.POST("", adminOnly, handler.Create)
		g.PUT("/:id", adminOnly, handler.Update)
		g.DELETE("/:id", adminOnly, handler.Delete)
		g.DELETE("", adminOnly, handler.DeleteAll)
	}

	// --- ELECTIVES ---
	{
		handler := electiveHandler
		g := apiV1.Group("/electives")
		g.GET("", handler.List)
		g.GET("/:id", handler.Get)
		g.GET("/:id/choices", adminOnly, choiceHandler.ListByElective)
		g.POST("", adminOnly, handler.Create)
		g.POST("/from_file", adminOnly, handler.ImportFromFile)
		g.PUT("/:id", adminOnly, handler.Update)
		g.DELETE("/:id", adminOnly, handler.Delete)
		g.DELETE("", adminOnly, handler.DeleteAll)
	}

	// --- CHOICES (always scoped to the caller) ---
	{
		g := apiV1.Group("/choices")
		g.GET("", choiceHandler.List)
		g.PUT("", choiceHandler.Replace)
		g.DELETE("/:priority", choiceHandler.RemoveAtPriority)
	}

	// --- USERS (admin only) ---
	{
		handler := handlers.NewUserHandler(baseHandler, cfg.Users, cfg.Choices)
		g := apiV1.Group("/users", adminOnly)
		g.GET("", handler.List)
		g.GET("/:id", handler.Get)
		g.GET("/:id/choices", handler.GetChoices)
		// :id here is the provider subject, not the local UUID
		g.POST("/:id/promote", handler.Promote)
	}

	return router
}
