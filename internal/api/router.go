package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	iauth "github.com/avelines/gradeboard/internal/auth"
	"github.com/avelines/gradeboard/internal/handlers"
	"github.com/avelines/gradeboard/internal/middleware"
	"github.com/avelines/gradeboard/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(students *services.StudentService, users *services.UserService, jwt *iauth.JWTService) (*gin.Engine, error) {
	if students == nil {
		return nil, fmt.Errorf("student service must be provided")
	}
	if users == nil {
		return nil, fmt.Errorf("user service must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	// Public endpoints
	r.GET("/health", handlers.Health())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(users, jwt)

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)
	}

	// Protected routes
	api := r.Group("/api")
	api.Use(middleware.Auth(jwt))

	api.GET("/auth/me", authHandler.Me)

	studentHandler := handlers.NewStudentHandler(students)
	roster := api.Group("/students")
	{
		roster.GET("", studentHandler.List)
		roster.POST("", studentHandler.Create)
		roster.PUT("/:id", studentHandler.Update)
		roster.DELETE("/:id", studentHandler.Delete)
	}

	perfHandler := handlers.NewPerformanceHandler(students)
	api.GET("/performance-metrics", perfHandler.Metrics)
	api.POST("/cache/clear", perfHandler.ClearCache)

	return r, nil
}
