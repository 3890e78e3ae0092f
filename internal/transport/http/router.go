package httptransport

import (
	"log/slog"

	"github.com/ShivamNishad0/tasktracker/internal/auth"
	"github.com/ShivamNishad0/tasktracker/internal/repository"
	"github.com/ShivamNishad0/tasktracker/internal/transport/http/handler"
	"github.com/ShivamNishad0/tasktracker/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
	tokens *auth.TokenService,
	users repository.UserRepository,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(tokens, users, logger)

	// Public user routes
	user := r.Group("/api/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	// Protected user routes
	user.GET("/me", authMW, authHandler.Me)
	user.PUT("/profile", authMW, authHandler.UpdateProfile)
	user.PUT("/password", authMW, authHandler.ChangePassword)

	// Protected task routes
	tasks := r.Group("/api/tasks", authMW)
	tasks.GET("", taskHandler.List)
	tasks.POST("", taskHandler.Create)
	tasks.GET("/:id", taskHandler.GetByID)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	return r
}
