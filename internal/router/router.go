package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"schedule-service/internal/config"
	"schedule-service/internal/handler"
	"schedule-service/internal/metrics"
	"schedule-service/internal/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth          *handler.AuthHandler
	Tasks         *handler.TaskHandler
	Notifications *handler.NotificationHandler
	Comments      *handler.CommentHandler
	Chat          *handler.ChatHandler
	Catalogs      *handler.CatalogHandler
	Activity      *handler.ActivityHandler
	Health        *handler.HealthHandler
	WS            *handler.WebSocketHandler
}

func Setup(cfg *config.Config, validator middleware.TokenValidator, h Handlers, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS("*"))
	r.Use(metrics.Middleware())

	// Health endpoints (no auth)
	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)
	r.GET("/metrics", metrics.Handler())

	// WebSocket endpoint authenticates via token query parameter
	r.GET("/ws", h.WS.Serve)

	api := r.Group("/api")
	{
		api.POST("/auth/login", h.Auth.Login)

		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(validator))
		{
			authenticated.GET("/auth/me", h.Auth.Me)

			authenticated.GET("/tasks", h.Tasks.List)
			authenticated.POST("/tasks", h.Tasks.Create)
			authenticated.PUT("/tasks/:id", h.Tasks.Update)
			authenticated.DELETE("/tasks/:id", h.Tasks.Delete)
			authenticated.GET("/versions", h.Tasks.Versions)

			authenticated.GET("/notifications", h.Notifications.List)
			authenticated.GET("/notifications/unread-count", h.Notifications.UnreadCount)
			authenticated.PATCH("/notifications/:id/read", h.Notifications.MarkRead)
			authenticated.POST("/notifications/read-all", h.Notifications.MarkAllRead)
			authenticated.DELETE("/notifications/:id", h.Notifications.Delete)

			authenticated.GET("/comments", h.Comments.List)
			authenticated.POST("/comments", h.Comments.Create)
			authenticated.DELETE("/comments/:id", h.Comments.Delete)

			authenticated.GET("/chat", h.Chat.History)
			authenticated.POST("/chat", h.Chat.Post)

			authenticated.GET("/staff", h.Catalogs.ListStaff)
			authenticated.POST("/staff", h.Catalogs.AddStaff)
			authenticated.DELETE("/staff/:id", h.Catalogs.DeleteStaff)

			authenticated.GET("/services", h.Catalogs.ListServices)
			authenticated.POST("/services", h.Catalogs.AddService)
			authenticated.DELETE("/services/:id", h.Catalogs.DeleteService)

			authenticated.GET("/activity", h.Activity.List)
			authenticated.GET("/online-users", h.Activity.OnlineUsers)
		}
	}

	return r
}
