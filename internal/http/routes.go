package http

import (
	"net/http"

	"taskmanager/internal/config"
	"taskmanager/internal/http/handlers"
	"taskmanager/internal/http/middleware"
	"taskmanager/pkg/apierrors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RegisterRoutes mounts the health probes, /metrics and the /api/v1 API.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, health *handlers.HealthHandler, auth middleware.Authenticator, cfg *config.Config) {
	r.Use(middleware.LanguageMiddleware())
	r.Use(middleware.Metrics())
	r.Use(middleware.GinZapMiddleware(zap.L()))

	// Health checks (no rate limiting)
	r.GET("/health", health.Health)
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")

	authRL := middleware.RedisRateLimit("auth", cfg.AuthRateLimit, cfg.AuthRateWindow)
	v1.POST("/auth/register", authRL, h.Register)
	v1.POST("/auth/login", authRL, h.Login)

	// everything below is per user, so the limiter runs after JWT
	api := v1.Group("")
	api.Use(middleware.JWT(auth))
	api.Use(middleware.RedisRateLimit("api", cfg.APIRateLimit, cfg.APIRateWindow))

	api.POST("/auth/logout", h.Logout)

	api.GET("/user/profile", h.GetProfile)
	api.PUT("/user/profile", h.UpdateProfile)
	api.GET("/user/activity", h.Activity)
	api.GET("/users", h.ListUsers)

	tasks := api.Group("/tasks")
	{
		tasks.GET("", h.ListTasks)
		tasks.POST("", h.CreateTask)
		tasks.GET("/:id", h.GetTask)
		tasks.PUT("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
		tasks.PUT("/:id/status", h.UpdateTaskStatus)

		tasks.GET("/:id/comments", h.ListComments)
		tasks.POST("/:id/comments", h.CreateComment)
		tasks.PUT("/comments/:id", h.UpdateComment)
		tasks.DELETE("/comments/:id", h.DeleteComment)

		tasks.GET("/:id/attachments", h.ListAttachments)
		tasks.POST("/:id/attachments", h.UploadAttachment)
		tasks.GET("/attachments/:id/download", h.DownloadAttachment)
		tasks.DELETE("/attachments/:id", h.DeleteAttachment)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, apierrors.CreateError(http.StatusNotFound, apierrors.MsgRouteNotFound, middleware.GetLang(c)))
	})
}
