package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chowkidaar/nvr-backend-go/internal/config"
	"github.com/chowkidaar/nvr-backend-go/internal/handler"
	"github.com/chowkidaar/nvr-backend-go/internal/middleware"
	"github.com/chowkidaar/nvr-backend-go/internal/service"
)

// Services bundles everything the router wires into handlers
type Services struct {
	Auth     *service.AuthService
	Users    *service.UserService
	Cameras  *service.CameraService
	Events   *service.EventService
	Heatmap  *service.HeatmapService
	Settings *service.SettingsService
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, svc Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.RateLimit(300, time.Minute))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "NVR dashboard API is running",
		})
	})

	authHandler := handler.NewAuthHandler(svc.Auth, svc.Users)
	userHandler := handler.NewUserHandler(svc.Users)
	cameraHandler := handler.NewCameraHandler(svc.Cameras, svc.Heatmap)
	eventHandler := handler.NewEventHandler(svc.Events)
	heatmapHandler := handler.NewHeatmapHandler(svc.Heatmap)
	settingsHandler := handler.NewSettingsHandler(svc.Settings)

	// API 路由组
	api := r.Group("/api/v1")
	{
		api.POST("/auth/login", authHandler.Login)

		authed := api.Group("")
		authed.Use(middleware.Auth(svc.Auth))
		{
			authed.GET("/auth/me", authHandler.Me)

			// 用户管理接口（仅管理员）
			users := authed.Group("/users")
			users.Use(middleware.RequireAdmin())
			{
				users.GET("", userHandler.List)
				users.POST("", userHandler.Create)
				users.GET("/:id", userHandler.Get)
				users.PUT("/:id", userHandler.Update)
				users.DELETE("/:id", userHandler.Delete)
			}

			// 摄像头配置接口
			cameras := authed.Group("/cameras")
			{
				cameras.GET("", cameraHandler.List)
				cameras.POST("", cameraHandler.Create)
				cameras.GET("/:id", cameraHandler.Get)
				cameras.PUT("/:id", cameraHandler.Update)
				cameras.DELETE("/:id", cameraHandler.Delete)

				// 检测密度热力图接口
				cameras.GET("/:id/heatmap", heatmapHandler.Overlay)
				cameras.GET("/:id/heatmap/stats", heatmapHandler.Stats)
				cameras.GET("/:id/heatmap/classes", heatmapHandler.Classes)
				cameras.PUT("/:id/heatmap/classes", heatmapHandler.SetClasses)
			}

			// 事件接口
			events := authed.Group("/events")
			{
				events.GET("", eventHandler.List)
				events.POST("", eventHandler.Ingest)
				events.GET("/stats", eventHandler.Stats)
				events.GET("/:id", eventHandler.Get)
				events.PUT("/:id", eventHandler.Update)
				events.DELETE("/:id", eventHandler.Delete)
				events.POST("/acknowledge-all", eventHandler.AcknowledgeAll)
			}

			// 设置接口
			authed.GET("/settings", settingsHandler.Get)
			authed.PUT("/settings", settingsHandler.Update)
		}
	}

	return r
}
