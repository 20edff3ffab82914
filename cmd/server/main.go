package main

import (
	"log"
	"os"

	"github.com/chowkidaar/nvr-backend-go/internal/api"
	"github.com/chowkidaar/nvr-backend-go/internal/config"
	"github.com/chowkidaar/nvr-backend-go/internal/database"
	"github.com/chowkidaar/nvr-backend-go/internal/heatmap"
	"github.com/chowkidaar/nvr-backend-go/internal/repository"
	"github.com/chowkidaar/nvr-backend-go/internal/service"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化数据库
	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	db := database.GetDB()
	if err := database.NewMigrationManager(db, cfg.MigrationsPath).RunMigrations(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// 初始化仓库与服务
	userRepo := repository.NewUserRepository(db)
	cameraRepo := repository.NewCameraRepository(db)
	eventRepo := repository.NewEventRepository(db)
	detectionRepo := repository.NewDetectionRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	cameraService := service.NewCameraService(cameraRepo)
	eventService := service.NewEventService(eventRepo, cameraRepo)
	settingsService := service.NewSettingsService(settingsRepo)

	heatmapService := service.NewHeatmapService(cameraRepo, detectionRepo, heatmap.Config{
		CellSize:        cfg.HeatmapCellSize,
		Radius:          cfg.HeatmapRadius,
		MinThreshold:    cfg.HeatmapMinThreshold,
		RefreshInterval: cfg.HeatmapRefresh,
		WindowDays:      cfg.HeatmapWindowDays,
	})
	defer heatmapService.Close()

	// 初始管理员账号
	seedPassword := os.Getenv("ADMIN_PASSWORD")
	if seedPassword == "" {
		seedPassword = "change-me-on-first-login"
	}
	if err := userService.EnsureSeedAdmin("admin", seedPassword); err != nil {
		log.Fatal("Failed to seed admin account:", err)
	}

	// 初始化路由
	router := api.SetupRouter(cfg, api.Services{
		Auth:     authService,
		Users:    userService,
		Cameras:  cameraService,
		Events:   eventService,
		Heatmap:  heatmapService,
		Settings: settingsService,
	})

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
