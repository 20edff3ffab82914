package config

import (
	"os"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	Port           string
	DBPath         string
	MigrationsPath string
	JWTSecret      string
	TokenTTL       time.Duration

	// Heatmap overlay tuning. These map one-to-one onto
	// heatmap.Config and are the only knobs the overlay exposes.
	HeatmapCellSize     int
	HeatmapRadius       float64
	HeatmapRefresh      time.Duration
	HeatmapMinThreshold float64
	HeatmapWindowDays   int
}

// Load 加载配置
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/nvr/nvr.db"
	}

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-in-production"
	}

	return &Config{
		Port:           port,
		DBPath:         dbPath,
		MigrationsPath: migrationsPath,
		JWTSecret:      jwtSecret,
		TokenTTL:       24 * time.Hour,

		HeatmapCellSize:     envInt("HEATMAP_CELL_SIZE", 20),
		HeatmapRadius:       envFloat("HEATMAP_INFLUENCE_RADIUS", 40),
		HeatmapRefresh:      time.Duration(envInt("HEATMAP_REFRESH_INTERVAL_MS", 30000)) * time.Millisecond,
		HeatmapMinThreshold: envFloat("HEATMAP_MIN_RENDER_THRESHOLD", 0.01),
		HeatmapWindowDays:   envInt("HEATMAP_WINDOW_DAYS", 7),
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
