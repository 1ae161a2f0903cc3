package config

import (
	"os"

	"github.com/joho/godotenv"

	applog "appliancestore/internal/log"
)

const (
	DefaultAdminPassword = "admin"
	DefaultSessionSecret = "your-secret-key-change-in-production"
)

type Config struct {
	Port          string
	DBPath        string
	MediaDir      string
	TemplatesDir  string
	StaticDir     string
	LogFile       string
	LogLevel      string
	AdminUsername string
	AdminPassword string
	SessionSecret string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		applog.Info(nil, "config.dotenv.missing", nil)
	}

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		DBPath:        getEnv("DATABASE_PATH", "development.sqlite3"),
		MediaDir:      getEnv("MEDIA_DIR", "./web/media"),
		TemplatesDir:  getEnv("TEMPLATES_DIR", "./web/templates"),
		StaticDir:     getEnv("STATIC_DIR", "./web/static"),
		LogFile:       getEnv("LOG_FILE", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", DefaultAdminPassword),
		SessionSecret: getEnv("SESSION_SECRET", DefaultSessionSecret),
	}

	// never log credentials or the signing secret
	applog.Info(nil, "config.loaded", map[string]any{
		"port":           cfg.Port,
		"database_path":  cfg.DBPath,
		"media_dir":      cfg.MediaDir,
		"log_file":       cfg.LogFile,
		"admin_username": cfg.AdminUsername,
	})
	if cfg.SessionSecret == DefaultSessionSecret {
		applog.Security(nil, "config.default.secret", nil)
	}
	if cfg.AdminPassword == DefaultAdminPassword {
		applog.Security(nil, "config.default.password", nil)
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
