package utils

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	port string

	adminUsername string
	adminPassword string
	sessionExpire time.Duration

	dbPath             string
	staticWebClientDir string
}

func NewConfig() *Config {
	return &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),

		adminUsername: func() string {
			adminUsername := os.Getenv("ADMIN_USERNAME")
			if adminUsername == "" {
				adminUsername = "admin"
			}
			slog.Debug("env", "ADMIN_USERNAME", adminUsername)
			return adminUsername
		}(),
		adminPassword: func() string {
			adminPassword := os.Getenv("ADMIN_PASSWORD")
			if adminPassword == "" {
				slog.Error("ADMIN_PASSWORD is not set")
				os.Exit(1)
			}
			return adminPassword
		}(),
		sessionExpire: func() time.Duration {
			sessionExpire := os.Getenv("SESSION_EXPIRE")
			if sessionExpire == "" {
				sessionExpire = "168h" // 1 week
			}
			duration, err := time.ParseDuration(sessionExpire)
			if err != nil {
				slog.Error("invalid SESSION_EXPIRE", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "SESSION_EXPIRE", sessionExpire, "duration", duration)
			return duration
		}(),

		dbPath: func() string {
			dbPath := os.Getenv("DB_PATH")
			if dbPath == "" {
				dbPath = "./sqlite.db"
			}
			slog.Debug("env", "DB_PATH", dbPath)
			return dbPath
		}(),
		staticWebClientDir: func() string {
			staticWebClientDir := os.Getenv("STATIC_WEB_CLIENT_DIR")
			if staticWebClientDir == "" {
				slog.Warn("STATIC_WEB_CLIENT_DIR is not set, not serving the web client")
				return ""
			}
			info, err := os.Stat(staticWebClientDir)
			if err != nil {
				slog.Error("can't get info of STATIC_WEB_CLIENT_DIR", "error", err)
				os.Exit(1)
			}
			if !info.IsDir() {
				slog.Error("STATIC_WEB_CLIENT_DIR is not a directory")
				os.Exit(1)
			}
			slog.Debug("env", "STATIC_WEB_CLIENT_DIR", staticWebClientDir)
			return filepath.Clean(staticWebClientDir)
		}(),
	}
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get ADMIN_USERNAME env, default to "admin"
func (c *Config) GetAdminUsername() string {
	return c.adminUsername
}

// Get ADMIN_PASSWORD env
func (c *Config) GetAdminPassword() string {
	return c.adminPassword
}

// Get SESSION_EXPIRE env
func (c *Config) GetSessionExpire() time.Duration {
	return c.sessionExpire
}

// Get DB_PATH env, default to ./sqlite.db
func (c *Config) GetDBPath() string {
	return c.dbPath
}

// Get STATIC_WEB_CLIENT_DIR env, blank when unset
func (c *Config) GetStaticWebClientDir() string {
	return c.staticWebClientDir
}
