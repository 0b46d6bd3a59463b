package config

import (
	"os"
	"strconv"
)

type Config struct {
	// Server
	ServerPort string
	ServerHost string

	// Database
	DatabaseURL  string
	DatabaseType string // "postgres" or "sqlite"

	// Session
	JWTSecret     string
	SessionMaxAge int // hours
	CookieSecure  bool

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// App
	FrontendOrigin string
	AppName        string
	AdminEmail     string
	AdminName      string
}

func Load() *Config {
	return &Config{
		// Server
		ServerPort: getEnv("SERVER_PORT", "8000"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),

		// Database
		DatabaseURL:  getEnv("DATABASE_URL", "tracker.db"),
		DatabaseType: getEnv("DATABASE_TYPE", "sqlite"),

		// Session
		JWTSecret:     getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
		SessionMaxAge: getEnvInt("SESSION_MAX_AGE_HOURS", 24),
		CookieSecure:  getEnvBool("COOKIE_SECURE", false),

		// Google OAuth
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8000/callback"),

		// App
		FrontendOrigin: getEnv("FRONTEND_ORIGIN", "http://localhost:3000"),
		AppName:        getEnv("APP_NAME", "TrackerPlatform"),
		AdminEmail:     getEnv("ADMIN_EMAIL", "admin@taskhive.io"),
		AdminName:      getEnv("ADMIN_NAME", "Admin"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
