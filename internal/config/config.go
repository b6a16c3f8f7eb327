package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Postgres PostgresConfig
	Seed     SeedConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AllowedOrigins []string
}

// AuthConfig is built once at startup and shared by the token issuer and the auth gate.
type AuthConfig struct {
	JWTSecret string
	JWTTTL    string
	JWTLeeway string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

type SeedConfig struct {
	OnStart bool
}

// ClientConfig configures the kanban CLI.
type ClientConfig struct {
	APIURL        string
	SessionFile   string
	CheckInterval time.Duration
	ExpiryBuffer  time.Duration
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           getenv("PORT", "3001"),
			GinMode:        getenv("GIN_MODE", "release"),
			AllowedOrigins: splitList(getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			JWTTTL:    getenv("JWT_TTL", "2h"),
			JWTLeeway: getenv("JWT_LEEWAY", "0s"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		Seed: SeedConfig{
			OnStart: getenv("SEED_ON_START", "false") == "true",
		},
	}
}

func LoadClient() ClientConfig {
	return ClientConfig{
		APIURL:        getenv("KANBAN_API_URL", "http://localhost:3001"),
		SessionFile:   getenv("KANBAN_SESSION_FILE", defaultSessionFile()),
		CheckInterval: getduration("KANBAN_SESSION_CHECK_INTERVAL", time.Minute),
		ExpiryBuffer:  getduration("KANBAN_EXPIRY_BUFFER", time.Minute),
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".kanban-session.db"
	}
	return dir + string(os.PathSeparator) + "kanban" + string(os.PathSeparator) + "session.db"
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
