package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Auth     AuthConfig
	SMTP     SMTPConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string // if set, used as-is; otherwise built from components
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis connection settings (magic-link rate limiting).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds session credential signing settings.
type JWTConfig struct {
	Secret             string
	SessionExpireHours int
}

// AuthConfig holds magic-link and invitation policy settings.
type AuthConfig struct {
	TokenExpireMinutes int      // magic-link lifetime
	AllowedDomains     []string // email domain suffixes, e.g. @edu.uni.pl
	AdminInviteToken   string   // seeds a starosta invitation when set
	MagicLinkCooldown  int      // seconds between magic-link requests per email
}

// SMTPConfig holds outbound mail transport settings.
type SMTPConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	TimeoutSec int
}

// AppConfig holds application identity and URLs.
type AppConfig struct {
	Name        string
	BackendURL  string
	FrontendURL string
	Debug       bool
}

// DSN returns the PostgreSQL connection string.
// If DatabaseConfig.URL is set (DATABASE_URL env), it is used as-is.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 30),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			DBName:   getEnv("POSTGRES_DB", "zapisy"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("SECRET_KEY", "change-me-in-production"),
			SessionExpireHours: getEnvInt("SESSION_EXPIRE_HOURS", 24),
		},
		Auth: AuthConfig{
			TokenExpireMinutes: getEnvInt("TOKEN_EXPIRE_MINUTES", 15),
			AllowedDomains:     splitTrim(getEnv("ALLOWED_DOMAINS", "@edu.uni.pl"), ","),
			AdminInviteToken:   getEnv("DEFAULT_ADMIN_INVITE_TOKEN", ""),
			MagicLinkCooldown:  getEnvInt("MAGIC_LINK_COOLDOWN_SEC", 60),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvInt("SMTP_PORT", 587),
			User:       getEnv("SMTP_USER", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			From:       getEnv("SMTP_FROM", "noreply@example.com"),
			TimeoutSec: getEnvInt("SMTP_TIMEOUT_SEC", 10),
		},
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Zapisy"),
			BackendURL:  getEnv("BACKEND_URL", "http://localhost:8080"),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
			Debug:       getEnvBool("DEBUG", false),
		},
	}
	if cfg.JWT.SessionExpireHours <= 0 {
		return nil, fmt.Errorf("SESSION_EXPIRE_HOURS must be positive")
	}
	if cfg.Auth.TokenExpireMinutes <= 0 {
		return nil, fmt.Errorf("TOKEN_EXPIRE_MINUTES must be positive")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitTrim(s, sep string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(s, sep) {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
