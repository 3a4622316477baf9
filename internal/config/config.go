package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant_pos_backend/pkg/utils"

	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-only-restaurant-pos-secret-change-me"

// DBConfig holds the Postgres connection settings.
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders the lib/pq key=value connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Config is the full runtime configuration of the API server.
type Config struct {
	Env                string
	Port               string
	DB                 DBConfig
	JWTSecret          string
	JWTTTL             time.Duration
	UploadDir          string
	UploadMaxBytes     int64
	CORSAllowedOrigins []string
	AdminUsername      string
	AdminPassword      string
	LogLevel           string
	LogFile            string
	MetricsNamespace   string
}

// IsProduction reports whether APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		// A missing .env is normal outside local development.
		utils.LogDebug("No .env file loaded, using process environment", map[string]interface{}{"error": err.Error()})
	}

	cfg := &Config{
		Env:  utils.Getenv("APP_ENV", "development"),
		Port: utils.Getenv("PORT", "8080"),
		DB: DBConfig{
			Host:     utils.Getenv("DB_HOST", "localhost"),
			Port:     utils.Getenv("DB_PORT", "5432"),
			User:     utils.Getenv("DB_USER", "restaurant_user"),
			Password: utils.Getenv("DB_PASSWORD", "restaurant_password"),
			Name:     utils.Getenv("DB_NAME", "restaurant_pos_db"),
			SSLMode:  utils.Getenv("DB_SSLMODE", "disable"),
		},
		JWTSecret:        utils.Getenv("JWT_SECRET", ""),
		JWTTTL:           utils.GetenvDuration("JWT_TTL", utils.DefaultTokenTTL),
		UploadDir:        utils.Getenv("UPLOAD_DIR", "uploads/products"),
		UploadMaxBytes:   utils.GetenvInt64("UPLOAD_MAX_BYTES", 5<<20),
		AdminUsername:    utils.Getenv("ADMIN_USERNAME", "admin"),
		AdminPassword:    utils.Getenv("ADMIN_PASSWORD", "admin123"),
		LogLevel:         utils.Getenv("LOG_LEVEL", "info"),
		LogFile:          utils.Getenv("LOG_FILE", ""),
		MetricsNamespace: utils.Getenv("METRICS_NAMESPACE", "restaurant_pos"),
	}

	origins := utils.Getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = devJWTSecret
	}
	if cfg.UploadMaxBytes <= 0 {
		return nil, fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", cfg.UploadMaxBytes)
	}
	return cfg, nil
}
