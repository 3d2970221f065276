package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root application configuration, read from the environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Log      LogConfig
	Metrics  MetricsConfig
}

type ServerConfig struct {
	Port            string        `env:"PORT"                 env-default:"8080"`
	Env             string        `env:"ENV"                  env-default:"development"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"     env-default:"10s"`
	CORSOrigins     string        `env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}

type DatabaseConfig struct {
	PostgresConnStr string `env:"POSTGRES_CONN_STR" env-required:"true"`
	MongoURI        string `env:"MONGO_URI"         env-required:"true"`
	MongoDatabase   string `env:"MONGO_DATABASE"    env-default:"inkwell"`
}

type AuthConfig struct {
	JWTSecret               string `env:"JWT_SECRET"                env-required:"true"`
	FirebaseCredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"json"`
}

type MetricsConfig struct {
	Enabled bool   `env:"METRICS_ENABLED" env-default:"true"`
	Port    string `env:"METRICS_PORT"    env-default:"9090"`
}

// Load reads a .env file when present, then the environment, then validates.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using process environment")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks rules the env tags cannot express.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Database.PostgresConnStr == "" || c.Database.MongoURI == "" {
		return fmt.Errorf("POSTGRES_CONN_STR and MONGO_URI must be set")
	}
	if c.Server.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.Metrics.Enabled && c.Metrics.Port == c.Server.Port {
		return fmt.Errorf("METRICS_PORT must differ from PORT (both %s)", c.Server.Port)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text (got %q)", c.Log.Format)
	}
	return nil
}

// IsProduction reports whether ENV names a production deployment.
func (c ServerConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c ServerConfig) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
