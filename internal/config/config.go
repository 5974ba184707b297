package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	RabbitMQ RabbitMQConfig
	Stats    StatsConfig
	Metrics  MetricsConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host            string
	Port            string
	GinMode         string
	Debug           bool
	ServiceName     string
	ServiceVersion  string
	Environment     string
	AllowOrigins    []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type RabbitMQConfig struct {
	URI      string
	Exchange string
}

type StatsConfig struct {
	Interval time.Duration
}

type MetricsConfig struct {
	Enabled bool
}

type LogConfig struct {
	Level slog.Level
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// Enabled reports whether both the broker URI and exchange are configured.
func (r RabbitMQConfig) Enabled() bool {
	return r.URI != "" && r.Exchange != ""
}

// Load reads the optional .env file and builds the configuration from the
// process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using system env")
	}

	return &Config{
		Server: ServerConfig{
			Host:            getEnv("HOST", "0.0.0.0"),
			Port:            getEnv("PORT", "8000"),
			GinMode:         getEnv("GIN_MODE", "debug"),
			Debug:           getEnvAsBool("DEBUG", true),
			ServiceName:     getEnv("SERVICE_NAME", "iqtest-service"),
			ServiceVersion:  getEnv("SERVICE_VERSION", "1.0.0"),
			Environment:     getEnv("APP_ENV", "development"),
			AllowOrigins:    getEnvAsList("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000", "http://localhost:8000"}),
			ReadTimeout:     getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		RabbitMQ: RabbitMQConfig{
			URI:      getEnv("RABBITMQ_URI", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", ""),
		},
		Stats: StatsConfig{
			Interval: getEnvAsDuration("STATS_INTERVAL", time.Hour),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
		},
		Log: LogConfig{
			Level: getEnvAsLevel("LOG_LEVEL", slog.LevelInfo),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		b, err := strconv.ParseBool(value)
		if err != nil {
			slog.Warn("invalid bool env var", "key", key, "error", err)
			return defaultValue
		}
		return b
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		duration, err := time.ParseDuration(value)
		if err != nil {
			slog.Warn("invalid duration env var", "key", key, "error", err)
			return defaultValue
		}
		return duration
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvAsLevel(key string, defaultValue slog.Level) slog.Level {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		slog.Warn("invalid log level env var", "key", key, "error", err)
		return defaultValue
	}
	return level
}
