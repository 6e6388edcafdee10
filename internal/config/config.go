package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mr1hm/go-seaglass-map/internal/locale"
	"github.com/mr1hm/go-seaglass-map/internal/models"
	"github.com/mr1hm/go-seaglass-map/internal/scoring"
)

type Config struct {
	Server  ServerConfig
	Worker  WorkerConfig
	Dataset DatasetConfig
	DB      DatabaseConfig
	Logging LoggingConfig
	Scoring ScoringConfig
	Locale  LocaleConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	RateLimitRPS int
	CORSOrigins  []string
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

type DatasetConfig struct {
	ZonesSource    string
	AreasSource    string
	RiversSource   string
	ReloadEnabled  bool
	ReloadInterval time.Duration
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ScoringConfig struct {
	Weights scoring.Weights
}

type LocaleConfig struct {
	Default models.Locale
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "localhost"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			RateLimitRPS: getEnvInt("RATE_LIMIT_RPS", 10),
			CORSOrigins:  getEnvList("CORS_ORIGINS", []string{"*"}),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 2),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 64),
		},
		Dataset: DatasetConfig{
			ZonesSource:    getEnv("ZONES_SOURCE", "./data/zones.geojson"),
			AreasSource:    getEnv("AREAS_SOURCE", "./data/protected_areas.geojson"),
			RiversSource:   getEnv("RIVERS_SOURCE", "./data/rivers.geojson"),
			ReloadEnabled:  getEnvBool("DATASET_RELOAD_ENABLED", true),
			ReloadInterval: getEnvDuration("DATASET_RELOAD_INTERVAL", time.Hour),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/seaglass.db"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Locale: LocaleConfig{
			Default: models.Locale(getEnv("DEFAULT_LOCALE", string(locale.Default))),
		},
	}

	weights, err := getEnvWeights("SCORE_WEIGHTS", scoring.DefaultWeights)
	if err != nil {
		return nil, err
	}
	cfg.Scoring.Weights = weights

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimitRPS < 1 {
		return fmt.Errorf("rate limit must be at least 1 request per second")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Worker.Count < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}
	if c.Dataset.ReloadEnabled && c.Dataset.ReloadInterval < time.Minute {
		return fmt.Errorf("dataset reload interval must be at least 1 minute")
	}

	if err := c.Scoring.Weights.Validate(); err != nil {
		return fmt.Errorf("invalid SCORE_WEIGHTS: %w", err)
	}

	if !locale.IsSupported(c.Locale.Default) {
		return fmt.Errorf("unsupported default locale: %s", c.Locale.Default)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// getEnvWeights parses a comma separated weight list ordered historical,
// morphology, river, ocean, population. A malformed value is an error.
func getEnvWeights(key string, fallback scoring.Weights) (scoring.Weights, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}

	parts := strings.Split(val, ",")
	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return scoring.Weights{}, fmt.Errorf("invalid %s: %w", key, err)
		}
		values = append(values, f)
	}

	w, err := scoring.NewWeights(values)
	if err != nil {
		return scoring.Weights{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return w, nil
}
