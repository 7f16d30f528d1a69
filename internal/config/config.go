package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL    = "http://localhost:8000"
	defaultStore      = StoreSQLite
	defaultDBPath     = "pdfchat.db"
	defaultRedisAddr  = "127.0.0.1:6379"
	defaultSessionKey = "doc_id"
	defaultLogFile    = "pdfchat.log"
	envPrefix         = "PDFCHAT_"
)

// Supported session store backends.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	BaseURL        string
	Store          string
	DBPath         string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	SessionKey     string
	RequestTimeout time.Duration // zero means no client-side timeout
	LogLevel       slog.Level
	LogFile        string
	PickerDir      string
}

func NewConfig(baseURL string) *Config {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Config{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Store:      defaultStore,
		DBPath:     defaultDBPath,
		RedisAddr:  defaultRedisAddr,
		SessionKey: defaultSessionKey,
		LogLevel:   slog.LevelInfo,
		LogFile:    defaultLogFile,
	}
}

// Load builds a Config from PDFCHAT_* environment variables, falling back to
// defaults for anything unset.
func Load() (*Config, error) {
	cfg := NewConfig(getenv("BASE_URL"))

	if v := getenv("STORE"); v != "" {
		cfg.Store = strings.ToLower(v)
	}
	switch cfg.Store {
	case StoreSQLite, StoreRedis, StoreMemory:
	default:
		return nil, fmt.Errorf("unsupported store %q", cfg.Store)
	}

	if v := getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	cfg.RedisPassword = getenv("REDIS_PASSWORD")
	if v := getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse %sREDIS_DB: %w", envPrefix, err)
		}
		cfg.RedisDB = db
	}
	if v := getenv("SESSION_KEY"); v != "" {
		cfg.SessionKey = v
	}
	if v := getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse %sREQUEST_TIMEOUT: %w", envPrefix, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("%sREQUEST_TIMEOUT must not be negative", envPrefix)
		}
		cfg.RequestTimeout = d
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("parse %sLOG_LEVEL: %w", envPrefix, err)
		}
	}
	if v := getenv("LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	cfg.PickerDir = getenv("PICKER_DIR")

	return cfg, nil
}

func getenv(name string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + name))
}
