package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, name := range []string{"BASE_URL", "STORE", "DB_PATH", "REDIS_ADDR", "REDIS_DB", "SESSION_KEY", "REQUEST_TIMEOUT", "LOG_LEVEL", "LOG_FILE"} {
		t.Setenv(envPrefix+name, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BaseURL != defaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, defaultBaseURL)
	}
	if cfg.Store != StoreSQLite {
		t.Errorf("Store = %q, want %q", cfg.Store, StoreSQLite)
	}
	if cfg.SessionKey != "doc_id" {
		t.Errorf("SessionKey = %q, want doc_id", cfg.SessionKey)
	}
	if cfg.RequestTimeout != 0 {
		t.Errorf("RequestTimeout = %v, want 0", cfg.RequestTimeout)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PDFCHAT_BASE_URL", "http://backend:9000/")
	t.Setenv("PDFCHAT_STORE", "Redis")
	t.Setenv("PDFCHAT_REDIS_DB", "3")
	t.Setenv("PDFCHAT_REQUEST_TIMEOUT", "45s")
	t.Setenv("PDFCHAT_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BaseURL != "http://backend:9000" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.BaseURL)
	}
	if cfg.Store != StoreRedis {
		t.Errorf("Store = %q, want %q", cfg.Store, StoreRedis)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("RedisDB = %d, want 3", cfg.RedisDB)
	}
	if cfg.RequestTimeout != 45*time.Second {
		t.Errorf("RequestTimeout = %v, want 45s", cfg.RequestTimeout)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"PDFCHAT_STORE":           "postgres",
		"PDFCHAT_REDIS_DB":        "one",
		"PDFCHAT_REQUEST_TIMEOUT": "-1s",
		"PDFCHAT_LOG_LEVEL":       "loud",
	}
	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(name, value)
			if _, err := Load(); err == nil {
				t.Fatalf("Load() with %s=%q succeeded, want error", name, value)
			}
		})
	}
}
