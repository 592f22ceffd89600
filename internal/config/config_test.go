package config

import (
	"log/slog"
	"slices"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 || cfg.CanvasWidth != 800 || cfg.CanvasHeight != 600 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.StorageKey != "iconGenerator_canvasData" {
		t.Errorf("StorageKey = %q", cfg.StorageKey)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL should default to empty, got %q", cfg.DatabaseURL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("LOG_LEVEL", "debug")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9000 || cfg.SessionTTL != 90*time.Minute || cfg.Level() != slog.LevelDebug {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadRejectsBadCanvas(t *testing.T) {
	t.Setenv("CANVAS_WIDTH", "0")
	if _, err := Load(); err == nil {
		t.Error("zero canvas width should fail")
	}
}

func TestOrigins(t *testing.T) {
	cfg := &Config{AllowedOrigins: " http://localhost:5173, https://draw.example.com ,,"}
	if got := cfg.Origins(); !slices.Equal(got, []string{"http://localhost:5173", "https://draw.example.com"}) {
		t.Errorf("Origins = %v", got)
	}
	if got := cfg.OriginHosts(); !slices.Equal(got, []string{"localhost:5173", "draw.example.com"}) {
		t.Errorf("OriginHosts = %v", got)
	}
}

func TestLevelFallback(t *testing.T) {
	cfg := &Config{LogLevel: "loud"}
	if cfg.Level() != slog.LevelInfo {
		t.Errorf("Level = %v", cfg.Level())
	}
}
