package config

import (
	"testing"
	"time"
)

func TestLoadRequiresGeminiKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when GEMINI_API_KEY is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTPPort != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.HTTPPort)
	}
	if cfg.Queue.Backend != "redis" {
		t.Errorf("expected default queue backend redis, got %q", cfg.Queue.Backend)
	}
	if cfg.Gemini.TextModel != "gemini-3-flash-preview" {
		t.Errorf("unexpected default text model %q", cfg.Gemini.TextModel)
	}
	if cfg.Usage.Limit != 1500 {
		t.Errorf("expected default usage limit 1500, got %d", cfg.Usage.Limit)
	}
	if cfg.Database.URL != "" {
		t.Errorf("expected audit database disabled by default, got %q", cfg.Database.URL)
	}
}

func TestLoadQueueBackendOverride(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("CALL_QUEUE_BACKEND", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Queue.Backend != "memory" {
		t.Errorf("expected queue backend memory, got %q", cfg.Queue.Backend)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("GEMINI_REQUEST_TIMEOUT", "90s")
	t.Setenv("USAGE_LIMIT", "200")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTPPort != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.HTTPPort)
	}
	if cfg.Gemini.RequestTimeout != 90*time.Second {
		t.Errorf("expected 90s timeout, got %v", cfg.Gemini.RequestTimeout)
	}
	if cfg.Usage.Limit != 200 {
		t.Errorf("expected usage limit 200, got %d", cfg.Usage.Limit)
	}
}
