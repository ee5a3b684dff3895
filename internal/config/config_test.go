package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8088 {
		t.Errorf("expected port 8088, got %d", cfg.Server.Port)
	}
	if cfg.LLM.Provider != "gemini" || cfg.LLM.Model != "gemini-2.0-flash" {
		t.Errorf("unexpected llm defaults: %+v", cfg.LLM)
	}
	if cfg.LLM.MaxOutputTokens != 20 || cfg.LLM.HistoryTurns != 5 {
		t.Errorf("unexpected llm limits: %+v", cfg.LLM)
	}
	if cfg.LLM.Temperature != 0.5 {
		t.Errorf("expected temperature 0.5, got %v", cfg.LLM.Temperature)
	}
	if cfg.Catalog.RefreshInterval != 0 {
		t.Errorf("expected refresh disabled, got %v", cfg.Catalog.RefreshInterval)
	}
	if cfg.Catalog.FetchTimeout != 30*time.Second {
		t.Errorf("expected 30s fetch timeout, got %v", cfg.Catalog.FetchTimeout)
	}
	if !cfg.Metrics.Enabled {
		t.Error("expected metrics enabled by default")
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LLM_MODEL", "gemini-2.5-flash")

	content := `
server:
  port: 9090
  static_dir: ./web
catalog:
  refresh_interval: 15m
llm:
  provider: openai
  base_url: http://localhost:11434/v1
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.StaticDir != "./web" {
		t.Errorf("expected ./web, got %s", cfg.Server.StaticDir)
	}
	if cfg.Catalog.RefreshInterval != 15*time.Minute {
		t.Errorf("expected 15m, got %v", cfg.Catalog.RefreshInterval)
	}
	if cfg.LLM.Provider != "openai" {
		t.Errorf("expected openai, got %s", cfg.LLM.Provider)
	}
	if cfg.LLM.Model != "gemini-2.5-flash" {
		t.Errorf("env override not applied: got %s", cfg.LLM.Model)
	}
}

func TestLoad_InvalidProvider(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LLM_PROVIDER", "unknown")

	if _, err := Load(""); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestValidate_StorageNeedsBucket(t *testing.T) {
	cfg := &Config{
		LLM:     LLMConfig{Provider: "gemini", Model: "m", MaxOutputTokens: 20},
		Storage: StorageConfig{Enabled: true},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when storage is enabled without bucket")
	}
}
