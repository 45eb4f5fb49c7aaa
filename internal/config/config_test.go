package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.EmbeddingProvider != ProviderOpenAI {
		t.Errorf("expected default provider %q, got %q", ProviderOpenAI, cfg.EmbeddingProvider)
	}
	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("expected default model text-embedding-3-small, got %q", cfg.EmbeddingModel)
	}
	if cfg.DataDir != ".contentloop" {
		t.Errorf("expected default data_dir .contentloop, got %q", cfg.DataDir)
	}
	if cfg.Retrieval.DuplicateThreshold != 0.95 {
		t.Errorf("expected duplicate threshold 0.95, got %v", cfg.Retrieval.DuplicateThreshold)
	}
	if cfg.Analytics.PromotionThreshold != 0.8 {
		t.Errorf("expected promotion threshold 0.8, got %v", cfg.Analytics.PromotionThreshold)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.contentloop.yml")

	original := DefaultConfig()
	original.EmbeddingProvider = ProviderOllama
	original.EmbeddingModel = "nomic-embed-text"
	original.DataDir = "data"
	original.Server.Port = 9000
	original.Retrieval.MinStyleScore = 0.75
	original.Ingest.Include = []string{"docs/**", "guides/**"}

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify round-trip.
	if loaded.EmbeddingProvider != original.EmbeddingProvider {
		t.Errorf("provider: got %q, want %q", loaded.EmbeddingProvider, original.EmbeddingProvider)
	}
	if loaded.EmbeddingModel != original.EmbeddingModel {
		t.Errorf("model: got %q, want %q", loaded.EmbeddingModel, original.EmbeddingModel)
	}
	if loaded.DataDir != original.DataDir {
		t.Errorf("data_dir: got %q, want %q", loaded.DataDir, original.DataDir)
	}
	if loaded.Server.Port != 9000 {
		t.Errorf("server.port: got %d, want 9000", loaded.Server.Port)
	}
	if loaded.Retrieval.MinStyleScore != 0.75 {
		t.Errorf("min_style_score: got %v, want 0.75", loaded.Retrieval.MinStyleScore)
	}
	if len(loaded.Ingest.Include) != len(original.Ingest.Include) {
		t.Fatalf("ingest.include length: got %d, want %d", len(loaded.Ingest.Include), len(original.Ingest.Include))
	}
	for i, v := range loaded.Ingest.Include {
		if v != original.Ingest.Include[i] {
			t.Errorf("ingest.include[%d]: got %q, want %q", i, v, original.Ingest.Include[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.EmbeddingProvider != ProviderOpenAI {
		t.Errorf("expected default provider, got %q", cfg.EmbeddingProvider)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Override provider via env var.
	os.Setenv("CONTENTLOOP_EMBEDDING_PROVIDER", "ollama")
	defer os.Unsetenv("CONTENTLOOP_EMBEDDING_PROVIDER")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.EmbeddingProvider != ProviderOllama {
		t.Errorf("env override failed: got %q, want %q", loaded.EmbeddingProvider, ProviderOllama)
	}
}

func TestLoadNestedEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	os.Setenv("CONTENTLOOP_SERVER__PORT", "9999")
	defer os.Unsetenv("CONTENTLOOP_SERVER__PORT")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Server.Port != 9999 {
		t.Errorf("nested env override failed: got %d, want 9999", loaded.Server.Port)
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.EmbeddingProvider = "invalid" }},
		{"empty model", func(c *Config) { c.EmbeddingModel = "" }},
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"zero duplicate threshold", func(c *Config) { c.Retrieval.DuplicateThreshold = 0 }},
		{"style score above one", func(c *Config) { c.Retrieval.MinStyleScore = 1.5 }},
		{"zero promotion threshold", func(c *Config) { c.Analytics.PromotionThreshold = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
