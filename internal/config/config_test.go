package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	path := writeConfig(t, "rag:\n  top_k: 6\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.RAG.TopK != 6 {
		t.Errorf("explicit top_k lost: %d", cfg.RAG.TopK)
	}
	if cfg.RAG.ChunkSize != 1000 || cfg.RAG.ChunkOverlap != 200 {
		t.Errorf("chunk defaults not applied: %d/%d", cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	}
	if cfg.RAG.Store != "chromem" || cfg.RAG.Collection != "documents" {
		t.Errorf("store defaults not applied: %q/%q", cfg.RAG.Store, cfg.RAG.Collection)
	}
	if cfg.EmbedLLM.Model != "text-embedding-3-small" || cfg.ChatLLM.Model != "gpt-4o-mini" {
		t.Errorf("model defaults not applied: %q/%q", cfg.EmbedLLM.Model, cfg.ChatLLM.Model)
	}
}

func TestLoadConfig_ResolvesKeyFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg, err := LoadConfig(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.EmbedLLM.Key != "sk-test" || cfg.ChatLLM.Key != "sk-test" {
		t.Errorf("keys not resolved from env: %q/%q", cfg.EmbedLLM.Key, cfg.ChatLLM.Key)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("validate failed: %v", err)
	}
}

func TestValidate_MissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestValidate_OverlapBounds(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg := Default()
	cfg.RAG.ChunkOverlap = cfg.RAG.ChunkSize
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for overlap >= size")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if !os.IsNotExist(err) {
		t.Errorf("expected os.IsNotExist error, got %v", err)
	}
}
