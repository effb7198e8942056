package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LLMConfig points at one OpenAI-compatible endpoint.
// Key is resolved from the environment variable named by KeyEnv at load time.
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	KeyEnv  string `yaml:"key_env"`
	Key     string `yaml:"-"`
	Model   string `yaml:"model"`
}

// RAGConfig holds the chunking and retrieval parameters.
type RAGConfig struct {
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	TopK         int    `yaml:"top_k"`
	Store        string `yaml:"store"`
	DBPath       string `yaml:"db_path"`
	Collection   string `yaml:"collection"`
}

// DatabaseConfig configures the optional Postgres-backed index.
type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	Debug    bool   `yaml:"debug"`
}

type Config struct {
	EmbedLLM LLMConfig      `yaml:"embed_llm"`
	ChatLLM  LLMConfig      `yaml:"chat_llm"`
	RAG      RAGConfig      `yaml:"rag"`
	Database DatabaseConfig `yaml:"database"`
}

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
	defaultTopK         = 4
	defaultStore        = "chromem"
	defaultDBPath       = "./chromemdb"
	defaultCollection   = "documents"
	defaultBaseURL      = "https://api.openai.com/v1"
	defaultKeyEnv       = "OPENAI_API_KEY"
	defaultEmbedModel   = "text-embedding-3-small"
	defaultChatModel    = "gpt-4o-mini"
)

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	resolveKeys(&cfg)
	return &cfg, nil
}

// Default returns a usable config when no file is present on disk.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	resolveKeys(cfg)
	return cfg
}

// Validate reports the startup conditions that must hold before any
// pipeline stage runs.
func (c *Config) Validate() error {
	if c.EmbedLLM.Key == "" {
		return fmt.Errorf("missing API key: set %s in the environment or a .env file", c.EmbedLLM.KeyEnv)
	}
	if c.ChatLLM.Key == "" {
		return fmt.Errorf("missing API key: set %s in the environment or a .env file", c.ChatLLM.KeyEnv)
	}
	if c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		return fmt.Errorf("chunk_overlap (%d) must be smaller than chunk_size (%d)", c.RAG.ChunkOverlap, c.RAG.ChunkSize)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = defaultChunkSize
	}
	if cfg.RAG.ChunkOverlap == 0 {
		cfg.RAG.ChunkOverlap = defaultChunkOverlap
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = defaultTopK
	}
	if cfg.RAG.Store == "" {
		cfg.RAG.Store = defaultStore
	}
	if cfg.RAG.DBPath == "" {
		cfg.RAG.DBPath = defaultDBPath
	}
	if cfg.RAG.Collection == "" {
		cfg.RAG.Collection = defaultCollection
	}
	if cfg.EmbedLLM.BaseURL == "" {
		cfg.EmbedLLM.BaseURL = defaultBaseURL
	}
	if cfg.EmbedLLM.KeyEnv == "" {
		cfg.EmbedLLM.KeyEnv = defaultKeyEnv
	}
	if cfg.EmbedLLM.Model == "" {
		cfg.EmbedLLM.Model = defaultEmbedModel
	}
	if cfg.ChatLLM.BaseURL == "" {
		cfg.ChatLLM.BaseURL = defaultBaseURL
	}
	if cfg.ChatLLM.KeyEnv == "" {
		cfg.ChatLLM.KeyEnv = defaultKeyEnv
	}
	if cfg.ChatLLM.Model == "" {
		cfg.ChatLLM.Model = defaultChatModel
	}
}

func resolveKeys(cfg *Config) {
	cfg.EmbedLLM.Key = os.Getenv(cfg.EmbedLLM.KeyEnv)
	cfg.ChatLLM.Key = os.Getenv(cfg.ChatLLM.KeyEnv)
}
