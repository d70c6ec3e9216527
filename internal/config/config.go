package config

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/stocksage/stocksage/internal/errs"
)

// Config holds the static application settings loaded from config.yaml.
// It is loaded once at startup and never mutated afterwards. Value ranges
// are not validated here; zero values receive defaults and anything else
// surfaces as an error in the component that consumes it.
type Config struct {
	EmbeddingModel EmbeddingModelConfig `yaml:"embedding_model"`
	LLM            LLMConfig            `yaml:"llm"`
	VectorDB       VectorDBConfig       `yaml:"vector_db"`
	Splitter       SplitterConfig       `yaml:"splitter"`
	Retriever      RetrieverConfig      `yaml:"retriever"`
	Agent          AgentConfig          `yaml:"agent"`
	Tools          ToolsConfig          `yaml:"tools"`
	HTTPPort       string               `yaml:"http_port"`
}

type EmbeddingModelConfig struct {
	ModelName string `yaml:"model_name"`
	Dimension int    `yaml:"dimension"`
}

type LLMConfig struct {
	ModelName string `yaml:"model_name"`
}

type VectorDBConfig struct {
	IndexName string `yaml:"index_name"`
	Metric    string `yaml:"metric"`
	Cloud     string `yaml:"cloud"`
	Region    string `yaml:"region"`
}

type SplitterConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

type RetrieverConfig struct {
	TopK           int     `yaml:"top_k"`
	ScoreThreshold float32 `yaml:"score_threshold"`
}

type AgentConfig struct {
	MaxTurns    int `yaml:"max_turns"`
	TimeoutSecs int `yaml:"timeout_secs"`
}

type ToolsConfig struct {
	Tavily TavilyConfig `yaml:"tavily"`
}

type TavilyConfig struct {
	MaxResults int `yaml:"max_results"`
}

// LoadEnv loads a .env file if one exists. Missing .env is not an error;
// the process environment is authoritative either way.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
}

// Load reads the YAML config from the given path. A missing file is a fatal
// configuration error for the caller.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errs.New(errs.KindConfig, "config file not found at %s", path)
		}
		return nil, errs.Wrap(err, errs.KindConfig, "failed to read config file %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errs.Wrap(err, errs.KindConfig, "failed to parse config file %s", path)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.EmbeddingModel.ModelName == "" {
		cfg.EmbeddingModel.ModelName = "models/text-embedding-004"
	}
	if cfg.EmbeddingModel.Dimension == 0 {
		cfg.EmbeddingModel.Dimension = 768
	}
	if cfg.LLM.ModelName == "" {
		cfg.LLM.ModelName = "llama-3.3-70b-versatile"
	}
	if cfg.VectorDB.IndexName == "" {
		cfg.VectorDB.IndexName = "stocksage-index"
	}
	if cfg.VectorDB.Metric == "" {
		cfg.VectorDB.Metric = "cosine"
	}
	if cfg.VectorDB.Cloud == "" {
		cfg.VectorDB.Cloud = "aws"
	}
	if cfg.VectorDB.Region == "" {
		cfg.VectorDB.Region = "us-east-1"
	}
	if cfg.Splitter.ChunkSize == 0 {
		cfg.Splitter.ChunkSize = 1000
	}
	if cfg.Splitter.ChunkOverlap == 0 {
		cfg.Splitter.ChunkOverlap = 200
	}
	if cfg.Retriever.TopK == 0 {
		cfg.Retriever.TopK = 3
	}
	if cfg.Retriever.ScoreThreshold == 0 {
		cfg.Retriever.ScoreThreshold = 0.5
	}
	if cfg.Agent.MaxTurns == 0 {
		cfg.Agent.MaxTurns = 8
	}
	if cfg.Agent.TimeoutSecs == 0 {
		cfg.Agent.TimeoutSecs = 120
	}
	if cfg.Tools.Tavily.MaxResults == 0 {
		cfg.Tools.Tavily.MaxResults = 5
	}
	if cfg.HTTPPort == "" {
		cfg.HTTPPort = getEnv("HTTP_PORT", "8080")
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
