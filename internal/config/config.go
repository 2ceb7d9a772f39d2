package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
)

// Config holds all molfuse configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	LLM      LLMConfig      `toml:"llm"`
	Fusion   FusionConfig   `toml:"fusion"`
}

type ServerConfig struct {
	Bind string `toml:"bind"`
	Port int    `toml:"port"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LLMConfig struct {
	Provider     string `toml:"provider"` // "anthropic", "ollama"
	Model        string `toml:"model"`
	OllamaURL    string `toml:"ollama_url"`
	OllamaModel  string `toml:"ollama_model"` // e.g. "llama3.2"
	AnthropicKey string `toml:"anthropic_key"`
	EnableReview bool   `toml:"enable_review"`
}

type FusionConfig struct {
	ConfidenceThreshold     float64 `toml:"confidence_threshold"`
	PredictionThreshold     float64 `toml:"prediction_threshold"`
	MaxPredictionIterations int     `toml:"max_prediction_iterations"`
	EnableTemporalDecay     bool    `toml:"enable_temporal_decay"`
	EnableNetworkLearning   bool    `toml:"enable_network_learning"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 38180,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		LLM: LLMConfig{
			Provider: "anthropic",
		},
		Fusion: FusionConfig{
			ConfidenceThreshold:     0.5,
			PredictionThreshold:     0.7,
			MaxPredictionIterations: 10,
			EnableTemporalDecay:     true,
			EnableNetworkLearning:   true,
		},
	}
}

// Load returns the default config with environment overrides applied.
// MOLFUSE_ADDR overrides the listen address, MOLFUSE_DB the database
// path, and ANTHROPIC_API_KEY the anthropic key.
func Load() Config {
	cfg := Default()

	if addr := os.Getenv("MOLFUSE_ADDR"); addr != "" {
		if host, port, err := net.SplitHostPort(addr); err == nil {
			if p, err := strconv.Atoi(port); err == nil {
				cfg.Server.Bind = host
				cfg.Server.Port = p
			}
		}
	}
	if path := os.Getenv("MOLFUSE_DB"); path != "" {
		cfg.Database.Path = path
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		cfg.LLM.AnthropicKey = key
		cfg.LLM.EnableReview = true
	}

	return cfg
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
