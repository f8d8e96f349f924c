package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default returns the built-in configuration: per-agent model routing with
// conservative sampling for analysis agents and a larger budget for the
// executor.
func Default() *Config {
	return &Config{
		API: API{
			BaseURL: "https://generativelanguage.googleapis.com/v1beta/openai/",
			KeyEnv:  "GEMINI_API_KEY",
		},
		Agents: map[string]AgentOptions{
			"clarifier": {Model: "gemini-2.5-flash-lite", Temperature: 0.3, MaxOutputTokens: 2048, TopP: 0.9, TopK: 40},
			"planner":   {Model: "gemini-2.5-flash", Temperature: 0.2, MaxOutputTokens: 4096, TopP: 0.9, TopK: 40},
			"executor":  {Model: "gemini-2.5-flash", Temperature: 0.2, MaxOutputTokens: 8192, TopP: 0.9, TopK: 40},
			"validator": {Model: "gemini-2.5-flash", Temperature: 0.1, MaxOutputTokens: 3072, TopP: 0.85, TopK: 40},
		},
		Clarifier: Clarifier{
			MinFilledFields: 4,
			MaxRounds:       3,
		},
		MaxRetries: 3,
		APITimeout: 300,
		OutputDir:  "output",
	}
}

// Load reads a configuration from the given YAML file path and merges it
// over the built-in defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// LoadDefault searches for a config in standard locations and loads the
// first one found. Search order: ./gamesmith.yaml, ~/.gamesmith/config.yaml.
// With no file present the built-in defaults are used as-is.
func LoadDefault() (*Config, error) {
	candidates := []string{"gamesmith.yaml"}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, ".gamesmith", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	return Default(), nil
}

// DefaultDBPath returns ~/.gamesmith/gamesmith.db, creating the directory if
// needed.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	dir := filepath.Join(home, ".gamesmith")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", dir, err)
	}
	return filepath.Join(dir, "gamesmith.db"), nil
}

// applyDefaults back-fills agent options a partial config file left unset.
// Temperature is the exception: zero is a valid sampling value, so an entry
// that omits it runs at temperature 0 rather than the built-in default.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Agents == nil {
		cfg.Agents = make(map[string]AgentOptions, len(def.Agents))
	}
	for name, opts := range def.Agents {
		got, ok := cfg.Agents[name]
		if !ok {
			cfg.Agents[name] = opts
			continue
		}
		if got.Model == "" {
			got.Model = opts.Model
		}
		if got.MaxOutputTokens == 0 {
			got.MaxOutputTokens = opts.MaxOutputTokens
		}
		if got.TopP == 0 {
			got.TopP = opts.TopP
		}
		if got.TopK == 0 {
			got.TopK = opts.TopK
		}
		cfg.Agents[name] = got
	}
	if cfg.Clarifier.MinFilledFields == 0 {
		cfg.Clarifier.MinFilledFields = def.Clarifier.MinFilledFields
	}
	if cfg.Clarifier.MaxRounds == 0 {
		cfg.Clarifier.MaxRounds = def.Clarifier.MaxRounds
	}
	if cfg.APITimeout == 0 {
		cfg.APITimeout = def.APITimeout
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = def.OutputDir
	}
	if cfg.API.KeyEnv == "" {
		cfg.API.KeyEnv = def.API.KeyEnv
	}
}

// APIKey reads the generation API key from the configured environment
// variable, accepting OPENAI_API_KEY as a fallback.
func (c *Config) APIKey() string {
	if key := os.Getenv(c.API.KeyEnv); key != "" {
		return key
	}
	return os.Getenv("OPENAI_API_KEY")
}
