package config

import "time"

// Config is the top-level configuration structure parsed from gamesmith YAML.
type Config struct {
	API        API                     `yaml:"api"`
	Agents     map[string]AgentOptions `yaml:"agents"`
	Clarifier  Clarifier               `yaml:"clarifier"`
	MaxRetries int                     `yaml:"max_retries"`
	APITimeout int                     `yaml:"api_timeout"` // seconds
	OutputDir  string                  `yaml:"output_dir"`
	DBPath     string                  `yaml:"db_path"`
}

// API configures the generation endpoint. The key itself is read from the
// environment, never from the file.
type API struct {
	BaseURL string `yaml:"base_url"`
	KeyEnv  string `yaml:"key_env"`
}

// AgentOptions routes one agent to a model with its sampling profile.
type AgentOptions struct {
	Model string `yaml:"model"`
	// Temperature is not back-filled from the defaults when the entry is
	// partial: zero is a valid value and must stay expressible.
	Temperature     float64 `yaml:"temperature"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
	TopP            float64 `yaml:"top_p"`
	TopK            int     `yaml:"top_k"`
}

// Clarifier bounds the requirements-gathering loop.
type Clarifier struct {
	// MinFilledFields is the explicit completeness threshold: once this many
	// requirement fields are filled, clarification stops even if the agent
	// keeps asking.
	MinFilledFields int `yaml:"min_filled_fields"`
	// MaxRounds caps how many question rounds the CLI will run.
	MaxRounds int `yaml:"max_rounds"`
}

// AgentNames lists the four pipeline agents in execution order.
var AgentNames = []string{"clarifier", "planner", "executor", "validator"}

// Timeout returns the per-call timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.APITimeout) * time.Second
}
