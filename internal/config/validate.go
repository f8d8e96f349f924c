package config

import "fmt"

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	for _, name := range AgentNames {
		opts, ok := c.Agents[name]
		if !ok {
			return fmt.Errorf("agent %q has no configuration", name)
		}
		if opts.Model == "" {
			return fmt.Errorf("agent %q has no model", name)
		}
		if opts.Temperature < 0 || opts.Temperature > 2 {
			return fmt.Errorf("agent %q temperature %v out of range [0,2]", name, opts.Temperature)
		}
		if opts.MaxOutputTokens <= 0 {
			return fmt.Errorf("agent %q max_output_tokens must be positive", name)
		}
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("api_timeout must be positive")
	}
	if c.Clarifier.MinFilledFields <= 0 {
		return fmt.Errorf("clarifier.min_filled_fields must be positive")
	}
	if c.Clarifier.MaxRounds <= 0 {
		return fmt.Errorf("clarifier.max_rounds must be positive")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must be set")
	}
	return nil
}
