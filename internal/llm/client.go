// Package llm wraps the generation API behind a single blocking call with a
// uniform failure taxonomy: rate limiting backs off exponentially, a timeout
// gets one delayed retry, everything else propagates immediately.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

var (
	// ErrEmptyResponse indicates the model returned nothing usable.
	ErrEmptyResponse = errors.New("model returned an empty response")

	// ErrUnknownAgent indicates a generation request for an agent identity
	// with no configured options.
	ErrUnknownAgent = errors.New("no options configured for agent")
)

// Options routes one agent identity to a model with its sampling profile.
// It mirrors config.AgentOptions with only the fields the client needs.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
	TopP        float64
	TopK        int
}

// Client makes one generation call per agent invocation.
type Client interface {
	Generate(ctx context.Context, agent string, system string, user string) (string, error)
}

// caller performs one raw generation call. Abstracted for testability.
type caller interface {
	call(ctx context.Context, opts Options, system string, user string) (string, error)
}

// Service implements Client with per-agent model routing and the local
// retry policy.
type Service struct {
	caller  caller
	agents  map[string]Options
	timeout time.Duration
	log     *slog.Logger
	sleep   func(time.Duration)
}

// NewService creates a Service talking to an OpenAI-compatible endpoint.
func NewService(baseURL string, apiKey string, agents map[string]Options, timeout time.Duration, logger *slog.Logger) (*Service, error) {
	c, err := newOpenAICaller(baseURL, apiKey)
	if err != nil {
		return nil, err
	}
	return newService(c, agents, timeout, logger), nil
}

func newService(c caller, agents map[string]Options, timeout time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		caller:  c,
		agents:  agents,
		timeout: timeout,
		log:     logger,
		sleep:   time.Sleep,
	}
}

const (
	maxRateLimitAttempts = 3
	timeoutRetryDelay    = 5 * time.Second
)

// Generate performs one generation call for the named agent, applying the
// retry policy. An empty reply is an error, never silently returned.
func (s *Service) Generate(ctx context.Context, agent string, system string, user string) (string, error) {
	opts, ok := s.agents[agent]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAgent, agent)
	}

	timeoutRetried := false
	for attempt := 1; ; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		text, err := s.caller.call(callCtx, opts, system, user)
		cancel()

		if err == nil {
			if strings.TrimSpace(text) == "" {
				return "", fmt.Errorf("%s: %w", agent, ErrEmptyResponse)
			}
			s.log.Debug("generation complete", "agent", agent, "model", opts.Model, "bytes", len(text))
			return text, nil
		}

		switch classify(err) {
		case failureRateLimit:
			if attempt >= maxRateLimitAttempts {
				return "", fmt.Errorf("generate (%s): rate limit retries exhausted: %w", agent, err)
			}
			wait := time.Duration(1<<attempt) * time.Second
			s.log.Warn("rate limited, backing off", "agent", agent, "attempt", attempt, "wait", wait)
			s.sleep(wait)
		case failureTimeout:
			if timeoutRetried {
				return "", fmt.Errorf("generate (%s): timed out after retry: %w", agent, err)
			}
			timeoutRetried = true
			s.log.Warn("call timed out, retrying once", "agent", agent, "wait", timeoutRetryDelay)
			s.sleep(timeoutRetryDelay)
		default:
			return "", fmt.Errorf("generate (%s): %w", agent, err)
		}
	}
}
