package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrNoAPIKey indicates the key environment variable is unset.
var ErrNoAPIKey = errors.New("generation API key is not set")

// openAICaller talks to any OpenAI-compatible chat completion endpoint via
// langchaingo. Model and sampling parameters are supplied per call, so one
// client serves every agent.
type openAICaller struct {
	llm *openai.LLM
}

func newOpenAICaller(baseURL string, apiKey string) (*openAICaller, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	client, err := openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("create generation client: %w", err)
	}
	return &openAICaller{llm: client}, nil
}

func (c *openAICaller) call(ctx context.Context, opts Options, system string, user string) (string, error) {
	resp, err := c.llm.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, system),
			llms.TextParts(llms.ChatMessageTypeHuman, user),
		},
		llms.WithModel(opts.Model),
		llms.WithTemperature(opts.Temperature),
		llms.WithMaxTokens(opts.MaxTokens),
		llms.WithTopP(opts.TopP),
		llms.WithTopK(opts.TopK),
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Content, nil
}
