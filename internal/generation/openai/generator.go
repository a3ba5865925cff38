// Package openai generates answers through an OpenAI-compatible chat
// completion endpoint. The defaults target Groq.
package openai

import (
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"docqa/internal/domain"
	"docqa/internal/openaicompat"
)

const (
	DefaultBaseURL     = "https://api.groq.com/openai/v1"
	DefaultAPIKeyEnv   = "GROQ_API_KEY"
	DefaultModel       = "llama-3.3-70b-versatile"
	DefaultTemperature = 0.1
	DefaultMaxTokens   = 1500
	DefaultTopP        = 0.9
)

var ErrEmptyCompletion = errors.New("completion returned no choices")

type Config struct {
	BaseURL     string
	APIKeyEnv   string
	Model       string
	Temperature float32
	MaxTokens   int
	TopP        float32
	Timeout     time.Duration
	MaxRetries  int
	// RequestsPerSecond throttles calls; zero means unlimited.
	RequestsPerSecond float64
}

type Generator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	topP        float32
	maxRetries  int
	limiter     *rate.Limiter
}

var _ domain.Generator = (*Generator)(nil)

func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = DefaultAPIKeyEnv
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.TopP == 0 {
		cfg.TopP = DefaultTopP
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	client, err := openaicompat.NewClient(openaicompat.Config{
		BaseURL:   cfg.BaseURL,
		APIKeyEnv: cfg.APIKeyEnv,
		Timeout:   cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return &Generator{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		topP:        cfg.TopP,
		maxRetries:  cfg.MaxRetries,
		limiter:     openaicompat.NewLimiter(cfg.RequestsPerSecond),
	}, nil
}

// Generate sends one system and one user message and returns the trimmed reply.
func (g *Generator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		TopP:        g.topP,
	}
	var resp openai.ChatCompletionResponse
	err := openaicompat.Retry(ctx, g.maxRetries, func() error {
		if err := g.limiter.Wait(ctx); err != nil {
			return err
		}
		var err error
		resp, err = g.client.CreateChatCompletion(ctx, req)
		return err
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
