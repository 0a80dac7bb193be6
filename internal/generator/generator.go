// Package generator talks to an OpenAI-compatible chat-completion endpoint.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "http://localhost:11434/v1"
	DefaultModel   = "gemma3:12b"
	DefaultAPIKey  = "ollama"
	DefaultTimeout = 30 * time.Second
)

var (
	// ErrTimedOut is returned when the endpoint does not answer in time
	ErrTimedOut = errors.New("generation timed out")
	// ErrEmptyCompletion is returned when the endpoint answers without content
	ErrEmptyCompletion = errors.New("generation returned no content")
	// ErrGeneration wraps transport failures and non-2xx replies
	ErrGeneration = errors.New("generation failed")
)

type Config struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// Client sends single-message prompts and returns the first completion
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = DefaultAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = DefaultBaseURL
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &Client{
		client:  openai.NewClientWithConfig(oc),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

func (c *Client) Model() string {
	return c.model
}

// Complete sends prompt as one user message. No streaming, no retries.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			c.logger.Warn("Generation timed out",
				zap.String("model", c.model),
				zap.Duration("timeout", c.timeout),
			)
			return "", ErrTimedOut
		}
		c.logger.Error("Generation request failed", zap.String("model", c.model), zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}

	c.logger.Debug("Generation completed",
		zap.String("model", c.model),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp.Choices[0].Message.Content, nil
}
