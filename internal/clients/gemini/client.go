// Package gemini adapts the Gemini API to domain.TextGenerator.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/harunode/internal/logger"
	"google.golang.org/genai"
)

const (
	DefaultModel = "gemini-2.5-flash"

	defaultTemperature     = 0.7
	defaultMaxOutputTokens = 1024
)

var (
	// ErrNotConfigured is returned by New without an API key.
	ErrNotConfigured = errors.New("gemini: api key not configured")
	// ErrEmptyReply is returned when the model produced no text.
	ErrEmptyReply = errors.New("gemini: empty reply")
)

// Config holds the client settings.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client implements domain.TextGenerator on the Gemini API.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	log     logger.Logger
}

// New creates a Gemini client.
func New(ctx context.Context, cfg Config, log logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Client{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		log:     log,
	}, nil
}

// Generate sends prompt and returns the reply text.
// The call fails with the context error once the timeout elapses.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	temp := float32(defaultTemperature)
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: int32(defaultMaxOutputTokens),
	}

	start := time.Now()
	res, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := strings.TrimSpace(res.Text())
	if text == "" {
		return "", ErrEmptyReply
	}

	c.log.Debug("gemini reply",
		logger.String("model", c.model),
		logger.Duration("elapsed", time.Since(start)),
		logger.Int("chars", len(text)))
	return text, nil
}
