// Package gemini provides embedding and completion transports backed by the
// Google Generative AI API.
package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/redwards/digitaltwin/internal/domain"
	"github.com/redwards/digitaltwin/internal/metrics"
)

const providerName = "gemini"

var (
	_ domain.Embedder      = (*Client)(nil)
	_ domain.Completer     = (*Client)(nil)
	_ domain.HealthChecker = (*Client)(nil)
)

// Client wraps one genai connection for both embedding and completion.
type Client struct {
	client          *genai.Client
	embeddingModel  string
	completionModel string
	logger          *zap.Logger
}

// Config holds the Gemini provider settings.
type Config struct {
	APIKey          string
	EmbeddingModel  string
	CompletionModel string
	Logger          *zap.Logger
}

// NewClient dials the Generative AI API.
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	c, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{
		client:          c,
		embeddingModel:  cfg.EmbeddingModel,
		completionModel: cfg.CompletionModel,
		logger:          cfg.Logger,
	}, nil
}

// Embed implements domain.Embedder. The genai API reports no token usage for
// embeddings, so both counts stay zero.
func (c *Client) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	model := c.client.EmbeddingModel(c.embeddingModel)

	start := time.Now()
	res, err := model.EmbedContent(ctx, genai.Text(text))
	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, c.embeddingModel, "error").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("embed content: %w: %v", domain.ErrEmbeddingProviderError, err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, c.embeddingModel, "error").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingProviderError)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, c.embeddingModel, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(providerName, c.embeddingModel).Observe(duration.Seconds())

	return domain.EmbeddingResult{Embedding: res.Embedding.Values}, nil
}

// Complete implements the chat completion contract.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.completionModel)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w: %v", domain.ErrCompletionProviderError, err)
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		if txt, ok := resp.Candidates[0].Content.Parts[0].(genai.Text); ok {
			return string(txt), nil
		}
	}
	return "", fmt.Errorf("no response candidates: %w", domain.ErrCompletionProviderError)
}

// HealthCheck embeds a short probe string to verify API availability.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.Embed(ctx, "ping")
	return err
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.client.Close()
}
