// ABOUTME: OpenAI embedding provider using the go-openai client
// ABOUTME: Retries transient failures with exponential backoff before giving up
package embedding

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/vertexhq/vertex/internal/models"
	"github.com/vertexhq/vertex/internal/util"
	"github.com/vertexhq/vertex/internal/vector"
)

// OpenAIProvider serves one OpenAI-hosted embedding model.
type OpenAIProvider struct {
	model      models.EmbeddingModel
	client     *openai.Client
	timeout    time.Duration
	maxRetries int
	backoff    util.Backoff
	logger     *zap.Logger
}

// NewOpenAIProvider creates a provider for the given model. baseURL is
// optional and overrides the default API endpoint.
func NewOpenAIProvider(model models.EmbeddingModel, apiKey, baseURL string, timeout time.Duration, logger *zap.Logger) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIProvider{
		model:      model,
		client:     openai.NewClientWithConfig(cfg),
		timeout:    timeout,
		maxRetries: 2,
		backoff:    util.Backoff{Base: time.Second, Max: 30 * time.Second},
		logger:     logger,
	}, nil
}

// Model returns the registry entry this provider serves.
func (p *OpenAIProvider) Model() models.EmbeddingModel { return p.model }

// ModelName returns the wire model name.
func (p *OpenAIProvider) ModelName() string { return p.model.Name }

// Dimension returns the vector width this provider produces.
func (p *OpenAIProvider) Dimension() int { return p.model.Dimension.Width() }

// MaxTextLength returns the maximum input length in characters.
func (p *OpenAIProvider) MaxTextLength() int { return 32000 }

// Embed generates a unit-length embedding for text.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, generationErr(p.model.Name, ctx.Err())
			case <-time.After(p.backoff.Delay(attempt)):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, p.timeout)
		resp, err := p.client.CreateEmbeddings(callCtx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: openai.EmbeddingModel(p.model.Name),
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Data) == 0 {
			lastErr = fmt.Errorf("attempt %d: no embeddings returned", attempt+1)
			continue
		}

		emb := resp.Data[0].Embedding
		if len(emb) != p.Dimension() {
			return nil, generationErr(p.model.Name,
				fmt.Errorf("unexpected embedding dimension: got %d, want %d", len(emb), p.Dimension()))
		}
		return vector.Normalize(emb), nil
	}

	return nil, generationErr(p.model.Name,
		fmt.Errorf("failed after %d attempts: %w", p.maxRetries+1, lastErr))
}

// EmbedAll embeds texts in one batch request, preserving order. Falls back
// to sequential calls when the batch response is short.
func (p *OpenAIProvider) EmbedAll(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	resp, err := p.client.CreateEmbeddings(callCtx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: openai.EmbeddingModel(p.model.Name),
	})
	cancel()

	if err != nil || len(resp.Data) != len(texts) {
		p.logger.Debug("batch embedding fell back to sequential calls",
			zap.String("model", p.model.Name), zap.Error(err))
		return embedSequential(ctx, p, texts)
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, generationErr(p.model.Name, fmt.Errorf("out-of-range batch index %d", d.Index))
		}
		if len(d.Embedding) != p.Dimension() {
			return nil, batchErr(p.model.Name, d.Index,
				fmt.Errorf("unexpected embedding dimension: got %d, want %d", len(d.Embedding), p.Dimension()))
		}
		vectors[d.Index] = vector.Normalize(d.Embedding)
	}
	return vectors, nil
}

// IsReady probes the models endpoint with a short timeout. Any failure
// reads as not ready; the probe never returns an error.
func (p *OpenAIProvider) IsReady(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	if _, err := p.client.ListModels(ctx); err != nil {
		p.logger.Debug("openai readiness probe failed",
			zap.String("model", p.model.Name), zap.Error(err))
		return false
	}
	return true
}
