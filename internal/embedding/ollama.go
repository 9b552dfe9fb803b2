// ABOUTME: Ollama embedding provider over the local HTTP API
// ABOUTME: POST /api/embeddings per model; readiness probes GET /api/tags
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vertexhq/vertex/internal/models"
	"github.com/vertexhq/vertex/internal/vector"
)

// DefaultOllamaBaseURL is the standard local Ollama endpoint.
const DefaultOllamaBaseURL = "http://localhost:11434"

// readinessTimeout bounds the health probe so IsReady stays cheap.
const readinessTimeout = 2 * time.Second

// ollamaEmbedRequest is the /api/embeddings request body.
type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// ollamaEmbedResponse is the /api/embeddings response body.
type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// OllamaProvider serves one Ollama-hosted embedding model.
type OllamaProvider struct {
	model   models.EmbeddingModel
	baseURL string
	client  *http.Client
	maxLen  int
	logger  *zap.Logger
}

// NewOllamaProvider creates a provider for the given model against an Ollama
// instance at baseURL. An empty baseURL falls back to the local default.
func NewOllamaProvider(model models.EmbeddingModel, baseURL string, timeout time.Duration, logger *zap.Logger) *OllamaProvider {
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OllamaProvider{
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		maxLen:  32000,
		logger:  logger,
	}
}

// Model returns the registry entry this provider serves.
func (p *OllamaProvider) Model() models.EmbeddingModel { return p.model }

// ModelName returns the wire model name.
func (p *OllamaProvider) ModelName() string { return p.model.Name }

// Dimension returns the vector width this provider produces.
func (p *OllamaProvider) Dimension() int { return p.model.Dimension.Width() }

// MaxTextLength returns the maximum input length in characters.
func (p *OllamaProvider) MaxTextLength() int { return p.maxLen }

// Embed generates a unit-length embedding for text.
func (p *OllamaProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(ollamaEmbedRequest{Model: p.model.Name, Prompt: text})
	if err != nil {
		return nil, generationErr(p.model.Name, fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, generationErr(p.model.Name, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, generationErr(p.model.Name, fmt.Errorf("embedding request failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, generationErr(p.model.Name,
			fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}

	var out ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, generationErr(p.model.Name, fmt.Errorf("failed to decode response: %w", err))
	}

	if len(out.Embedding) != p.Dimension() {
		return nil, generationErr(p.model.Name,
			fmt.Errorf("unexpected embedding dimension: got %d, want %d", len(out.Embedding), p.Dimension()))
	}

	return vector.Normalize(out.Embedding), nil
}

// EmbedAll embeds texts sequentially, preserving order.
func (p *OllamaProvider) EmbedAll(ctx context.Context, texts []string) ([][]float32, error) {
	return embedSequential(ctx, p, texts)
}

// IsReady probes /api/tags with a short timeout. Any failure reads as not
// ready; the probe never returns an error.
func (p *OllamaProvider) IsReady(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("ollama readiness probe failed",
			zap.String("model", p.model.Name), zap.Error(err))
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}
