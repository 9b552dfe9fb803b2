// ABOUTME: Embedding provider contract and the error type for failed generations
// ABOUTME: Providers return L2-normalized vectors; readiness probes never fail hard
package embedding

import (
	"context"
	"fmt"

	"github.com/vertexhq/vertex/internal/models"
)

// Provider wraps one embedding backend. Implementations must return
// L2-normalized vectors from Embed and EmbedAll; normalization is the
// provider's responsibility, not the caller's.
type Provider interface {
	// Embed generates a unit-length embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedAll generates embeddings for a batch of texts, preserving order.
	// The whole batch fails on the first element failure; there is no
	// partial-success contract.
	EmbedAll(ctx context.Context, texts []string) ([][]float32, error)

	// Model returns the registry entry this provider serves.
	Model() models.EmbeddingModel

	// ModelName returns the wire model name.
	ModelName() string

	// Dimension returns the vector width this provider produces.
	Dimension() int

	// MaxTextLength returns the maximum input length in characters.
	MaxTextLength() int

	// IsReady probes the backend with a short timeout. It never returns an
	// error; any probe failure reads as not ready.
	IsReady(ctx context.Context) bool
}

// GenerationError wraps any transport, auth, or malformed-response failure
// during an embed call. BatchIndex is the failing element for EmbedAll
// calls and -1 for single embeds.
type GenerationError struct {
	Model      string
	BatchIndex int
	Err        error
}

func (e *GenerationError) Error() string {
	if e.BatchIndex >= 0 {
		return fmt.Sprintf("embedding generation failed for model %s at batch index %d: %v", e.Model, e.BatchIndex, e.Err)
	}
	return fmt.Sprintf("embedding generation failed for model %s: %v", e.Model, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// generationErr builds a GenerationError for a single embed call.
func generationErr(model string, err error) error {
	return &GenerationError{Model: model, BatchIndex: -1, Err: err}
}

// batchErr builds a GenerationError reporting the failing batch index.
func batchErr(model string, index int, err error) error {
	return &GenerationError{Model: model, BatchIndex: index, Err: err}
}

// embedSequential implements the order-preserving batch contract by falling
// back to sequential single-embed calls.
func embedSequential(ctx context.Context, p Provider, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := p.Embed(ctx, text)
		if err != nil {
			return nil, batchErr(p.ModelName(), i, err)
		}
		vectors[i] = v
	}
	return vectors, nil
}
