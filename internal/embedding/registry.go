// ABOUTME: Immutable registry mapping embedding models to provider instances
// ABOUTME: Built once at startup; probes and logs readiness of every provider
package embedding

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/vertexhq/vertex/internal/models"
)

// Registry resolves an embedding model to its configured provider. It is
// constructed once during process initialization and passed by reference to
// consumers; it is never mutated afterwards.
type Registry struct {
	providers map[models.EmbeddingModel]Provider
	logger    *zap.Logger
}

// NewRegistry builds a registry from the given providers. Duplicate
// registrations for the same model resolve to the first one registered.
// Every provider's readiness is probed once and logged.
func NewRegistry(ctx context.Context, providers []Provider, logger *zap.Logger) *Registry {
	byModel := make(map[models.EmbeddingModel]Provider, len(providers))
	for _, p := range providers {
		if existing, ok := byModel[p.Model()]; ok {
			logger.Warn("duplicate provider registration, keeping first",
				zap.String("model", existing.ModelName()))
			continue
		}
		byModel[p.Model()] = p
	}

	r := &Registry{providers: byModel, logger: logger}

	logger.Info("embedding provider registry initialized",
		zap.Int("providers", len(byModel)),
		zap.String("models", strings.Join(r.modelNames(), ", ")))

	for model, p := range byModel {
		if p.IsReady(ctx) {
			logger.Info("embedding provider ready",
				zap.String("model", model.Name),
				zap.Int("dimension", p.Dimension()))
		} else {
			logger.Warn("embedding provider not ready",
				zap.String("model", model.Name))
		}
	}

	return r
}

// GetProvider returns the provider for model, or an error enumerating the
// available models when none is registered.
func (r *Registry) GetProvider(model models.EmbeddingModel) (Provider, error) {
	p, ok := r.providers[model]
	if !ok {
		return nil, fmt.Errorf("no embedding provider registered for model %q (available: %s)",
			model.Name, strings.Join(r.modelNames(), ", "))
	}
	return p, nil
}

// HasProvider reports whether a provider is registered for model.
func (r *Registry) HasProvider(model models.EmbeddingModel) bool {
	_, ok := r.providers[model]
	return ok
}

// IsModelAvailable reports whether a provider is registered for model and
// its backend is currently ready.
func (r *Registry) IsModelAvailable(ctx context.Context, model models.EmbeddingModel) bool {
	p, ok := r.providers[model]
	return ok && p.IsReady(ctx)
}

// Models returns every registered embedding model.
func (r *Registry) Models() []models.EmbeddingModel {
	out := make([]models.EmbeddingModel, 0, len(r.providers))
	for m := range r.providers {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ReadyProviders returns the subset of registered providers whose backends
// pass a readiness probe right now.
func (r *Registry) ReadyProviders(ctx context.Context) map[models.EmbeddingModel]Provider {
	ready := make(map[models.EmbeddingModel]Provider)
	for m, p := range r.providers {
		if p.IsReady(ctx) {
			ready[m] = p
		}
	}
	return ready
}

// StatusSummary returns model name to readiness, for health endpoints.
func (r *Registry) StatusSummary(ctx context.Context) map[string]bool {
	status := make(map[string]bool, len(r.providers))
	for m, p := range r.providers {
		status[m.Name] = p.IsReady(ctx)
	}
	return status
}

// Count returns the number of registered providers.
func (r *Registry) Count() int {
	return len(r.providers)
}

func (r *Registry) modelNames() []string {
	names := make([]string, 0, len(r.providers))
	for m := range r.providers {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names
}
