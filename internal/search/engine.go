// ABOUTME: Semantic search engine querying stored embeddings by similarity
// ABOUTME: Degrades to empty results on any failure instead of erroring
package search

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vertexhq/vertex/internal/embedding"
	"github.com/vertexhq/vertex/internal/models"
	"github.com/vertexhq/vertex/internal/storage/sqlite"
)

// EngineOptions holds the defaults applied when a query leaves its knobs unset.
type EngineOptions struct {
	DefaultModel  models.EmbeddingModel
	MinSimilarity float64
	DefaultLimit  int
	MaxResults    int
}

// Engine resolves a query to a vector and ranks stored note embeddings
// against it. Search never returns an error to the caller: unavailable
// providers, embedding failures, and storage failures all read as an
// empty result set, logged with the cause.
type Engine struct {
	registry   *embedding.Registry
	embeddings *sqlite.EmbeddingStore
	opts       EngineOptions
	logger     *zap.Logger
}

// NewEngine creates a search engine with the given defaults.
func NewEngine(registry *embedding.Registry, embeddings *sqlite.EmbeddingStore, opts EngineOptions, logger *zap.Logger) *Engine {
	return &Engine{
		registry:   registry,
		embeddings: embeddings,
		opts:       opts,
		logger:     logger,
	}
}

// Search runs one semantic query scoped to q.UserID. Blank query text and
// a zero user ID both produce an empty result.
func (e *Engine) Search(ctx context.Context, q models.SearchQuery) models.SearchResult {
	text := strings.TrimSpace(q.Text)
	if text == "" || q.UserID == uuid.Nil {
		return models.EmptyResult()
	}

	model := e.opts.DefaultModel
	if q.Model != "" {
		m, err := models.ModelByName(q.Model)
		if err != nil {
			e.logger.Warn("search requested unknown model", zap.String("model", q.Model))
			return models.EmptyResult()
		}
		model = m
	}

	provider, err := e.registry.GetProvider(model)
	if err != nil {
		e.logger.Warn("no provider for search model", zap.String("model", model.Name), zap.Error(err))
		return models.EmptyResult()
	}
	if !provider.IsReady(ctx) {
		e.logger.Warn("embedding provider not ready, returning empty results",
			zap.String("model", model.Name))
		return models.EmptyResult()
	}

	queryVector, err := provider.Embed(ctx, text)
	if err != nil {
		e.logger.Warn("query embedding failed", zap.String("model", model.Name), zap.Error(err))
		return models.EmptyResult()
	}

	floor := e.opts.MinSimilarity
	if q.MinSimilarity != nil {
		floor = *q.MinSimilarity
	}
	limit := e.resolveLimit(q.MaxResults)

	hits, err := e.embeddings.SearchByVector(queryVector, model.Name, q.UserID, floor, limit)
	if err != nil {
		e.logger.Warn("vector search failed", zap.String("model", model.Name), zap.Error(err))
		return models.EmptyResult()
	}

	e.logger.Debug("search complete",
		zap.String("model", model.Name),
		zap.Int("hits", len(hits)),
		zap.Float64("min_similarity", floor))
	return models.SearchResult{Hits: hits, TotalHits: len(hits)}
}

// FindSimilar returns the notes nearest to an already-indexed note, scoped
// to the same user. An unindexed note yields an empty result.
func (e *Engine) FindSimilar(ctx context.Context, noteID, userID uuid.UUID, limit int) models.SearchResult {
	if noteID == uuid.Nil || userID == uuid.Nil {
		return models.EmptyResult()
	}

	hits, err := e.embeddings.FindKNearest(noteID, userID, e.opts.MinSimilarity, e.resolveLimit(limit))
	if err != nil {
		e.logger.Warn("similar-note lookup failed",
			zap.String("note_id", noteID.String()), zap.Error(err))
		return models.EmptyResult()
	}
	return models.SearchResult{Hits: hits, TotalHits: len(hits)}
}

// resolveLimit applies the default and hard cap to a requested result count.
func (e *Engine) resolveLimit(requested int) int {
	limit := requested
	if limit <= 0 {
		limit = e.opts.DefaultLimit
	}
	if e.opts.MaxResults > 0 && limit > e.opts.MaxResults {
		limit = e.opts.MaxResults
	}
	return limit
}
