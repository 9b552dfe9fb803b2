// ABOUTME: Indexing orchestrator that turns notes into stored embeddings
// ABOUTME: Skips quietly when the provider is down; reindex is delete-then-index
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vertexhq/vertex/internal/embedding"
	"github.com/vertexhq/vertex/internal/indexing"
	"github.com/vertexhq/vertex/internal/models"
	"github.com/vertexhq/vertex/internal/storage/sqlite"
)

// Indexer prepares note text and writes embeddings for the configured model.
// Indexing is best-effort: an unavailable provider skips the note rather
// than failing the caller.
type Indexer struct {
	registry   *embedding.Registry
	strategy   indexing.Strategy
	model      models.EmbeddingModel
	notes      *sqlite.NoteStore
	embeddings *sqlite.EmbeddingStore
	logger     *zap.Logger
}

// NewIndexer creates an indexer bound to one embedding model and one text
// preparation strategy.
func NewIndexer(registry *embedding.Registry, strategy indexing.Strategy, model models.EmbeddingModel, notes *sqlite.NoteStore, embeddings *sqlite.EmbeddingStore, logger *zap.Logger) *Indexer {
	return &Indexer{
		registry:   registry,
		strategy:   strategy,
		model:      model,
		notes:      notes,
		embeddings: embeddings,
		logger:     logger,
	}
}

// Model returns the embedding model this indexer writes.
func (ix *Indexer) Model() models.EmbeddingModel {
	return ix.model
}

// Index generates and stores the canonical embedding for a note. If the
// provider is not ready the note is skipped with a warning and no error;
// the note stays searchable by whatever embedding it had before.
func (ix *Indexer) Index(ctx context.Context, note *models.Note) error {
	if note == nil {
		return fmt.Errorf("cannot index nil note")
	}

	provider, err := ix.registry.GetProvider(ix.model)
	if err != nil {
		return fmt.Errorf("resolving provider: %w", err)
	}

	if !provider.IsReady(ctx) {
		ix.logger.Warn("embedding provider not ready, skipping index",
			zap.String("model", ix.model.Name),
			zap.String("note_id", note.ID.String()))
		return nil
	}

	prepared, err := ix.strategy.PrepareText(note)
	if err != nil {
		return fmt.Errorf("preparing text for note %s: %w", note.ID, err)
	}
	if prepared.IsEmpty() {
		ix.logger.Debug("note has no indexable text, skipping",
			zap.String("note_id", note.ID.String()))
		return nil
	}

	v, err := provider.Embed(ctx, prepared.Text)
	if err != nil {
		return fmt.Errorf("embedding note %s: %w", note.ID, err)
	}

	now := time.Now().UTC()
	emb := &models.NoteEmbedding{
		ID:        uuid.New(),
		NoteID:    note.ID,
		Vector:    v,
		Model:     ix.model.Name,
		Dimension: ix.model.Dimension,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := ix.embeddings.Upsert(emb); err != nil {
		return fmt.Errorf("storing embedding for note %s: %w", note.ID, err)
	}

	ix.logger.Debug("indexed note",
		zap.String("note_id", note.ID.String()),
		zap.String("model", ix.model.Name),
		zap.Int("text_length", prepared.Length()),
		zap.Bool("truncated", prepared.Truncated()))
	return nil
}

// Reindex drops every stored embedding for the note and indexes it fresh.
// Used when the note content changed and stale chunk rows must not survive.
func (ix *Indexer) Reindex(ctx context.Context, note *models.Note) error {
	if note == nil {
		return fmt.Errorf("cannot reindex nil note")
	}
	if err := ix.embeddings.DeleteByNote(note.ID); err != nil {
		return fmt.Errorf("clearing embeddings for note %s: %w", note.ID, err)
	}
	return ix.Index(ctx, note)
}

// Remove deletes all embeddings for a note. Idempotent.
func (ix *Indexer) Remove(noteID uuid.UUID) error {
	return ix.embeddings.DeleteByNote(noteID)
}

// ReindexAll rebuilds embeddings for every stored note. Per-note failures
// are logged and skipped; the pass continues. Returns how many notes were
// reindexed successfully.
func (ix *Indexer) ReindexAll(ctx context.Context) (int, error) {
	all, err := ix.notes.ListAll()
	if err != nil {
		return 0, fmt.Errorf("listing notes: %w", err)
	}

	indexed := 0
	for _, note := range all {
		if err := ix.Reindex(ctx, note); err != nil {
			ix.logger.Warn("reindex failed for note",
				zap.String("note_id", note.ID.String()),
				zap.Error(err))
			continue
		}
		indexed++
	}

	ix.logger.Info("reindex pass complete",
		zap.Int("total", len(all)),
		zap.Int("indexed", indexed))
	return indexed, nil
}
