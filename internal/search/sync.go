// ABOUTME: Keeps the vector index aligned with note lifecycle events
// ABOUTME: Indexing errors are logged and swallowed; writes never fail on them
package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vertexhq/vertex/internal/notes"
)

// Synchronizer subscribes to note events and drives the indexer. It is
// the only place indexing errors surface; none of them propagate back
// to the note write path.
type Synchronizer struct {
	indexer *Indexer
	logger  *zap.Logger
}

// NewSynchronizer creates a synchronizer for the given indexer.
func NewSynchronizer(indexer *Indexer, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{indexer: indexer, logger: logger}
}

// Attach subscribes the synchronizer to a note event bus.
func (s *Synchronizer) Attach(bus *notes.Bus) {
	bus.Subscribe(s.handle)
}

func (s *Synchronizer) handle(ctx context.Context, ev notes.Event) {
	if err := s.apply(ctx, ev); err != nil {
		s.logger.Warn("index sync failed",
			zap.String("event", string(ev.Kind)),
			zap.String("note_id", ev.NoteID.String()),
			zap.Error(err))
	}
}

func (s *Synchronizer) apply(ctx context.Context, ev notes.Event) error {
	switch ev.Kind {
	case notes.NoteCreated:
		return s.indexer.Index(ctx, ev.Note)
	case notes.NoteUpdated:
		return s.indexer.Reindex(ctx, ev.Note)
	case notes.NoteDeleted:
		return s.indexer.Remove(ev.NoteID)
	default:
		return fmt.Errorf("unknown event kind: %s", ev.Kind)
	}
}
