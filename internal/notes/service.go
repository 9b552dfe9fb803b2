// ABOUTME: Note CRUD service publishing lifecycle events after each write
// ABOUTME: Events fire strictly after the store write returns
package notes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vertexhq/vertex/internal/models"
	"github.com/vertexhq/vertex/internal/storage/sqlite"
)

// Service owns note persistence and emits created/updated/deleted events.
// Event handlers (indexing among them) run asynchronously and never block
// or fail a write.
type Service struct {
	store  *sqlite.NoteStore
	bus    *Bus
	logger *zap.Logger
}

// NewService creates a note service publishing to the given bus.
func NewService(store *sqlite.NoteStore, bus *Bus, logger *zap.Logger) *Service {
	return &Service{store: store, bus: bus, logger: logger}
}

// Create persists a new note and publishes NoteCreated. A zero ID is
// assigned; timestamps are set to now.
func (s *Service) Create(ctx context.Context, note *models.Note) error {
	if note == nil {
		return fmt.Errorf("cannot create nil note")
	}
	if note.UserID == uuid.Nil {
		return fmt.Errorf("note requires a user ID")
	}
	if strings.TrimSpace(note.Title) == "" && strings.TrimSpace(note.Content) == "" {
		return fmt.Errorf("note requires a title or content")
	}

	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now

	if err := s.store.Save(note); err != nil {
		return fmt.Errorf("saving note: %w", err)
	}

	s.bus.Publish(ctx, Event{Kind: NoteCreated, Note: note, NoteID: note.ID, OccurredAt: now})
	s.logger.Debug("note created", zap.String("note_id", note.ID.String()))
	return nil
}

// Update persists changes to an existing note and publishes NoteUpdated.
func (s *Service) Update(ctx context.Context, note *models.Note) error {
	if note == nil {
		return fmt.Errorf("cannot update nil note")
	}
	existing, err := s.store.Get(note.ID)
	if err != nil {
		return fmt.Errorf("loading note: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("note %s not found", note.ID)
	}

	note.CreatedAt = existing.CreatedAt
	note.UpdatedAt = time.Now().UTC()

	if err := s.store.Save(note); err != nil {
		return fmt.Errorf("saving note: %w", err)
	}

	s.bus.Publish(ctx, Event{Kind: NoteUpdated, Note: note, NoteID: note.ID, OccurredAt: note.UpdatedAt})
	s.logger.Debug("note updated", zap.String("note_id", note.ID.String()))
	return nil
}

// Delete removes a note and publishes NoteDeleted. Deleting a missing
// note is a no-op that still publishes, so downstream indexes converge.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(id); err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}

	s.bus.Publish(ctx, Event{Kind: NoteDeleted, NoteID: id, OccurredAt: time.Now().UTC()})
	s.logger.Debug("note deleted", zap.String("note_id", id.String()))
	return nil
}

// Get returns a note by ID, or nil when absent.
func (s *Service) Get(id uuid.UUID) (*models.Note, error) {
	return s.store.Get(id)
}

// ListByUser returns all notes belonging to a user.
func (s *Service) ListByUser(userID uuid.UUID) ([]*models.Note, error) {
	return s.store.ListByUser(userID)
}
