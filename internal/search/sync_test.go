// ABOUTME: Tests for the note-event index synchronizer
// ABOUTME: Verifies post-commit indexing and that sync errors never surface
package search

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vertexhq/vertex/internal/models"
	"github.com/vertexhq/vertex/internal/notes"
)

func newSyncEnv(t *testing.T) (*testEnv, *notes.Service, *notes.Bus) {
	t.Helper()
	env := newTestEnv(t)

	bus := notes.NewBus()
	service := notes.NewService(env.notes, bus, zap.NewNop())
	NewSynchronizer(env.indexer, zap.NewNop()).Attach(bus)
	return env, service, bus
}

func TestSynchronizer_IndexesOnCreate(t *testing.T) {
	env, service, bus := newSyncEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	note := &models.Note{
		UserID:  userID,
		Title:   "Machine Learning Notes",
		Content: "Neural networks and backpropagation.",
	}
	if err := service.Create(ctx, note); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	bus.Wait()

	got := env.engine.Search(ctx, models.SearchQuery{Text: "machine learning", UserID: userID})
	if got.TotalHits != 1 {
		t.Fatalf("TotalHits = %d, want 1 after create", got.TotalHits)
	}
	if got.Hits[0].NoteID != note.ID {
		t.Errorf("NoteID = %s, want %s", got.Hits[0].NoteID, note.ID)
	}
}

func TestSynchronizer_ReindexesOnUpdate(t *testing.T) {
	env, service, bus := newSyncEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	note := &models.Note{UserID: userID, Title: "Journal", Content: "Sourdough baking."}
	if err := service.Create(ctx, note); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	bus.Wait()

	query := models.SearchQuery{Text: "machine learning", UserID: userID}
	if got := env.engine.Search(ctx, query); got.TotalHits != 0 {
		t.Fatalf("before update TotalHits = %d, want 0", got.TotalHits)
	}

	note.Content = "Notes from a machine learning lecture."
	if err := service.Update(ctx, note); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	bus.Wait()

	if got := env.engine.Search(ctx, query); got.TotalHits != 1 {
		t.Fatalf("after update TotalHits = %d, want 1", got.TotalHits)
	}
}

func TestSynchronizer_RemovesOnDelete(t *testing.T) {
	env, service, bus := newSyncEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	note := &models.Note{UserID: userID, Title: "Machine Learning Notes", Content: "Content."}
	if err := service.Create(ctx, note); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	bus.Wait()

	if err := service.Delete(ctx, note.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	bus.Wait()

	count, err := env.embs.CountAll()
	if err != nil {
		t.Fatalf("CountAll() error = %v", err)
	}
	if count != 0 {
		t.Errorf("CountAll() = %d, want 0 after delete", count)
	}
}

func TestSynchronizer_IndexesAfterRequestContextEnds(t *testing.T) {
	env, service, bus := newSyncEnv(t)
	userID := uuid.New()

	// An HTTP request context is canceled as soon as its handler returns;
	// indexing dispatched by the write must still complete. Canceling up
	// front makes the detachment observable without a scheduling race.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	note := &models.Note{
		UserID:  userID,
		Title:   "Machine Learning Notes",
		Content: "Neural networks.",
	}
	if err := service.Create(ctx, note); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	bus.Wait()

	got := env.engine.Search(context.Background(), models.SearchQuery{
		Text:   "machine learning",
		UserID: userID,
	})
	if got.TotalHits != 1 {
		t.Fatalf("TotalHits = %d, want 1 after caller context canceled", got.TotalHits)
	}
}

func TestSynchronizer_SwallowsIndexingErrors(t *testing.T) {
	env, service, bus := newSyncEnv(t)
	ctx := context.Background()
	env.provider.failEmbeds = true

	note := &models.Note{UserID: uuid.New(), Title: "Machine Learning Notes", Content: "Content."}
	if err := service.Create(ctx, note); err != nil {
		t.Fatalf("Create() error = %v, indexing failures must not fail the write", err)
	}
	bus.Wait()

	// The note committed even though indexing failed.
	stored, err := service.Get(note.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored == nil {
		t.Fatal("note should be persisted despite indexing failure")
	}

	count, _ := env.embs.CountAll()
	if count != 0 {
		t.Errorf("CountAll() = %d, want 0 when embedding fails", count)
	}
}
