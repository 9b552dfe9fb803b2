// ABOUTME: Tests for the note service
// ABOUTME: Covers validation, timestamps, and post-commit event publication
package notes

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vertexhq/vertex/internal/models"
	"github.com/vertexhq/vertex/internal/storage/sqlite"
)

func newTestService(t *testing.T) (*Service, *Bus, *sqlite.NoteStore) {
	t.Helper()
	db, err := sqlite.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := sqlite.NewNoteStore(db)
	bus := NewBus()
	return NewService(store, bus, zap.NewNop()), bus, store
}

func TestService_CreateAssignsIDAndTimestamps(t *testing.T) {
	service, bus, store := newTestService(t)

	note := &models.Note{UserID: uuid.New(), Title: "First note", Content: "Hello."}
	if err := service.Create(context.Background(), note); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	bus.Wait()

	if note.ID == uuid.Nil {
		t.Error("Create() should assign an ID")
	}
	if note.CreatedAt.IsZero() || note.UpdatedAt.IsZero() {
		t.Error("Create() should set timestamps")
	}

	stored, err := store.Get(note.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored == nil {
		t.Fatal("note not persisted")
	}
	if stored.Title != "First note" {
		t.Errorf("Title = %q, want %q", stored.Title, "First note")
	}
}

func TestService_CreateValidation(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	if err := service.Create(ctx, nil); err == nil {
		t.Error("Create(nil) should fail")
	}
	if err := service.Create(ctx, &models.Note{Title: "No user"}); err == nil {
		t.Error("Create without user ID should fail")
	}
	if err := service.Create(ctx, &models.Note{UserID: uuid.New(), Title: "  ", Content: ""}); err == nil {
		t.Error("Create with blank title and content should fail")
	}
}

func TestService_EventsSeeCommittedState(t *testing.T) {
	service, bus, store := newTestService(t)

	var mu sync.Mutex
	var seenInStore bool
	bus.Subscribe(func(_ context.Context, ev Event) {
		stored, err := store.Get(ev.NoteID)
		mu.Lock()
		defer mu.Unlock()
		seenInStore = err == nil && stored != nil
	})

	note := &models.Note{UserID: uuid.New(), Title: "Post-commit", Content: "Visible."}
	if err := service.Create(context.Background(), note); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	if !seenInStore {
		t.Error("handler should observe the committed note")
	}
}

func TestService_UpdatePreservesCreatedAt(t *testing.T) {
	service, bus, _ := newTestService(t)
	ctx := context.Background()

	note := &models.Note{UserID: uuid.New(), Title: "Original", Content: "v1"}
	if err := service.Create(ctx, note); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	created := note.CreatedAt

	note.Content = "v2"
	if err := service.Update(ctx, note); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	bus.Wait()

	if !note.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt changed on update: %v -> %v", created, note.CreatedAt)
	}
	if !note.UpdatedAt.After(created) && !note.UpdatedAt.Equal(created) {
		t.Error("UpdatedAt should be at or after CreatedAt")
	}

	stored, _ := service.Get(note.ID)
	if stored.Content != "v2" {
		t.Errorf("Content = %q, want %q", stored.Content, "v2")
	}
}

func TestService_UpdateMissingNote(t *testing.T) {
	service, _, _ := newTestService(t)

	note := &models.Note{ID: uuid.New(), UserID: uuid.New(), Title: "Ghost", Content: "x"}
	if err := service.Update(context.Background(), note); err == nil {
		t.Error("Update of missing note should fail")
	}
}

func TestService_DeletePublishesEvent(t *testing.T) {
	service, bus, _ := newTestService(t)
	ctx := context.Background()

	var mu sync.Mutex
	var deleted []uuid.UUID
	bus.Subscribe(func(_ context.Context, ev Event) {
		if ev.Kind != NoteDeleted {
			return
		}
		mu.Lock()
		deleted = append(deleted, ev.NoteID)
		mu.Unlock()
	})

	note := &models.Note{UserID: uuid.New(), Title: "Doomed", Content: "x"}
	if err := service.Create(ctx, note); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := service.Delete(ctx, note.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	// Deleting again is a no-op but still publishes, so indexes converge.
	if err := service.Delete(ctx, note.ID); err != nil {
		t.Fatalf("second Delete() error = %v", err)
	}
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(deleted) != 2 {
		t.Fatalf("deleted events = %d, want 2", len(deleted))
	}
	for _, id := range deleted {
		if id != note.ID {
			t.Errorf("deleted NoteID = %s, want %s", id, note.ID)
		}
	}
}

func TestService_ListByUser(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	for i := 0; i < 2; i++ {
		if err := service.Create(ctx, &models.Note{UserID: alice, Title: "a", Content: "x"}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if err := service.Create(ctx, &models.Note{UserID: bob, Title: "b", Content: "x"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := service.ListByUser(alice)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ListByUser(alice) = %d notes, want 2", len(got))
	}
}
