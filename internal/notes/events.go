// ABOUTME: In-process event bus for note lifecycle events
// ABOUTME: Handlers run on their own goroutines after the store write commits
package notes

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vertexhq/vertex/internal/models"
)

// EventKind identifies a note lifecycle transition.
type EventKind string

const (
	NoteCreated EventKind = "note.created"
	NoteUpdated EventKind = "note.updated"
	NoteDeleted EventKind = "note.deleted"
)

// Event describes one lifecycle transition. Note is nil for deletions;
// NoteID is always set.
type Event struct {
	Kind       EventKind
	Note       *models.Note
	NoteID     uuid.UUID
	OccurredAt time.Time
}

// Handler receives events asynchronously. Handlers must not assume any
// ordering between events for different notes.
type Handler func(ctx context.Context, ev Event)

// Bus fans events out to subscribed handlers, one goroutine per handler
// per event. Publish returns immediately; Wait blocks until every handler
// spawned so far has finished.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
	wg       sync.WaitGroup
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all future events.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers an event to every subscriber asynchronously. Callers
// must only publish after the triggering store write has returned, so
// handlers always observe committed state. Handlers run detached from the
// caller's context lifetime: an HTTP request context is canceled the
// moment its handler returns, and post-commit work must outlive it.
func (b *Bus) Publish(ctx context.Context, ev Event) {
	ctx = context.WithoutCancel(ctx)

	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		h := h
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			h(ctx, ev)
		}()
	}
}

// Wait blocks until all in-flight handlers finish. Intended for shutdown
// and for tests that need delivery to complete.
func (b *Bus) Wait() {
	b.wg.Wait()
}
