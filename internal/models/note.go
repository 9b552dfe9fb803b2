// ABOUTME: Note domain model consumed by the indexing and search subsystem
// ABOUTME: Owned by the note-management collaborator; read-only here
package models

import (
	"time"

	"github.com/google/uuid"
)

// Note is the indexable view of a note. The subsystem never mutates notes;
// it only reads their fields to build indexable text.
type Note struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"user_id"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Summary   string            `json:"summary,omitempty"`
	Tags      []string          `json:"tags,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
