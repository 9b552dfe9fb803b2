// ABOUTME: Note persistence operations for SQLite
// ABOUTME: Thin collaborator store; tags and metadata are JSON-encoded columns
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vertexhq/vertex/internal/models"
)

// NoteStore handles note persistence.
type NoteStore struct {
	db *DB
}

// NewNoteStore creates a new NoteStore.
func NewNoteStore(db *DB) *NoteStore {
	return &NoteStore{db: db}
}

// Save inserts or replaces a note.
func (s *NoteStore) Save(note *models.Note) error {
	tags, err := json.Marshal(note.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}
	metadata, err := json.Marshal(note.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO notes (id, user_id, title, content, summary, tags, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			summary = excluded.summary,
			tags = excluded.tags,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`, note.ID.String(), note.UserID.String(), note.Title, note.Content,
		nullString(note.Summary), string(tags), string(metadata),
		note.CreatedAt, note.UpdatedAt)

	return err
}

// Get retrieves a note by ID. Returns nil without error when absent.
func (s *NoteStore) Get(id uuid.UUID) (*models.Note, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, title, content, summary, tags, metadata, created_at, updated_at
		FROM notes
		WHERE id = ?
	`, id.String())

	note, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return note, err
}

// Delete removes a note. Idempotent: deleting an absent note is not an error.
func (s *NoteStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec("DELETE FROM notes WHERE id = ?", id.String())
	return err
}

// ListByUser returns all notes owned by userID, newest first.
func (s *NoteStore) ListByUser(userID uuid.UUID) ([]*models.Note, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, title, content, summary, tags, metadata, created_at, updated_at
		FROM notes
		WHERE user_id = ?
		ORDER BY updated_at DESC
	`, userID.String())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return collectNotes(rows)
}

// ListAll returns every stored note (used by full reindex).
func (s *NoteStore) ListAll() ([]*models.Note, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, title, content, summary, tags, metadata, created_at, updated_at
		FROM notes
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return collectNotes(rows)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	var (
		note          models.Note
		idStr, usrStr string
		summary       sql.NullString
		tags          sql.NullString
		metadata      sql.NullString
		createdAt     time.Time
		updatedAt     time.Time
	)

	if err := row.Scan(&idStr, &usrStr, &note.Title, &note.Content,
		&summary, &tags, &metadata, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid note id %q: %w", idStr, err)
	}
	userID, err := uuid.Parse(usrStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", usrStr, err)
	}

	note.ID = id
	note.UserID = userID
	note.CreatedAt = createdAt
	note.UpdatedAt = updatedAt
	if summary.Valid {
		note.Summary = summary.String
	}
	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &note.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags: %w", err)
		}
	}
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &note.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata: %w", err)
		}
	}

	return &note, nil
}

func collectNotes(rows *sql.Rows) ([]*models.Note, error) {
	var notes []*models.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
