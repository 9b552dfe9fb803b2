// ABOUTME: SQLite schema for notes and their embedding rows
// ABOUTME: One vector column per supported dimension; canonical rows are unique
package sqlite

// Schema contains all SQL statements for database initialization.
//
// note_embeddings carries one BLOB column per supported vector width; only
// the column matching the row's declared dimension is populated. The partial
// unique index makes the whole-note (chunk_index IS NULL) row unique per
// (note, model) and is the conflict target for the race-free upsert.
const Schema = `
-- Notes table (thin collaborator view; note text is owned elsewhere)
CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    summary TEXT,
    tags TEXT,
    metadata TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Embedding rows (vector storage)
CREATE TABLE IF NOT EXISTS note_embeddings (
    id TEXT PRIMARY KEY,
    note_id TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
    vector_small BLOB,
    vector_medium BLOB,
    vector_large BLOB,
    model TEXT NOT NULL,
    dimension INTEGER NOT NULL,
    chunk_index INTEGER,
    chunk_text TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_notes_user ON notes(user_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_note_embeddings_canonical
    ON note_embeddings(note_id, model) WHERE chunk_index IS NULL;
CREATE INDEX IF NOT EXISTS idx_note_embeddings_note ON note_embeddings(note_id);
CREATE INDEX IF NOT EXISTS idx_note_embeddings_model_dim ON note_embeddings(model, dimension);
`

// SchemaVersion is the current schema version for migrations.
const SchemaVersion = 1
