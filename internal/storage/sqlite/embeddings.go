// ABOUTME: Embedding row persistence and similarity search for SQLite
// ABOUTME: Vectors are float32 BLOBs in per-dimension columns; ranking is a dot product
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vertexhq/vertex/internal/models"
	"github.com/vertexhq/vertex/internal/vector"
)

// EmbeddingStore owns note_embeddings rows. No other component mutates them.
type EmbeddingStore struct {
	db     *DB
	logger *zap.Logger
}

// NewEmbeddingStore creates a new EmbeddingStore.
func NewEmbeddingStore(db *DB, logger *zap.Logger) *EmbeddingStore {
	return &EmbeddingStore{db: db, logger: logger}
}

// Upsert inserts the embedding, or updates the vector and updated_at of the
// existing canonical row for the same (note, model). The conflict target is
// the partial unique index on (note_id, model) WHERE chunk_index IS NULL, so
// concurrent writers converge on one row without a per-note lock. Returns
// the stored row.
func (s *EmbeddingStore) Upsert(emb *models.NoteEmbedding) (*models.NoteEmbedding, error) {
	if !emb.Dimension.Valid() {
		return nil, fmt.Errorf("unsupported embedding dimension: %d", emb.Dimension)
	}
	if len(emb.Vector) != emb.Dimension.Width() {
		return nil, fmt.Errorf("vector length %d does not match dimension %d", len(emb.Vector), emb.Dimension.Width())
	}

	now := time.Now().UTC()
	if emb.CreatedAt.IsZero() {
		emb.CreatedAt = now
	}
	if emb.UpdatedAt.IsZero() {
		emb.UpdatedAt = now
	}

	blob := vectorToBlob(emb.Vector)
	small, medium, large := blobForDimension(emb.Dimension, blob)

	if emb.IsCanonical() {
		_, err := s.db.Exec(`
			INSERT INTO note_embeddings
				(id, note_id, vector_small, vector_medium, vector_large, model, dimension, chunk_index, chunk_text, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, NULL, ?, ?, ?)
			ON CONFLICT(note_id, model) WHERE chunk_index IS NULL DO UPDATE SET
				vector_small = excluded.vector_small,
				vector_medium = excluded.vector_medium,
				vector_large = excluded.vector_large,
				dimension = excluded.dimension,
				chunk_text = excluded.chunk_text,
				updated_at = excluded.updated_at
		`, emb.ID.String(), emb.NoteID.String(), small, medium, large,
			emb.Model, emb.Dimension.Width(), nullString(emb.ChunkText),
			emb.CreatedAt, emb.UpdatedAt)
		if err != nil {
			return nil, err
		}
		return s.GetCanonical(emb.NoteID, emb.Model)
	}

	_, err := s.db.Exec(`
		INSERT INTO note_embeddings
			(id, note_id, vector_small, vector_medium, vector_large, model, dimension, chunk_index, chunk_text, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, emb.ID.String(), emb.NoteID.String(), small, medium, large,
		emb.Model, emb.Dimension.Width(), *emb.ChunkIndex, nullString(emb.ChunkText),
		emb.CreatedAt, emb.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return emb, nil
}

// GetCanonical retrieves the whole-note embedding for (noteID, model).
// Returns nil without error when absent.
func (s *EmbeddingStore) GetCanonical(noteID uuid.UUID, model string) (*models.NoteEmbedding, error) {
	row := s.db.QueryRow(`
		SELECT id, note_id, vector_small, vector_medium, vector_large, model, dimension, chunk_index, chunk_text, created_at, updated_at
		FROM note_embeddings
		WHERE note_id = ? AND model = ? AND chunk_index IS NULL
	`, noteID.String(), model)

	emb, err := scanEmbedding(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return emb, err
}

// GetByNote retrieves all embedding rows for a note, chunks included.
func (s *EmbeddingStore) GetByNote(noteID uuid.UUID) ([]*models.NoteEmbedding, error) {
	rows, err := s.db.Query(`
		SELECT id, note_id, vector_small, vector_medium, vector_large, model, dimension, chunk_index, chunk_text, created_at, updated_at
		FROM note_embeddings
		WHERE note_id = ?
		ORDER BY chunk_index ASC NULLS FIRST
	`, noteID.String())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*models.NoteEmbedding
	for rows.Next() {
		emb, err := scanEmbedding(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emb)
	}
	return out, rows.Err()
}

// DeleteByNote removes all embedding rows for a note, chunks included.
// Idempotent: deleting when nothing exists is not an error.
func (s *EmbeddingStore) DeleteByNote(noteID uuid.UUID) error {
	_, err := s.db.Exec("DELETE FROM note_embeddings WHERE note_id = ?", noteID.String())
	return err
}

// SearchByVector ranks the given user's embeddings against queryVector and
// returns hits at or above minSimilarity, best first, capped at limit. Only
// rows matching the query's model and dimension are compared; the dimension
// routes to its own vector column so mismatched widths never meet.
func (s *EmbeddingStore) SearchByVector(queryVector []float32, model string, userID uuid.UUID, minSimilarity float64, limit int) ([]models.SearchHit, error) {
	dim, err := models.DimensionFromWidth(len(queryVector))
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT n.id, n.title, n.summary, e.chunk_index, e.%[1]s
		FROM note_embeddings e
		INNER JOIN notes n ON e.note_id = n.id
		WHERE n.user_id = ?
		  AND e.model = ?
		  AND e.dimension = ?
		  AND e.%[1]s IS NOT NULL
	`, dim.Column())

	rows, err := s.db.Query(query, userID.String(), model, dim.Width())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	hits, err := s.rankRows(rows, queryVector, minSimilarity, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// FindKNearest ranks the user's other notes against the stored canonical
// embedding of noteID, excluding noteID itself and all chunk rows. When the
// note has no embedding the result is empty, not an error.
func (s *EmbeddingStore) FindKNearest(noteID, userID uuid.UUID, minSimilarity float64, k int) ([]models.SearchHit, error) {
	target, err := s.anyCanonical(noteID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		s.logger.Warn("no embedding found for note, returning empty neighbor set",
			zap.String("note_id", noteID.String()))
		return []models.SearchHit{}, nil
	}

	query := fmt.Sprintf(`
		SELECT n.id, n.title, n.summary, e.chunk_index, e.%[1]s
		FROM note_embeddings e
		INNER JOIN notes n ON e.note_id = n.id
		WHERE n.user_id = ?
		  AND e.note_id != ?
		  AND e.model = ?
		  AND e.dimension = ?
		  AND e.chunk_index IS NULL
		  AND e.%[1]s IS NOT NULL
	`, target.Dimension.Column())

	rows, err := s.db.Query(query, userID.String(), noteID.String(), target.Model, target.Dimension.Width())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	hits, err := s.rankRows(rows, target.Vector, minSimilarity, noteID)
	if err != nil {
		return nil, err
	}
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// CountAll returns the total number of embedding rows.
func (s *EmbeddingStore) CountAll() (int64, error) {
	var n int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM note_embeddings").Scan(&n)
	return n, err
}

// CountByUser returns the number of embedding rows owned by userID.
func (s *EmbeddingStore) CountByUser(userID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.QueryRow(`
		SELECT COUNT(e.id)
		FROM note_embeddings e
		INNER JOIN notes n ON e.note_id = n.id
		WHERE n.user_id = ?
	`, userID.String()).Scan(&n)
	return n, err
}

// IndexedNoteIDs returns the IDs of all notes that have a canonical embedding.
func (s *EmbeddingStore) IndexedNoteIDs() ([]uuid.UUID, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT note_id FROM note_embeddings WHERE chunk_index IS NULL
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []uuid.UUID
	for rows.Next() {
		var str string
		if err := rows.Scan(&str); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(str)
		if err != nil {
			return nil, fmt.Errorf("invalid note id %q: %w", str, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// anyCanonical returns a canonical embedding for noteID regardless of model,
// or nil when the note is not indexed.
func (s *EmbeddingStore) anyCanonical(noteID uuid.UUID) (*models.NoteEmbedding, error) {
	row := s.db.QueryRow(`
		SELECT id, note_id, vector_small, vector_medium, vector_large, model, dimension, chunk_index, chunk_text, created_at, updated_at
		FROM note_embeddings
		WHERE note_id = ? AND chunk_index IS NULL
		ORDER BY updated_at DESC
		LIMIT 1
	`, noteID.String())

	emb, err := scanEmbedding(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return emb, err
}

// rankRows scores each candidate row against queryVector and returns hits
// at or above minSimilarity, highest first. Vectors are unit length, so the
// dot product is the cosine similarity.
func (s *EmbeddingStore) rankRows(rows *sql.Rows, queryVector []float32, minSimilarity float64, exclude uuid.UUID) ([]models.SearchHit, error) {
	hits := []models.SearchHit{}

	for rows.Next() {
		var (
			idStr      string
			title      string
			summary    sql.NullString
			chunkIndex sql.NullInt64
			blob       []byte
		)
		if err := rows.Scan(&idStr, &title, &summary, &chunkIndex, &blob); err != nil {
			return nil, err
		}

		noteID, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid note id %q: %w", idStr, err)
		}
		if exclude != uuid.Nil && noteID == exclude {
			continue
		}

		candidate := blobToVector(blob)
		if len(candidate) != len(queryVector) {
			continue
		}

		score := vector.ClampScore(vector.Dot(queryVector, candidate))
		if score < minSimilarity {
			continue
		}

		hit := models.SearchHit{NoteID: noteID, Title: title, Score: score}
		if summary.Valid {
			hit.Summary = summary.String
		}
		if chunkIndex.Valid {
			idx := int(chunkIndex.Int64)
			hit.ChunkIndex = &idx
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	return hits, nil
}

// scanEmbedding reads one embedding row, decoding the populated vector column.
func scanEmbedding(row rowScanner) (*models.NoteEmbedding, error) {
	var (
		idStr, noteStr       string
		small, medium, large []byte
		model                string
		dimension            int
		chunkIndex           sql.NullInt64
		chunkText            sql.NullString
		createdAt, updatedAt time.Time
	)

	if err := row.Scan(&idStr, &noteStr, &small, &medium, &large,
		&model, &dimension, &chunkIndex, &chunkText, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid embedding id %q: %w", idStr, err)
	}
	noteID, err := uuid.Parse(noteStr)
	if err != nil {
		return nil, fmt.Errorf("invalid note id %q: %w", noteStr, err)
	}
	dim, err := models.DimensionFromWidth(dimension)
	if err != nil {
		return nil, err
	}

	var blob []byte
	switch dim {
	case models.DimensionSmall:
		blob = small
	case models.DimensionMedium:
		blob = medium
	case models.DimensionLarge:
		blob = large
	}

	emb := &models.NoteEmbedding{
		ID:        id,
		NoteID:    noteID,
		Vector:    blobToVector(blob),
		Model:     model,
		Dimension: dim,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	if chunkIndex.Valid {
		idx := int(chunkIndex.Int64)
		emb.ChunkIndex = &idx
	}
	if chunkText.Valid {
		emb.ChunkText = chunkText.String
	}
	return emb, nil
}

// blobForDimension routes the encoded vector into the column for dim.
func blobForDimension(dim models.Dimension, blob []byte) (small, medium, large []byte) {
	switch dim {
	case models.DimensionSmall:
		return blob, nil, nil
	case models.DimensionMedium:
		return nil, blob, nil
	case models.DimensionLarge:
		return nil, nil, blob
	}
	return nil, nil, nil
}

// vectorToBlob converts a float32 slice to a little-endian binary blob.
func vectorToBlob(v []float32) []byte {
	blob := make([]byte, len(v)*4)
	for i, x := range v {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(x))
	}
	return blob
}

// blobToVector converts a binary blob back to a float32 slice.
func blobToVector(blob []byte) []float32 {
	count := len(blob) / 4
	v := make([]float32, count)
	for i := 0; i < count; i++ {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return v
}
