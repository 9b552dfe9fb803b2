// ABOUTME: Search query and result structures for semantic note search
// ABOUTME: Queries are always scoped to a single user
package models

import "github.com/google/uuid"

// SearchQuery describes one semantic search request. UserID is mandatory;
// Model, MinSimilarity, and MaxResults fall back to configured defaults
// when unset.
type SearchQuery struct {
	Text          string    `json:"text"`
	UserID        uuid.UUID `json:"user_id"`
	Model         string    `json:"model,omitempty"`
	MinSimilarity *float64  `json:"min_similarity,omitempty"`
	MaxResults    int       `json:"max_results,omitempty"`
}

// SearchHit is one ranked result: a note reference plus a similarity score
// in [0,1]. ChunkIndex is set when the hit came from a chunked embedding.
type SearchHit struct {
	NoteID     uuid.UUID `json:"note_id"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary,omitempty"`
	Score      float64   `json:"score"`
	ChunkIndex *int      `json:"chunk_index,omitempty"`
}

// SearchResult is a ranked result set. TotalHits equals len(Hits); there is
// no separate count query.
type SearchResult struct {
	Hits      []SearchHit `json:"hits"`
	TotalHits int         `json:"total_hits"`
}

// EmptyResult returns a result set with zero hits.
func EmptyResult() SearchResult {
	return SearchResult{Hits: []SearchHit{}, TotalHits: 0}
}
