// ABOUTME: HTTP handlers for notes, search, similar-note lookup, and health
// ABOUTME: Search never 500s; it degrades to an empty result set
package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vertexhq/vertex/internal/models"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if query.UserID == uuid.Nil {
		s.respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	s.logger.Debug("search request", zap.String("user_id", query.UserID.String()))
	result := s.engine.Search(r.Context(), query)
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var note models.Note
	if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.service.Create(r.Context(), &note); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, note)
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}
	list, err := s.service.ListByUser(userID)
	if err != nil {
		s.logger.Error("list notes failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		list = []*models.Note{}
	}
	s.respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	id, ok := s.noteIDParam(w, r)
	if !ok {
		return
	}
	note, err := s.service.Get(id)
	if err != nil {
		s.logger.Error("get note failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if note == nil {
		s.respondError(w, http.StatusNotFound, "note not found")
		return
	}
	s.respondJSON(w, http.StatusOK, note)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := s.noteIDParam(w, r)
	if !ok {
		return
	}
	var note models.Note
	if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	note.ID = id
	if err := s.service.Update(r.Context(), &note); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, note)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := s.noteIDParam(w, r)
	if !ok {
		return
	}
	if err := s.service.Delete(r.Context(), id); err != nil {
		s.logger.Error("delete note failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSimilarNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := s.noteIDParam(w, r)
	if !ok {
		return
	}
	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
	}
	result := s.engine.FindSimilar(r.Context(), id, userID, limit)
	s.respondJSON(w, http.StatusOK, result)
}

// handleNoteEmbeddings exposes a note's stored embedding rows for
// inspection, chunks included.
func (s *Server) handleNoteEmbeddings(w http.ResponseWriter, r *http.Request) {
	id, ok := s.noteIDParam(w, r)
	if !ok {
		return
	}
	embs, err := s.embeddings.GetByNote(id)
	if err != nil {
		s.logger.Error("get note embeddings failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if embs == nil {
		embs = []*models.NoteEmbedding{}
	}
	s.respondJSON(w, http.StatusOK, embs)
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	indexed, err := s.indexer.ReindexAll(r.Context())
	if err != nil {
		s.logger.Error("reindex failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]int{"indexed": indexed})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	indexed, err := s.embeddings.CountAll()
	if err != nil {
		s.logger.Error("health: count embeddings failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"providers": s.registry.StatusSummary(r.Context()),
		"indexed":   indexed,
	})
}

// noteIDParam parses the {id} URL parameter, writing a 400 on failure.
func (s *Server) noteIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid note ID")
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
