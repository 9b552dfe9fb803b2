// ABOUTME: HTTP server exposing the note and semantic search API
// ABOUTME: chi router with logging, recovery, and timeout middleware
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/vertexhq/vertex/internal/config"
	"github.com/vertexhq/vertex/internal/embedding"
	"github.com/vertexhq/vertex/internal/notes"
	"github.com/vertexhq/vertex/internal/search"
	"github.com/vertexhq/vertex/internal/storage/sqlite"
)

// Server is the HTTP server for the note API.
type Server struct {
	service    *notes.Service
	engine     *search.Engine
	indexer    *search.Indexer
	registry   *embedding.Registry
	embeddings *sqlite.EmbeddingStore
	config     *config.ServerConfig
	logger     *zap.Logger
	server     *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	service *notes.Service,
	engine *search.Engine,
	indexer *search.Indexer,
	registry *embedding.Registry,
	embeddings *sqlite.EmbeddingStore,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		service:    service,
		engine:     engine,
		indexer:    indexer,
		registry:   registry,
		embeddings: embeddings,
		config:     cfg,
		logger:     logger,
	}
}

// Router builds the chi router with all routes attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Post("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/notes", s.handleCreateNote)
	r.Get("/api/v1/notes", s.handleListNotes)
	r.Get("/api/v1/notes/{id}", s.handleGetNote)
	r.Put("/api/v1/notes/{id}", s.handleUpdateNote)
	r.Delete("/api/v1/notes/{id}", s.handleDeleteNote)
	r.Get("/api/v1/notes/{id}/similar", s.handleSimilarNotes)
	r.Get("/api/v1/notes/{id}/embeddings", s.handleNoteEmbeddings)
	r.Post("/api/v1/reindex", s.handleReindex)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
