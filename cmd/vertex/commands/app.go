// ABOUTME: Shared dependency wiring for CLI commands
// ABOUTME: Builds config, logger, storage, providers, and the search stack
package commands

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vertexhq/vertex/internal/config"
	"github.com/vertexhq/vertex/internal/embedding"
	"github.com/vertexhq/vertex/internal/indexing"
	"github.com/vertexhq/vertex/internal/models"
	"github.com/vertexhq/vertex/internal/notes"
	"github.com/vertexhq/vertex/internal/search"
	"github.com/vertexhq/vertex/internal/storage/sqlite"
)

// app bundles everything a command needs after wiring.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	db         *sqlite.DB
	noteStore  *sqlite.NoteStore
	embeddings *sqlite.EmbeddingStore
	registry   *embedding.Registry
	indexer    *search.Indexer
	engine     *search.Engine
	service    *notes.Service
	bus        *notes.Bus
}

// newApp loads configuration and wires the full stack. The caller must
// call Close when done.
func newApp(ctx context.Context) (*app, error) {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	dbPath := cfg.Storage.DatabasePath
	if dbPath == "" {
		dbPath = sqlite.DefaultDBPath()
	}
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	noteStore := sqlite.NewNoteStore(db)
	embStore := sqlite.NewEmbeddingStore(db, logger)

	providers, err := buildProviders(cfg, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	registry := embedding.NewRegistry(ctx, providers, logger)

	strategy, err := indexing.ForName(cfg.Indexing.Strategy, cfg.Indexing.MaxTextLength)
	if err != nil {
		db.Close()
		return nil, err
	}

	defaultModel := cfg.DefaultModel()
	indexer := search.NewIndexer(registry, strategy, defaultModel, noteStore, embStore, logger)
	engine := search.NewEngine(registry, embStore, search.EngineOptions{
		DefaultModel:  defaultModel,
		MinSimilarity: cfg.Search.MinSimilarity,
		DefaultLimit:  cfg.Search.DefaultLimit,
		MaxResults:    cfg.Search.MaxResults,
	}, logger)

	bus := notes.NewBus()
	service := notes.NewService(noteStore, bus, logger)
	search.NewSynchronizer(indexer, logger).Attach(bus)

	return &app{
		cfg:        cfg,
		logger:     logger,
		db:         db,
		noteStore:  noteStore,
		embeddings: embStore,
		registry:   registry,
		indexer:    indexer,
		engine:     engine,
		service:    service,
		bus:        bus,
	}, nil
}

// Close drains in-flight index work and releases resources.
func (a *app) Close() {
	a.bus.Wait()
	_ = a.logger.Sync()
	_ = a.db.Close()
}

// buildProviders instantiates one provider per known model whose backend
// is enabled in configuration.
func buildProviders(cfg *config.Config, logger *zap.Logger) ([]embedding.Provider, error) {
	var providers []embedding.Provider
	for _, model := range models.KnownModels {
		pc, ok := cfg.Embedding.Providers[string(model.Provider)]
		if !ok || !pc.Enabled {
			continue
		}
		switch model.Provider {
		case models.ProviderOllama:
			providers = append(providers, embedding.NewOllamaProvider(model, pc.BaseURL, pc.Timeout.Std(), logger))
		case models.ProviderOpenAI:
			p, err := embedding.NewOpenAIProvider(model, pc.APIKey, pc.BaseURL, pc.Timeout.Std(), logger)
			if err != nil {
				return nil, fmt.Errorf("configuring openai provider: %w", err)
			}
			providers = append(providers, p)
		}
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("no embedding providers enabled")
	}
	return providers, nil
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	if quiet {
		return zap.NewNop(), nil
	}
	if cfg.Debug || verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
