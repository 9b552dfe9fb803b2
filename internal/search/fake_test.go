// ABOUTME: Deterministic fake embedding provider shared by search tests
// ABOUTME: Maps topic keywords to fixed axes so similarity is predictable
package search

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/vertexhq/vertex/internal/embedding"
	"github.com/vertexhq/vertex/internal/indexing"
	"github.com/vertexhq/vertex/internal/models"
	"github.com/vertexhq/vertex/internal/storage/sqlite"
	"github.com/vertexhq/vertex/internal/vector"
)

// Topic keywords pinned to axes. Texts sharing a topic embed to the same
// unit vector; texts with no topic hash to a high axis of their own.
var topicAxes = []struct {
	axis  int
	terms []string
}{
	{0, []string{"machine learning", "artificial intelligence", "neural"}},
	{1, []string{"quantum"}},
}

type fakeProvider struct {
	model      models.EmbeddingModel
	ready      bool
	failEmbeds bool
	embedCalls int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{model: models.ModelNomicEmbedText, ready: true}
}

func (p *fakeProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	p.embedCalls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.failEmbeds {
		return nil, errors.New("backend unavailable")
	}

	v := make([]float32, p.model.Dimension.Width())
	lower := strings.ToLower(text)
	matched := false
	for _, topic := range topicAxes {
		for _, term := range topic.terms {
			if strings.Contains(lower, term) {
				v[topic.axis] = 1
				matched = true
				break
			}
		}
	}
	if !matched {
		h := fnv.New32a()
		h.Write([]byte(lower))
		v[10+int(h.Sum32())%700] = 1
	}
	vector.Normalize(v)
	return v, nil
}

func (p *fakeProvider) EmbedAll(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := p.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (p *fakeProvider) Model() models.EmbeddingModel { return p.model }
func (p *fakeProvider) ModelName() string            { return p.model.Name }
func (p *fakeProvider) Dimension() int               { return p.model.Dimension.Width() }
func (p *fakeProvider) MaxTextLength() int           { return 32000 }
func (p *fakeProvider) IsReady(ctx context.Context) bool { return p.ready && ctx.Err() == nil }

type testEnv struct {
	db       *sqlite.DB
	notes    *sqlite.NoteStore
	embs     *sqlite.EmbeddingStore
	provider *fakeProvider
	indexer  *Indexer
	engine   *Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := zap.NewNop()
	noteStore := sqlite.NewNoteStore(db)
	embStore := sqlite.NewEmbeddingStore(db, logger)

	provider := newFakeProvider()
	registry := embedding.NewRegistry(context.Background(), []embedding.Provider{provider}, logger)

	strategy, err := indexing.ForName(indexing.BasicStrategyName, indexing.DefaultMaxTextLength)
	if err != nil {
		t.Fatalf("ForName() error = %v", err)
	}

	indexer := NewIndexer(registry, strategy, provider.model, noteStore, embStore, logger)
	engine := NewEngine(registry, embStore, EngineOptions{
		DefaultModel:  provider.model,
		MinSimilarity: 0.5,
		DefaultLimit:  20,
		MaxResults:    100,
	}, logger)

	return &testEnv{
		db:       db,
		notes:    noteStore,
		embs:     embStore,
		provider: provider,
		indexer:  indexer,
		engine:   engine,
	}
}
