// ABOUTME: Tests for the query engine's defaults and graceful degradation
// ABOUTME: Every failure path must read as an empty result, never an error
package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/vertexhq/vertex/internal/models"
)

func TestEngine_BlankQueryOrMissingUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if got := env.engine.Search(ctx, models.SearchQuery{Text: "  ", UserID: uuid.New()}); got.TotalHits != 0 {
		t.Errorf("blank text TotalHits = %d, want 0", got.TotalHits)
	}
	if got := env.engine.Search(ctx, models.SearchQuery{Text: "machine learning"}); got.TotalHits != 0 {
		t.Errorf("zero user TotalHits = %d, want 0", got.TotalHits)
	}
	if env.provider.embedCalls != 0 {
		t.Errorf("embedCalls = %d, want 0 for rejected queries", env.provider.embedCalls)
	}
}

func TestEngine_UnknownModelIsEmpty(t *testing.T) {
	env := newTestEnv(t)

	got := env.engine.Search(context.Background(), models.SearchQuery{
		Text:   "machine learning",
		UserID: uuid.New(),
		Model:  "no-such-model",
	})
	if got.TotalHits != 0 {
		t.Errorf("TotalHits = %d, want 0", got.TotalHits)
	}
}

func TestEngine_ProviderNotReadyIsEmpty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	note := newNote(userID, "Machine Learning Notes", "Content.")
	mustSave(t, env, note)
	if err := env.indexer.Index(ctx, note); err != nil {
		t.Fatalf("Index() error = %v", err)
	}

	env.provider.ready = false
	got := env.engine.Search(ctx, models.SearchQuery{Text: "machine learning", UserID: userID})
	if got.TotalHits != 0 {
		t.Errorf("TotalHits = %d, want 0 when provider down", got.TotalHits)
	}
}

func TestEngine_EmbedFailureIsEmpty(t *testing.T) {
	env := newTestEnv(t)
	env.provider.failEmbeds = true

	got := env.engine.Search(context.Background(), models.SearchQuery{
		Text:   "machine learning",
		UserID: uuid.New(),
	})
	if got.TotalHits != 0 {
		t.Errorf("TotalHits = %d, want 0 on embed failure", got.TotalHits)
	}
}

func TestEngine_MinSimilarityOverride(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	note := newNote(userID, "Machine Learning Notes", "Neural networks.")
	mustSave(t, env, note)
	if err := env.indexer.Index(ctx, note); err != nil {
		t.Fatalf("Index() error = %v", err)
	}

	strict := 1.1
	got := env.engine.Search(ctx, models.SearchQuery{
		Text:          "machine learning",
		UserID:        userID,
		MinSimilarity: &strict,
	})
	if got.TotalHits != 0 {
		t.Errorf("TotalHits = %d, want 0 above unreachable floor", got.TotalHits)
	}

	loose := 0.0
	got = env.engine.Search(ctx, models.SearchQuery{
		Text:          "machine learning",
		UserID:        userID,
		MinSimilarity: &loose,
	})
	if got.TotalHits != 1 {
		t.Errorf("TotalHits = %d, want 1 with zero floor", got.TotalHits)
	}
}

func TestEngine_LimitDefaultsAndCap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	// 25 notes on the same topic exceeds the default limit of 20.
	for i := 0; i < 25; i++ {
		note := newNote(userID, fmt.Sprintf("Machine Learning Notes %d", i), "Neural networks.")
		mustSave(t, env, note)
		if err := env.indexer.Index(ctx, note); err != nil {
			t.Fatalf("Index() error = %v", err)
		}
	}

	got := env.engine.Search(ctx, models.SearchQuery{Text: "machine learning", UserID: userID})
	if got.TotalHits != 20 {
		t.Errorf("default limit TotalHits = %d, want 20", got.TotalHits)
	}

	got = env.engine.Search(ctx, models.SearchQuery{Text: "machine learning", UserID: userID, MaxResults: 5})
	if got.TotalHits != 5 {
		t.Errorf("explicit limit TotalHits = %d, want 5", got.TotalHits)
	}

	got = env.engine.Search(ctx, models.SearchQuery{Text: "machine learning", UserID: userID, MaxResults: 500})
	if got.TotalHits != 25 {
		t.Errorf("capped limit TotalHits = %d, want all 25 under cap 100", got.TotalHits)
	}
}

func TestEngine_UserIsolation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	aliceNote := newNote(alice, "Machine Learning Notes", "Neural networks.")
	bobNote := newNote(bob, "Machine Learning Digest", "Neural networks again.")
	mustSave(t, env, aliceNote)
	mustSave(t, env, bobNote)
	if err := env.indexer.Index(ctx, aliceNote); err != nil {
		t.Fatalf("Index() error = %v", err)
	}
	if err := env.indexer.Index(ctx, bobNote); err != nil {
		t.Fatalf("Index() error = %v", err)
	}

	got := env.engine.Search(ctx, models.SearchQuery{Text: "machine learning", UserID: alice})
	if got.TotalHits != 1 {
		t.Fatalf("TotalHits = %d, want 1", got.TotalHits)
	}
	if got.Hits[0].NoteID != aliceNote.ID {
		t.Errorf("NoteID = %s, want alice's %s", got.Hits[0].NoteID, aliceNote.ID)
	}
}

func TestEngine_FindSimilar(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	a := newNote(userID, "Machine Learning Notes", "Neural networks.")
	b := newNote(userID, "Deep Learning", "More about neural networks.")
	c := newNote(userID, "Journal", "Grocery list.")
	for _, n := range []*models.Note{a, b, c} {
		mustSave(t, env, n)
		if err := env.indexer.Index(ctx, n); err != nil {
			t.Fatalf("Index() error = %v", err)
		}
	}

	got := env.engine.FindSimilar(ctx, a.ID, userID, 10)
	if got.TotalHits != 1 {
		t.Fatalf("TotalHits = %d, want 1", got.TotalHits)
	}
	if got.Hits[0].NoteID != b.ID {
		t.Errorf("NoteID = %s, want %s", got.Hits[0].NoteID, b.ID)
	}
	for _, hit := range got.Hits {
		if hit.NoteID == a.ID {
			t.Error("FindSimilar must exclude the source note")
		}
	}
}

func TestEngine_FindSimilarUnindexedNote(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()

	note := newNote(userID, "Machine Learning Notes", "Content.")
	mustSave(t, env, note)

	got := env.engine.FindSimilar(context.Background(), note.ID, userID, 10)
	if got.TotalHits != 0 {
		t.Errorf("TotalHits = %d, want 0 for unindexed note", got.TotalHits)
	}
}
