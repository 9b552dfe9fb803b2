// ABOUTME: Embedding model registry, dimension classes, and stored embedding rows
// ABOUTME: Dimension is a closed set; each width maps to its own vector column
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Dimension is the vector width class of an embedding model. Only the three
// widths below are supported; anything else is rejected at configuration time.
type Dimension int

const (
	DimensionSmall  Dimension = 768
	DimensionMedium Dimension = 1024
	DimensionLarge  Dimension = 1536
)

// dimensionColumns maps each dimension class to its storage column. Keeping
// this a lookup table makes column selection a pure function.
var dimensionColumns = map[Dimension]string{
	DimensionSmall:  "vector_small",
	DimensionMedium: "vector_medium",
	DimensionLarge:  "vector_large",
}

// Width returns the number of vector components for this dimension class.
func (d Dimension) Width() int {
	return int(d)
}

// Column returns the storage column holding vectors of this dimension.
func (d Dimension) Column() string {
	return dimensionColumns[d]
}

// Valid reports whether d is one of the supported dimension classes.
func (d Dimension) Valid() bool {
	_, ok := dimensionColumns[d]
	return ok
}

func (d Dimension) String() string {
	return fmt.Sprintf("%d", int(d))
}

// DimensionFromWidth resolves a vector width to its dimension class.
func DimensionFromWidth(width int) (Dimension, error) {
	d := Dimension(width)
	if !d.Valid() {
		return 0, fmt.Errorf("unsupported embedding dimension: %d (supported: 768, 1024, 1536)", width)
	}
	return d, nil
}

// ProviderFamily identifies which backend serves an embedding model.
type ProviderFamily string

const (
	ProviderOllama ProviderFamily = "ollama"
	ProviderOpenAI ProviderFamily = "openai"
)

// EmbeddingModel is a static registry entry describing one embedding model:
// which provider family serves it, its wire name, and its dimension class.
type EmbeddingModel struct {
	Provider  ProviderFamily
	Name      string
	Dimension Dimension
}

// The closed set of embedding models the system knows about.
var (
	ModelNomicEmbedText      = EmbeddingModel{ProviderOllama, "nomic-embed-text", DimensionSmall}
	ModelMxbaiEmbedLarge     = EmbeddingModel{ProviderOllama, "mxbai-embed-large", DimensionMedium}
	ModelTextEmbedding3Small = EmbeddingModel{ProviderOpenAI, "text-embedding-3-small", DimensionLarge}
)

// KnownModels lists every embedding model the registry can serve.
var KnownModels = []EmbeddingModel{
	ModelNomicEmbedText,
	ModelMxbaiEmbedLarge,
	ModelTextEmbedding3Small,
}

// ModelByName resolves a wire model name to its registry entry.
func ModelByName(name string) (EmbeddingModel, error) {
	for _, m := range KnownModels {
		if m.Name == name {
			return m, nil
		}
	}
	return EmbeddingModel{}, fmt.Errorf("unknown embedding model: %q", name)
}

// NoteEmbedding is one stored embedding row. ChunkIndex == nil marks the
// canonical whole-note embedding; non-nil rows are sub-document chunks.
// Chunked rows are modeled in storage but never produced by the current
// indexing paths.
type NoteEmbedding struct {
	ID         uuid.UUID `json:"id"`
	NoteID     uuid.UUID `json:"note_id"`
	Vector     []float32 `json:"vector"`
	Model      string    `json:"model"`
	Dimension  Dimension `json:"dimension"`
	ChunkIndex *int      `json:"chunk_index,omitempty"`
	ChunkText  string    `json:"chunk_text,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsCanonical reports whether this is the whole-note embedding.
func (e *NoteEmbedding) IsCanonical() bool {
	return e.ChunkIndex == nil
}
