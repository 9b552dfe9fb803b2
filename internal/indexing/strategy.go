// ABOUTME: Text preparation strategy contract and the IndexableText value
// ABOUTME: Strategies turn note fields into one weighted blob for embedding
package indexing

import (
	"fmt"
	"unicode/utf8"

	"github.com/vertexhq/vertex/internal/models"
)

// Strategy converts a note's structured fields into one text blob suitable
// for embedding. Field weighting works by repetition: most embedding
// backends accept only raw text, so repeating a field inflates its
// contribution to the vector.
type Strategy interface {
	// PrepareText builds the indexable text for note. The note itself must
	// be non-nil; blank or absent fields are skipped silently.
	PrepareText(note *models.Note) (IndexableText, error)

	// Name returns the strategy's configuration name.
	Name() string

	// MaxTextLength returns the character cap applied to the final text.
	MaxTextLength() int
}

// IndexableText is the prepared string plus metadata describing how it was
// built. Produced fresh on every index call, never cached or persisted.
type IndexableText struct {
	Text     string
	Metadata map[string]any
}

// Length returns the character length of the prepared text.
func (t IndexableText) Length() int {
	return len(t.Text)
}

// EstimatedTokens is a rough token estimate (1 token per 4 characters).
func (t IndexableText) EstimatedTokens() int {
	return len(t.Text) / 4
}

// Truncated reports whether the text was cut at the strategy's length cap.
func (t IndexableText) Truncated() bool {
	truncated, _ := t.Metadata["truncated"].(bool)
	return truncated
}

// IsEmpty reports whether no text survived preparation.
func (t IndexableText) IsEmpty() bool {
	return t.Text == ""
}

// ForName returns the strategy registered under name, honoring the
// configured maximum text length.
func ForName(name string, maxTextLength int) (Strategy, error) {
	switch name {
	case BasicStrategyName, "":
		return NewBasicStrategy(maxTextLength), nil
	case EnhancedStrategyName:
		return NewEnhancedStrategy(maxTextLength), nil
	default:
		return nil, fmt.Errorf("unknown indexing strategy: %q (available: %s, %s)",
			name, BasicStrategyName, EnhancedStrategyName)
	}
}

// truncate hard-cuts text at maxLen; cutting at a word boundary is not
// attempted, but the cut never splits a multi-byte rune.
func truncate(text string, maxLen int) (string, bool) {
	if maxLen <= 0 || len(text) <= maxLen {
		return text, false
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut], true
}
