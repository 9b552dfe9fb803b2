// ABOUTME: Enhanced text preparation strategy with heavier weighting and metadata
// ABOUTME: Title 5x, summary 3x, content, tags 3x each, then key: value metadata
package indexing

import (
	"errors"
	"sort"
	"strings"

	"github.com/vertexhq/vertex/internal/models"
)

// EnhancedStrategyName is the configuration name of the enhanced strategy.
const EnhancedStrategyName = "enhanced"

const (
	enhancedTitleWeight   = 5
	enhancedSummaryWeight = 3
	enhancedTagWeight     = 3
)

// EnhancedStrategy weights fields more aggressively and appends free-form
// note metadata. Suited to notes with rich metadata and useful summaries.
//
// Text format:
//
//	[Title] x5
//	[Summary] x3
//	[Content]
//	[Tag1] x3 [Tag2] x3
//	[key1: value1, key2: value2]
type EnhancedStrategy struct {
	maxTextLength int
}

// NewEnhancedStrategy creates the enhanced strategy with the given character
// cap. A non-positive cap falls back to the default.
func NewEnhancedStrategy(maxTextLength int) *EnhancedStrategy {
	if maxTextLength <= 0 {
		maxTextLength = DefaultMaxTextLength
	}
	return &EnhancedStrategy{maxTextLength: maxTextLength}
}

// Name returns the strategy's configuration name.
func (s *EnhancedStrategy) Name() string { return EnhancedStrategyName }

// MaxTextLength returns the character cap applied to the final text.
func (s *EnhancedStrategy) MaxTextLength() int { return s.maxTextLength }

// PrepareText builds the weighted text blob for note.
func (s *EnhancedStrategy) PrepareText(note *models.Note) (IndexableText, error) {
	if note == nil {
		return IndexableText{}, errors.New("note cannot be nil")
	}

	var b strings.Builder
	meta := map[string]any{}

	if title := strings.TrimSpace(note.Title); title != "" {
		for i := 0; i < enhancedTitleWeight; i++ {
			b.WriteString(title)
			b.WriteString(" ")
		}
		meta["title_weight"] = enhancedTitleWeight
		meta["title_included"] = true
	}

	if summary := strings.TrimSpace(note.Summary); summary != "" {
		b.WriteString("\n")
		for i := 0; i < enhancedSummaryWeight; i++ {
			b.WriteString(summary)
			b.WriteString(" ")
		}
		meta["summary_weight"] = enhancedSummaryWeight
		meta["summary_included"] = true
	}

	if content := strings.TrimSpace(note.Content); content != "" {
		b.WriteString("\n")
		b.WriteString(content)
		meta["content_included"] = true
	}

	if len(note.Tags) > 0 {
		var wrote bool
		for _, tag := range note.Tags {
			t := strings.TrimSpace(tag)
			if t == "" {
				continue
			}
			if !wrote {
				b.WriteString("\n")
				wrote = true
			}
			for i := 0; i < enhancedTagWeight; i++ {
				b.WriteString(t)
				b.WriteString(" ")
			}
		}
		if wrote {
			meta["tags_weight"] = enhancedTagWeight
			meta["tags_included"] = true
			meta["tags_count"] = len(note.Tags)
		}
	}

	if len(note.Metadata) > 0 {
		keys := make([]string, 0, len(note.Metadata))
		for k := range note.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, k+": "+note.Metadata[k])
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(pairs, ", "))
		meta["note_metadata_included"] = true
		meta["note_metadata_count"] = len(note.Metadata)
	}

	text := strings.TrimSpace(b.String())
	text, truncated := truncate(text, s.maxTextLength)

	meta["strategy"] = EnhancedStrategyName
	meta["length"] = len(text)
	meta["estimated_tokens"] = len(text) / 4
	meta["truncated"] = truncated

	return IndexableText{Text: text, Metadata: meta}, nil
}
