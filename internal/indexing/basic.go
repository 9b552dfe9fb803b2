// ABOUTME: Basic text preparation strategy: title 3x, content, tags once each
// ABOUTME: Fast general-purpose weighting for notes with clear titles
package indexing

import (
	"errors"
	"strings"

	"github.com/vertexhq/vertex/internal/models"
)

// BasicStrategyName is the configuration name of the basic strategy.
const BasicStrategyName = "basic"

// DefaultMaxTextLength caps prepared text at roughly 8k tokens.
const DefaultMaxTextLength = 32000

const basicTitleWeight = 3

// BasicStrategy weights fields as: title 3x, content 1x, each tag once.
//
// Text format:
//
//	[Title] [Title] [Title]
//	[Content]
//	[Tag1] [Tag2] [Tag3]
type BasicStrategy struct {
	maxTextLength int
}

// NewBasicStrategy creates the basic strategy with the given character cap.
// A non-positive cap falls back to the default.
func NewBasicStrategy(maxTextLength int) *BasicStrategy {
	if maxTextLength <= 0 {
		maxTextLength = DefaultMaxTextLength
	}
	return &BasicStrategy{maxTextLength: maxTextLength}
}

// Name returns the strategy's configuration name.
func (s *BasicStrategy) Name() string { return BasicStrategyName }

// MaxTextLength returns the character cap applied to the final text.
func (s *BasicStrategy) MaxTextLength() int { return s.maxTextLength }

// PrepareText builds the weighted text blob for note.
func (s *BasicStrategy) PrepareText(note *models.Note) (IndexableText, error) {
	if note == nil {
		return IndexableText{}, errors.New("note cannot be nil")
	}

	var b strings.Builder
	meta := map[string]any{}

	if title := strings.TrimSpace(note.Title); title != "" {
		for i := 0; i < basicTitleWeight; i++ {
			b.WriteString(title)
			b.WriteString(" ")
		}
		meta["title_weight"] = basicTitleWeight
		meta["title_included"] = true
	}

	if content := strings.TrimSpace(note.Content); content != "" {
		b.WriteString("\n")
		b.WriteString(content)
		meta["content_included"] = true
	}

	if len(note.Tags) > 0 {
		var tags []string
		for _, tag := range note.Tags {
			if t := strings.TrimSpace(tag); t != "" {
				tags = append(tags, t)
			}
		}
		if len(tags) > 0 {
			b.WriteString("\n")
			b.WriteString(strings.Join(tags, " "))
			meta["tags_included"] = true
			meta["tags_count"] = len(tags)
		}
	}

	text := strings.TrimSpace(b.String())
	text, truncated := truncate(text, s.maxTextLength)

	meta["strategy"] = BasicStrategyName
	meta["length"] = len(text)
	meta["estimated_tokens"] = len(text) / 4
	meta["truncated"] = truncated

	return IndexableText{Text: text, Metadata: meta}, nil
}
