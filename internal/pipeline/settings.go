package pipeline

import "github.com/phrazzld/creator-api/internal/batch"

// DefaultLanguage is the output language when none is configured.
const DefaultLanguage = "Vietnamese"

// RewriteSettings configure a Rewriter.
type RewriteSettings struct {
	Language string `json:"language"`
	Style    string `json:"style"`
	// TargetLength is the desired output length in words. Zero keeps the source length.
	TargetLength int `json:"targetLength"`
	// Polish adds a second stage that edits the joined rewrite.
	Polish   bool   `json:"polish"`
	Provider string `json:"provider"`
	// ChunkSize is the input slice size in characters. Zero means DefaultChunkSize.
	ChunkSize int `json:"chunkSize"`
}

// EditSettings configure a StoryEditor.
type EditSettings struct {
	Language     string `json:"language"`
	TargetLength int    `json:"targetLength"`
	// Analyze adds a second stage that scores the edited story.
	Analyze  bool   `json:"analyze"`
	Provider string `json:"provider"`
}

// WriteSettings configure a Writer.
type WriteSettings struct {
	Language string `json:"language"`
	Style    string `json:"style"`
	// SectionLength is the desired length of each section in words.
	SectionLength int    `json:"sectionLength"`
	Provider      string `json:"provider"`
}

// WithOverrides returns s with the non-zero fields of o applied.
func (s RewriteSettings) WithOverrides(o batch.Overrides) RewriteSettings {
	s.Language = firstNonEmpty(o.Language, s.Language, DefaultLanguage)
	s.Style = firstNonEmpty(o.Style, s.Style)
	if o.TargetLength > 0 {
		s.TargetLength = o.TargetLength
	}
	return s
}

// WithOverrides returns s with the non-zero fields of o applied.
func (s EditSettings) WithOverrides(o batch.Overrides) EditSettings {
	s.Language = firstNonEmpty(o.Language, s.Language, DefaultLanguage)
	if o.TargetLength > 0 {
		s.TargetLength = o.TargetLength
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
