package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/creator-api/internal/batch"
	"github.com/phrazzld/creator-api/internal/platform/logger"
	"github.com/phrazzld/creator-api/internal/textchunk"
)

const (
	// DefaultChunkSize is the input slice size for length-bounded rewriting.
	DefaultChunkSize = 4000

	// DefaultChunkDelay spaces out sequential chunk calls.
	DefaultChunkDelay = time.Second
)

// Rewriter rewrites text in fixed-size chunks, one call per chunk, and can
// polish the joined result in a second stage.
type Rewriter struct {
	gen      Generator
	settings RewriteSettings
	delay    time.Duration
	logger   *slog.Logger
}

// RewriterOption configures a Rewriter.
type RewriterOption func(*Rewriter)

// WithChunkDelay sets the pause between chunk calls.
func WithChunkDelay(d time.Duration) RewriterOption {
	return func(r *Rewriter) { r.delay = d }
}

// WithRewriteLogger sets the fallback logger.
func WithRewriteLogger(l *slog.Logger) RewriterOption {
	return func(r *Rewriter) { r.logger = l }
}

// NewRewriter creates a Rewriter.
func NewRewriter(gen Generator, settings RewriteSettings, opts ...RewriterOption) *Rewriter {
	r := &Rewriter{
		gen:      gen,
		settings: settings,
		delay:    DefaultChunkDelay,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rewrite runs the pipeline for one text. Chunks are rewritten sequentially
// and joined with blank lines. rep may be nil.
func (r *Rewriter) Rewrite(ctx context.Context, text string, overrides batch.Overrides, rep Reporter) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}
	rep = reporterOr(rep)
	s := r.settings.WithOverrides(overrides)
	log := logger.FromContextOrDefault(ctx, r.logger)

	size := s.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	chunks := textchunk.Fixed(text, size)
	log.Debug("rewriting text", "chunks", len(chunks), "chunk_size", size)

	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		if i > 0 {
			if err := sleep(ctx, r.delay); err != nil {
				return "", stageError("rewrite", err)
			}
		}
		rep.Report(fmt.Sprintf("rewriting chunk %d/%d", i+1, len(chunks)))

		prompt, err := render("rewrite", promptData{
			Text:         chunk,
			Language:     s.Language,
			Style:        s.Style,
			TargetLength: s.TargetLength,
			Part:         i + 1,
			Parts:        len(chunks),
		})
		if err != nil {
			return "", err
		}
		out, err := call(ctx, r.gen, s.Provider, systemRewrite, prompt)
		if err != nil {
			return "", stageError(fmt.Sprintf("rewrite chunk %d/%d", i+1, len(chunks)), err)
		}
		parts = append(parts, out)
	}
	rewritten := strings.Join(parts, "\n\n")

	if !s.Polish {
		return rewritten, nil
	}
	if err := rep.Analyzing("polishing"); err != nil {
		return "", err
	}
	prompt, err := render("polish", promptData{Text: rewritten, Language: s.Language})
	if err != nil {
		return "", err
	}
	polished, err := call(ctx, r.gen, s.Provider, systemRewrite, prompt)
	if err != nil {
		return "", stageError("polish", err)
	}
	return polished, nil
}

// Pipeline adapts the Rewriter to batch.Dispatcher.
func (r *Rewriter) Pipeline() batch.Pipeline {
	return func(ctx context.Context, item batch.WorkItem, stage *batch.Stage) (string, error) {
		return r.Rewrite(ctx, item.Input, item.Overrides, stage)
	}
}
