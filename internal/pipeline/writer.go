package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/phrazzld/creator-api/internal/platform/logger"
)

// previousTail bounds how much of the story so far is quoted back into each
// section prompt.
const previousTail = 1500

var outlineMarker = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)]|[IVXLC]+\.)\s*`)

// Sections turns an outline into section descriptions, one per non-blank
// line, with list markers removed.
func Sections(outline string) []string {
	var sections []string
	for _, line := range strings.Split(outline, "\n") {
		line = strings.TrimSpace(outlineMarker.ReplaceAllString(line, ""))
		if line != "" {
			sections = append(sections, line)
		}
	}
	return sections
}

// Writer produces a long-form story section by section from an outline.
type Writer struct {
	gen      Generator
	settings WriteSettings
	delay    time.Duration
	logger   *slog.Logger
}

// NewWriter creates a Writer that pauses delay between section calls.
func NewWriter(gen Generator, settings WriteSettings, delay time.Duration, l *slog.Logger) *Writer {
	if l == nil {
		l = slog.Default()
	}
	if settings.Language == "" {
		settings.Language = DefaultLanguage
	}
	return &Writer{gen: gen, settings: settings, delay: delay, logger: l}
}

// Write generates every section in order. The context is checked before each
// call and during the delay between calls. On cancellation or failure Write
// returns the sections already written together with the error.
func (w *Writer) Write(ctx context.Context, outline string, rep Reporter) (string, error) {
	sections := Sections(outline)
	if len(sections) == 0 {
		return "", ErrEmptyInput
	}
	rep = reporterOr(rep)
	log := logger.FromContextOrDefault(ctx, w.logger)

	var story strings.Builder
	for i, section := range sections {
		if i > 0 {
			if err := sleep(ctx, w.delay); err != nil {
				return w.stop(log, story.String(), i, len(sections), err)
			}
		}
		if err := ctx.Err(); err != nil {
			return w.stop(log, story.String(), i, len(sections), err)
		}
		rep.Report(fmt.Sprintf("writing section %d/%d", i+1, len(sections)))

		prompt, err := render("section", promptData{
			Language:     w.settings.Language,
			Style:        w.settings.Style,
			TargetLength: w.settings.SectionLength,
			Part:         i + 1,
			Parts:        len(sections),
			Outline:      outline,
			Section:      section,
			Previous:     tail(story.String(), previousTail),
		})
		if err != nil {
			return story.String(), err
		}
		out, err := call(ctx, w.gen, w.settings.Provider, systemWrite, prompt)
		if err != nil {
			return w.stop(log, story.String(), i, len(sections),
				stageError(fmt.Sprintf("section %d/%d", i+1, len(sections)), err))
		}
		if story.Len() > 0 {
			story.WriteString("\n\n")
		}
		story.WriteString(out)
	}
	return story.String(), nil
}

func (w *Writer) stop(log *slog.Logger, partial string, written, total int, err error) (string, error) {
	level := slog.LevelWarn
	if errors.Is(err, context.Canceled) {
		level = slog.LevelInfo
	}
	log.Log(context.Background(), level, "story writing stopped",
		slog.Int("sections_written", written),
		slog.Int("sections_total", total),
		slog.String("error", err.Error()))
	return partial, err
}

// tail returns at most n trailing runes of s.
func tail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
