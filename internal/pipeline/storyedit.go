package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/phrazzld/creator-api/internal/batch"
	"github.com/phrazzld/creator-api/internal/platform/logger"
)

// EditResult is the output of a StoryEditor run.
type EditResult struct {
	Edited   string    `json:"edited"`
	Analysis *Analysis `json:"analysis,omitempty"`
}

// String renders the edited story, followed by the analysis when present.
func (r *EditResult) String() string {
	if r.Analysis == nil {
		return r.Edited
	}
	return r.Edited + "\n\n---\n" + r.Analysis.String()
}

// StoryEditor edits a story and optionally analyzes the edited version.
type StoryEditor struct {
	gen      Generator
	settings EditSettings
	logger   *slog.Logger
}

// NewStoryEditor creates a StoryEditor.
func NewStoryEditor(gen Generator, settings EditSettings, l *slog.Logger) *StoryEditor {
	if l == nil {
		l = slog.Default()
	}
	return &StoryEditor{gen: gen, settings: settings, logger: l}
}

// Edit runs the pipeline for one story. rep may be nil.
func (e *StoryEditor) Edit(ctx context.Context, story string, overrides batch.Overrides, rep Reporter) (*EditResult, error) {
	if strings.TrimSpace(story) == "" {
		return nil, ErrEmptyInput
	}
	rep = reporterOr(rep)
	s := e.settings.WithOverrides(overrides)

	rep.Report("editing")
	prompt, err := render("edit", promptData{Text: story, Language: s.Language, TargetLength: s.TargetLength})
	if err != nil {
		return nil, err
	}
	edited, err := call(ctx, e.gen, s.Provider, systemEdit, prompt)
	if err != nil {
		return nil, stageError("edit", err)
	}

	result := &EditResult{Edited: edited}
	if !s.Analyze {
		return result, nil
	}

	if err := rep.Analyzing("analyzing"); err != nil {
		return nil, err
	}
	prompt, err = render("analyze", promptData{Text: edited, Language: s.Language})
	if err != nil {
		return nil, err
	}
	raw, err := call(ctx, e.gen, s.Provider, systemAnalyze, prompt)
	if err != nil {
		return nil, stageError("analyze", err)
	}
	analysis, err := ParseAnalysis(raw)
	if err != nil {
		logger.FromContextOrDefault(ctx, e.logger).Warn("analysis output rejected",
			"error", err, "output_len", len(raw))
		return nil, stageError("analyze", err)
	}
	result.Analysis = analysis
	return result, nil
}

// Pipeline adapts the StoryEditor to batch.Dispatcher.
func (e *StoryEditor) Pipeline() batch.Pipeline {
	return func(ctx context.Context, item batch.WorkItem, stage *batch.Stage) (string, error) {
		res, err := e.Edit(ctx, item.Input, item.Overrides, stage)
		if err != nil {
			return "", err
		}
		return res.String(), nil
	}
}
