package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phrazzld/creator-api/internal/aiproxy"
)

// Generator is the text call every stage makes. *aiproxy.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, req aiproxy.GenerateRequest) (string, error)
}

// Reporter receives progress from a running pipeline. *batch.Stage satisfies it.
type Reporter interface {
	Report(progress string)
	Analyzing(progress string) error
}

type nopReporter struct{}

func (nopReporter) Report(string)          {}
func (nopReporter) Analyzing(string) error { return nil }

func reporterOr(r Reporter) Reporter {
	if r == nil {
		return nopReporter{}
	}
	return r
}

// call runs one stage and rejects blank answers.
func call(ctx context.Context, gen Generator, provider, system, prompt string) (string, error) {
	out, err := gen.Generate(ctx, aiproxy.GenerateRequest{
		Prompt:            prompt,
		Provider:          provider,
		SystemInstruction: system,
	})
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptyOutput
	}
	return out, nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func stageError(stage string, err error) error {
	return fmt.Errorf("%s: %w", stage, err)
}
