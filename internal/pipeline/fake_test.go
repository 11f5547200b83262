package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/phrazzld/creator-api/internal/aiproxy"
)

// fakeGenerator returns scripted answers in call order and records requests.
type fakeGenerator struct {
	mu       sync.Mutex
	answers  []string
	errs     map[int]error
	requests []aiproxy.GenerateRequest
	onCall   func(n int)
	// failOn fails every request whose prompt contains it.
	failOn string
}

func (f *fakeGenerator) Generate(ctx context.Context, req aiproxy.GenerateRequest) (string, error) {
	f.mu.Lock()
	n := len(f.requests)
	f.requests = append(f.requests, req)
	hook := f.onCall
	f.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.failOn != "" && strings.Contains(req.Prompt, f.failOn) {
		return "", errors.New("provider rejected prompt")
	}
	if err, ok := f.errs[n]; ok {
		return "", err
	}
	if n < len(f.answers) {
		return f.answers[n], nil
	}
	return "answer", nil
}

func (f *fakeGenerator) calls() []aiproxy.GenerateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]aiproxy.GenerateRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

type recordingReporter struct {
	reports   []string
	analyzing []string
	err       error
}

func (r *recordingReporter) Report(p string) { r.reports = append(r.reports, p) }

func (r *recordingReporter) Analyzing(p string) error {
	r.analyzing = append(r.analyzing, p)
	return r.err
}
