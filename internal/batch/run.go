package batch

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Run is one batch submission: the ordered results plus aggregate progress.
// All methods are safe for concurrent use.
type Run struct {
	id          uuid.UUID
	concurrency int
	observer    Observer

	mu         sync.Mutex
	results    []WorkResult
	done       int
	startedAt  time.Time
	finishedAt time.Time

	finished chan struct{}
}

func newRun(items []WorkItem, concurrency int, observer Observer) *Run {
	results := make([]WorkResult, len(items))
	for i, item := range items {
		results[i] = WorkResult{ID: item.ID, Status: StatusPending, Progress: "queued"}
	}
	return &Run{
		id:          uuid.New(),
		concurrency: concurrency,
		observer:    observer,
		results:     results,
		startedAt:   time.Now(),
		finished:    make(chan struct{}),
	}
}

// ID identifies the run in logs.
func (r *Run) ID() uuid.UUID { return r.id }

// Concurrency is the number of workers the run was started with.
func (r *Run) Concurrency() int { return r.concurrency }

// Len is the number of tracked results.
func (r *Run) Len() int { return len(r.results) }

// Snapshot returns a copy of the results in submission order.
func (r *Run) Snapshot() []WorkResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]WorkResult, len(r.results))
	copy(out, r.results)
	return out
}

// Progress returns how many results are terminal out of the total.
func (r *Run) Progress() (done, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done, len(r.results)
}

// Message is the aggregate progress line, e.g. "2/5 completed".
func (r *Run) Message() string {
	done, total := r.Progress()
	return progressMessage(done, total)
}

// Wait blocks until every result is terminal.
func (r *Run) Wait() {
	<-r.finished
}

// Done is closed when every result is terminal.
func (r *Run) Done() <-chan struct{} {
	return r.finished
}

// Duration is the wall time of the run so far, or in total once finished.
func (r *Run) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finishedAt.IsZero() {
		return time.Since(r.startedAt)
	}
	return r.finishedAt.Sub(r.startedAt)
}

// Counts tallies results by status.
func (r *Run) Counts() map[Status]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[Status]int, 5)
	for _, res := range r.results {
		counts[res.Status]++
	}
	return counts
}

// update applies change to result i under the lock. Terminal results are
// frozen, and a change that moves the status backwards is rejected without
// touching the result.
func (r *Run) update(i int, change func(*WorkResult)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.results[i]
	change(&next)
	prev := r.results[i].Status
	if prev.IsTerminal() || (next.Status != prev && !prev.CanTransitionTo(next.Status)) {
		return fmt.Errorf("%w: %s → %s for item %s", ErrInvalidTransition, prev, next.Status, next.ID)
	}
	r.results[i] = next
	r.observer.ResultChanged(next)

	if next.Status.IsTerminal() && !prev.IsTerminal() {
		r.done++
		r.observer.ProgressChanged(r.done, len(r.results), progressMessage(r.done, len(r.results)))
	}
	return nil
}

func (r *Run) finish() {
	r.mu.Lock()
	r.finishedAt = time.Now()
	r.mu.Unlock()
	close(r.finished)
}

func progressMessage(done, total int) string {
	return fmt.Sprintf("%d/%d completed", done, total)
}
