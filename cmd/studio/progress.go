package main

import (
	"fmt"
	"io"

	"github.com/phrazzld/creator-api/internal/batch"
)

// progressPrinter writes one line per item change and per finished item.
// The dispatcher serializes observer calls.
type progressPrinter struct {
	w    io.Writer
	last map[string]string
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	return &progressPrinter{w: w, last: make(map[string]string)}
}

func (p *progressPrinter) ResultChanged(r batch.WorkResult) {
	line := fmt.Sprintf("[%s] %s", r.ID, r.Status)
	if r.Progress != "" && r.Progress != string(r.Status) {
		line += ": " + r.Progress
	}
	if r.Error != "" {
		line += ": " + r.Error
	}
	if p.last[r.ID] == line {
		return
	}
	p.last[r.ID] = line
	fmt.Fprintln(p.w, line)
}

func (p *progressPrinter) ProgressChanged(_, _ int, message string) {
	fmt.Fprintln(p.w, message)
}

// stepPrinter reports the progress of a single unbatched operation.
type stepPrinter struct {
	w io.Writer
}

func (p stepPrinter) Report(progress string) { fmt.Fprintln(p.w, progress) }

func (p stepPrinter) Analyzing(progress string) error {
	fmt.Fprintln(p.w, progress)
	return nil
}

// failures counts items that ended in error.
func failures(results []batch.WorkResult) int {
	n := 0
	for _, r := range results {
		if r.Status == batch.StatusError {
			n++
		}
	}
	return n
}
