package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/phrazzld/creator-api/internal/batch"
)

// readText reads a file, or the command's stdin for "" and "-".
func (s *studio) readText(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(s.in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

// readItems turns the arguments into work items: one per file, or stdin
// when no file is given. A non-empty separator further splits each input on
// lines equal to it. IDs are unique across the batch.
func (s *studio) readItems(paths []string, separator string) ([]batch.WorkItem, error) {
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	var (
		items []batch.WorkItem
		seen  = make(map[string]bool)
	)
	for _, path := range paths {
		text, err := s.readText(path)
		if err != nil {
			return nil, err
		}
		parts := []string{text}
		if separator != "" {
			parts = splitOnLine(text, separator)
		}
		for i, part := range parts {
			id := uniqueID(seen, itemID(path, i, len(parts)))
			items = append(items, batch.WorkItem{ID: id, Input: part})
		}
	}
	return items, nil
}

func itemID(path string, i, n int) string {
	name := "stdin"
	if path != "-" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if n == 1 {
		return name
	}
	return fmt.Sprintf("%s-%d", name, i+1)
}

// uniqueID returns id, or id-2, id-3 and so on if it is already taken.
func uniqueID(seen map[string]bool, id string) string {
	candidate := id
	for n := 2; seen[candidate]; n++ {
		candidate = fmt.Sprintf("%s-%d", id, n)
	}
	seen[candidate] = true
	return candidate
}

func splitOnLine(text, separator string) []string {
	var (
		parts []string
		cur   strings.Builder
	)
	for _, line := range strings.SplitAfter(text, "\n") {
		if strings.TrimSpace(line) == separator {
			parts = append(parts, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteString(line)
	}
	return append(parts, cur.String())
}

// writeResults prints outputs to stdout, or writes <id>.txt files into dir.
func (s *studio) writeResults(results []batch.WorkResult, dir string) error {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	for _, r := range results {
		if r.Status != batch.StatusCompleted {
			continue
		}
		if dir != "" {
			path := filepath.Join(dir, r.ID+".txt")
			if err := os.WriteFile(path, []byte(r.Output+"\n"), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			continue
		}
		if len(results) > 1 {
			s.printf("=== %s ===\n", r.ID)
		}
		s.printf("%s\n", r.Output)
		if len(results) > 1 {
			s.printf("\n")
		}
	}
	return nil
}
