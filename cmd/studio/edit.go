package main

import (
	"fmt"

	"github.com/phrazzld/creator-api/internal/batch"
	"github.com/phrazzld/creator-api/internal/pipeline"
	"github.com/phrazzld/creator-api/internal/settings"
	"github.com/spf13/cobra"
)

type editFlags struct {
	concurrency int
	language    string
	length      int
	analyze     bool
	separator   string
	outDir      string
}

func newEditCmd(s *studio) *cobra.Command {
	var f editFlags
	cmd := &cobra.Command{
		Use:   "edit [file...]",
		Short: "Edit stories and optionally score them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.edit(cmd, args, f)
		},
	}
	fl := cmd.Flags()
	fl.IntVarP(&f.concurrency, "concurrency", "c", 0, "items processed at once, 1-10 (default from config)")
	fl.StringVar(&f.language, "language", "", "output language")
	fl.IntVar(&f.length, "length", 0, "target length in words")
	fl.BoolVar(&f.analyze, "analyze", false, "score the edited story in a second pass")
	fl.StringVar(&f.separator, "separator", "", "split inputs into items on lines equal to this")
	fl.StringVarP(&f.outDir, "out-dir", "o", "", "write <id>.txt files here instead of stdout")
	return cmd
}

func (s *studio) edit(cmd *cobra.Command, args []string, f editFlags) error {
	ctx := cmd.Context()
	items, err := s.readItems(args, f.separator)
	if err != nil {
		return err
	}

	var st settings.EditStoryState
	s.loadState(ctx, &st)
	es := st.Settings

	fl := cmd.Flags()
	if fl.Changed("language") {
		es.Language = f.language
	}
	if fl.Changed("length") {
		es.TargetLength = f.length
	}
	if fl.Changed("analyze") {
		es.Analyze = f.analyze
	}
	if es.Provider == "" || s.provider != "" {
		es.Provider = s.cfg.Provider
	}

	client, err := s.client()
	if err != nil {
		return err
	}
	editor := pipeline.NewStoryEditor(client, es, s.logger)

	dispatcher := batch.NewDispatcher(
		batch.WithLogger(s.logger),
		batch.WithObserver(newProgressPrinter(s.errOut)))
	run, err := dispatcher.Run(ctx, items, firstPositive(f.concurrency, s.cfg.Concurrency), editor.Pipeline())
	if err != nil {
		return err
	}
	results := run.Snapshot()

	saved := settings.EditStoryState{Settings: es}
	if len(items) == 1 {
		saved.Input = items[0].Input
	}
	s.saveState(ctx, saved)

	if err := s.writeResults(results, f.outDir); err != nil {
		return err
	}
	if n := failures(results); n > 0 {
		return fmt.Errorf("%d of %d items failed", n, len(results))
	}
	return nil
}
