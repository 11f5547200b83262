package main

import (
	"fmt"

	"github.com/phrazzld/creator-api/internal/batch"
	"github.com/phrazzld/creator-api/internal/pipeline"
	"github.com/phrazzld/creator-api/internal/settings"
	"github.com/spf13/cobra"
)

type rewriteFlags struct {
	concurrency int
	language    string
	style       string
	length      int
	polish      bool
	chunkSize   int
	separator   string
	outDir      string
}

func newRewriteCmd(s *studio) *cobra.Command {
	var f rewriteFlags
	cmd := &cobra.Command{
		Use:   "rewrite [file...]",
		Short: "Rewrite texts in batch, one item per file (stdin when none)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.rewrite(cmd, args, f)
		},
	}
	fl := cmd.Flags()
	fl.IntVarP(&f.concurrency, "concurrency", "c", 0, "items processed at once, 1-10 (default from config)")
	fl.StringVar(&f.language, "language", "", "output language")
	fl.StringVar(&f.style, "style", "", "writing style")
	fl.IntVar(&f.length, "length", 0, "target length in words")
	fl.BoolVar(&f.polish, "polish", false, "polish the joined rewrite in a second pass")
	fl.IntVar(&f.chunkSize, "chunk-size", 0, fmt.Sprintf("characters per rewrite call (default %d)", pipeline.DefaultChunkSize))
	fl.StringVar(&f.separator, "separator", "", "split inputs into items on lines equal to this")
	fl.StringVarP(&f.outDir, "out-dir", "o", "", "write <id>.txt files here instead of stdout")
	return cmd
}

func (s *studio) rewrite(cmd *cobra.Command, args []string, f rewriteFlags) error {
	ctx := cmd.Context()
	items, err := s.readItems(args, f.separator)
	if err != nil {
		return err
	}
	single := len(items) == 1

	// Saved settings of the matching module are the defaults for this run.
	var rs pipeline.RewriteSettings
	var savedConcurrency int
	if single {
		var st settings.RewriteState
		s.loadState(ctx, &st)
		rs = st.Settings
	} else {
		var st settings.BatchRewriteState
		s.loadState(ctx, &st)
		rs, savedConcurrency = st.Settings, st.Concurrency
	}

	fl := cmd.Flags()
	if fl.Changed("language") {
		rs.Language = f.language
	}
	if fl.Changed("style") {
		rs.Style = f.style
	}
	if fl.Changed("length") {
		rs.TargetLength = f.length
	}
	if fl.Changed("polish") {
		rs.Polish = f.polish
	}
	if fl.Changed("chunk-size") {
		rs.ChunkSize = f.chunkSize
	}
	if rs.Provider == "" || s.provider != "" {
		rs.Provider = s.cfg.Provider
	}
	concurrency := firstPositive(f.concurrency, savedConcurrency, s.cfg.Concurrency)

	client, err := s.client()
	if err != nil {
		return err
	}
	rewriter := pipeline.NewRewriter(client, rs,
		pipeline.WithChunkDelay(s.chunkDelay()),
		pipeline.WithRewriteLogger(s.logger))

	dispatcher := batch.NewDispatcher(
		batch.WithLogger(s.logger),
		batch.WithObserver(newProgressPrinter(s.errOut)))
	run, err := dispatcher.Run(ctx, items, concurrency, rewriter.Pipeline())
	if err != nil {
		return err
	}
	results := run.Snapshot()

	if single {
		s.saveState(ctx, settings.RewriteState{Settings: rs, Input: items[0].Input})
	} else {
		s.saveState(ctx, settings.BatchRewriteState{Settings: rs, Concurrency: concurrency, Items: items})
	}

	if err := s.writeResults(results, f.outDir); err != nil {
		return err
	}
	if n := failures(results); n > 0 {
		return fmt.Errorf("%d of %d items failed", n, len(results))
	}
	return nil
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
