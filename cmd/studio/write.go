package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/phrazzld/creator-api/internal/pipeline"
	"github.com/phrazzld/creator-api/internal/settings"
	"github.com/spf13/cobra"
)

type writeFlags struct {
	language      string
	style         string
	sectionLength int
	out           string
}

func newWriteCmd(s *studio) *cobra.Command {
	var f writeFlags
	cmd := &cobra.Command{
		Use:   "write [outline-file]",
		Short: "Write a long story section by section from an outline",
		Long: "Write a long story from an outline, one section per outline line.\n" +
			"Interrupting the command prints the sections written so far.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return s.write(cmd, path, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.language, "language", "", "output language")
	fl.StringVar(&f.style, "style", "", "writing style")
	fl.IntVar(&f.sectionLength, "section-length", 0, "target length of each section in words")
	fl.StringVarP(&f.out, "out", "o", "", "write the story to this file instead of stdout")
	return cmd
}

func (s *studio) write(cmd *cobra.Command, path string, f writeFlags) error {
	ctx := cmd.Context()
	outline, err := s.readText(path)
	if err != nil {
		return err
	}

	var st settings.WriteStoryState
	s.loadState(ctx, &st)
	ws := st.Settings

	fl := cmd.Flags()
	if fl.Changed("language") {
		ws.Language = f.language
	}
	if fl.Changed("style") {
		ws.Style = f.style
	}
	if fl.Changed("section-length") {
		ws.SectionLength = f.sectionLength
	}
	if ws.Provider == "" || s.provider != "" {
		ws.Provider = s.cfg.Provider
	}

	client, err := s.client()
	if err != nil {
		return err
	}
	writer := pipeline.NewWriter(client, ws, s.chunkDelay(), s.logger)

	story, writeErr := writer.Write(ctx, outline, stepPrinter{w: s.errOut})
	s.saveState(ctx, settings.WriteStoryState{Settings: ws, Outline: outline})

	if story != "" {
		if f.out != "" {
			if err := os.WriteFile(f.out, []byte(story+"\n"), 0o644); err != nil {
				return errors.Join(writeErr, fmt.Errorf("failed to write %s: %w", f.out, err))
			}
		} else {
			s.printf("%s\n", story)
		}
	}
	return writeErr
}
