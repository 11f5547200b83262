package main

import (
	"encoding/json"

	"github.com/phrazzld/creator-api/internal/textchunk"
	"github.com/spf13/cobra"
)

func newChunkCmd(s *studio) *cobra.Command {
	var (
		maxLen  int
		fixed   bool
		asJSON  bool
		divider string
	)
	cmd := &cobra.Command{
		Use:   "chunk [file]",
		Short: "Split text into speech-synthesis sized chunks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			text, err := s.readText(path)
			if err != nil {
				return err
			}

			var chunks []string
			if fixed {
				chunks = textchunk.Fixed(text, maxLen)
			} else {
				chunks = textchunk.Split(text, maxLen)
			}
			s.logger.Debug("text chunked", "chunks", len(chunks), "max_len", maxLen, "fixed", fixed)

			if asJSON {
				enc := json.NewEncoder(s.out)
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				if chunks == nil {
					chunks = []string{}
				}
				return enc.Encode(chunks)
			}
			for i, c := range chunks {
				if i > 0 {
					s.printf("%s\n", divider)
				}
				s.printf("%s\n", c)
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.IntVarP(&maxLen, "max", "m", 4000, "maximum characters per chunk")
	fl.BoolVar(&fixed, "fixed", false, "cut at exact character counts instead of text boundaries")
	fl.BoolVar(&asJSON, "json", false, "print chunks as a JSON array")
	fl.StringVar(&divider, "divider", "---", "line printed between chunks")
	return cmd
}
