package main

import (
	"fmt"
	"mime"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/creator-api/internal/aiproxy"
	"github.com/spf13/cobra"
)

func newImageCmd(s *studio) *cobra.Command {
	var (
		aspect string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "image <prompt...>",
		Short: "Generate an image and save it to a file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := s.client()
			if err != nil {
				return err
			}
			img, err := client.GenerateImage(cmd.Context(), aiproxy.ImageRequest{
				Prompt:      strings.Join(args, " "),
				AspectRatio: aspect,
			})
			if err != nil {
				return err
			}

			path := out
			if path == "" {
				path = "image-" + uuid.NewString()[:8] + imageExt(img.MIMEType)
			}
			if err := os.WriteFile(path, img.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			s.printf("%s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&aspect, "aspect", "a", "1:1", "aspect ratio (1:1, 3:4, 4:3, 9:16, 16:9)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default image-<id>.<ext>)")
	return cmd
}

func imageExt(mimeType string) string {
	switch mimeType {
	case "image/png", "":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".img"
}
