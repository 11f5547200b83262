package generation

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// DefaultAspectRatio is used when an image request does not name one.
const DefaultAspectRatio = "1:1"

var aspectRatios = []string{"1:1", "3:4", "4:3", "9:16", "16:9"}

// TextRequest asks for a text completion.
type TextRequest struct {
	Prompt            string
	SystemInstruction string
}

// ImageRequest asks for a single image.
type ImageRequest struct {
	Prompt      string
	AspectRatio string
}

// Image is a generated image.
type Image struct {
	Data     []byte
	MIMEType string
}

// Generator produces content from prompts.
type Generator interface {
	// GenerateText returns the provider's text answer for req.
	GenerateText(ctx context.Context, req TextRequest) (string, error)

	// GenerateImage returns one image for req.
	GenerateImage(ctx context.Context, req ImageRequest) (*Image, error)
}

// Validate checks a text request before it reaches a provider.
func (r TextRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return ErrEmptyPrompt
	}
	return nil
}

// Normalize fills the default aspect ratio and checks the request.
func (r *ImageRequest) Normalize() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return ErrEmptyPrompt
	}
	if r.AspectRatio == "" {
		r.AspectRatio = DefaultAspectRatio
	}
	if !slices.Contains(aspectRatios, r.AspectRatio) {
		return fmt.Errorf("%w: %q (supported: %s)",
			ErrUnsupportedAspectRatio, r.AspectRatio, strings.Join(aspectRatios, ", "))
	}
	return nil
}

// AspectRatios lists the supported image aspect ratios.
func AspectRatios() []string {
	return slices.Clone(aspectRatios)
}
