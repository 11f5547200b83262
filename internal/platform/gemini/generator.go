package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/creator-api/internal/config"
	"github.com/phrazzld/creator-api/internal/generation"
	"google.golang.org/genai"
)

// ProviderName is the registry name of this generator.
const ProviderName = "gemini"

// modelsAPI is the subset of *genai.Models used here.
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// Generator implements generation.Generator with the Gemini API.
type Generator struct {
	logger *slog.Logger
	config config.LLMConfig
	models modelsAPI
	retry  retryPolicy
}

var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Gemini-backed generator.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newGenerator(logger, cfg, client.Models), nil
}

func newGenerator(logger *slog.Logger, cfg config.LLMConfig, models modelsAPI) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		logger: logger.With(slog.String("component", "gemini")),
		config: cfg,
		models: models,
		retry:  newRetryPolicy(cfg.MaxRetries, cfg.RetryDelaySeconds),
	}
}

func validateConfig(cfg config.LLMConfig) error {
	switch {
	case cfg.GeminiAPIKey == "":
		return fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	case cfg.TextModel == "":
		return fmt.Errorf("%w: text model cannot be empty", generation.ErrInvalidConfig)
	case cfg.ImageModel == "":
		return fmt.Errorf("%w: image model cannot be empty", generation.ErrInvalidConfig)
	}
	return nil
}

// GenerateText implements generation.Generator.
func (g *Generator) GenerateText(ctx context.Context, req generation.TextRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	var cfg *genai.GenerateContentConfig
	if s := strings.TrimSpace(req.SystemInstruction); s != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(s, genai.RoleUser),
		}
	}

	var text string
	err := g.retry.do(ctx, g.logger, "generate_text", func(ctx context.Context) error {
		resp, err := g.models.GenerateContent(ctx, g.config.TextModel, genai.Text(req.Prompt), cfg)
		if err != nil {
			return classify(err)
		}
		text, err = textFrom(resp)
		return err
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// GenerateImage implements generation.Generator.
func (g *Generator) GenerateImage(ctx context.Context, req generation.ImageRequest) (*generation.Image, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	cfg := &genai.GenerateImagesConfig{
		NumberOfImages:   1,
		AspectRatio:      req.AspectRatio,
		IncludeRAIReason: true,
	}

	var img *generation.Image
	err := g.retry.do(ctx, g.logger, "generate_image", func(ctx context.Context) error {
		resp, err := g.models.GenerateImages(ctx, g.config.ImageModel, req.Prompt, cfg)
		if err != nil {
			return classify(err)
		}
		img, err = imageFrom(resp)
		return err
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}

func textFrom(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", fmt.Errorf("%w: no candidates", generation.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: response blocked", generation.ErrContentBlocked)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty text", generation.ErrInvalidResponse)
	}
	return text, nil
}

func imageFrom(resp *genai.GenerateImagesResponse) (*generation.Image, error) {
	if resp == nil || len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0] == nil {
		return nil, fmt.Errorf("%w: no images", generation.ErrInvalidResponse)
	}
	gen := resp.GeneratedImages[0]
	if gen.RAIFilteredReason != "" {
		return nil, fmt.Errorf("%w: %s", generation.ErrContentBlocked, gen.RAIFilteredReason)
	}
	if gen.Image == nil || len(gen.Image.ImageBytes) == 0 {
		return nil, fmt.Errorf("%w: empty image", generation.ErrInvalidResponse)
	}
	mime := gen.Image.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return &generation.Image{Data: gen.Image.ImageBytes, MIMEType: mime}, nil
}

// classify marks API errors as transient or permanent.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 || apiErr.Code >= 500 {
			return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
		}
		return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
}
