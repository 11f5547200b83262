package api

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/creator-api/internal/api/shared"
	"github.com/phrazzld/creator-api/internal/config"
	"github.com/phrazzld/creator-api/internal/domain"
	"github.com/phrazzld/creator-api/internal/generation"
	"github.com/phrazzld/creator-api/internal/platform/logger"
	"github.com/phrazzld/creator-api/internal/platform/metrics"
	"github.com/phrazzld/creator-api/internal/protocol"
	"github.com/phrazzld/creator-api/internal/service"
)

// Generation kinds, used as metric labels.
const (
	kindText  = "text"
	kindImage = "image"
)

// Recorder receives generation and billing metrics. *metrics.Collector
// satisfies it.
type Recorder interface {
	RecordGeneration(provider, kind, outcome string, d time.Duration)
	RecordDebit(reason string, amount int64)
}

type nopRecorder struct{}

func (nopRecorder) RecordGeneration(string, string, string, time.Duration) {}
func (nopRecorder) RecordDebit(string, int64)                               {}

// GenerationHandler serves the credit-gated /ai endpoints.
//
// Every request is authorized for its full cost before the provider is
// called, and charged only after the provider succeeded.
type GenerationHandler struct {
	licenses  service.LicenseService
	providers *generation.Registry
	costs     config.CreditsConfig
	recorder  Recorder
}

// NewGenerationHandler creates a GenerationHandler. recorder may be nil.
func NewGenerationHandler(
	licenses service.LicenseService,
	providers *generation.Registry,
	costs config.CreditsConfig,
	recorder Recorder,
) *GenerationHandler {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &GenerationHandler{
		licenses:  licenses,
		providers: providers,
		costs:     costs,
		recorder:  recorder,
	}
}

// Generate handles POST /ai/generate.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req protocol.GenerateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	textReq := generation.TextRequest{Prompt: req.Prompt, SystemInstruction: req.SystemInstruction}
	if err := textReq.Validate(); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	key, gen, ok := h.prepare(w, r, req.Provider, h.costs.TextCost)
	if !ok {
		return
	}

	var text string
	err := h.observe(r.Context(), req.Provider, kindText, func(ctx context.Context) error {
		var err error
		text, err = gen.GenerateText(ctx, textReq)
		return err
	})
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	balance, ok := h.charge(w, r, key, h.costs.TextCost, domain.CreditReasonTextGeneration)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, protocol.GenerateResponse{
		Success: true,
		Text:    text,
		Credit:  &balance,
	})
}

// GenerateImage handles POST /ai/generate-image.
func (h *GenerationHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req protocol.ImageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	imageReq := generation.ImageRequest{Prompt: req.Prompt, AspectRatio: req.AspectRatio}
	if err := imageReq.Normalize(); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	key, gen, ok := h.prepare(w, r, req.Provider, h.costs.ImageCost)
	if !ok {
		return
	}

	var img *generation.Image
	err := h.observe(r.Context(), req.Provider, kindImage, func(ctx context.Context) error {
		var err error
		img, err = gen.GenerateImage(ctx, imageReq)
		return err
	})
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	balance, ok := h.charge(w, r, key, h.costs.ImageCost, domain.CreditReasonImageGeneration)
	if !ok {
		return
	}
	encoded := base64.StdEncoding.EncodeToString(img.Data)
	shared.RespondWithJSON(w, r, http.StatusOK, protocol.ImageResponse{
		Success:     true,
		ImageData:   encoded,
		Base64Image: encoded,
		MIMEType:    img.MIMEType,
		Credit:      &balance,
	})
}

// prepare resolves the provider and authorizes the caller's key for cost.
func (h *GenerationHandler) prepare(
	w http.ResponseWriter,
	r *http.Request,
	provider string,
	cost int64,
) (*domain.LicenseKey, generation.Generator, bool) {
	keyString, ok := shared.GetLicenseKey(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "License key required")
		return nil, nil, false
	}

	gen, err := h.providers.Get(provider)
	if err != nil {
		respondWithMappedError(w, r, err)
		return nil, nil, false
	}

	key, err := h.licenses.Authorize(r.Context(), keyString, cost)
	if err != nil {
		respondWithMappedError(w, r, err, shared.WithElevatedLogLevel())
		return nil, nil, false
	}
	return key, gen, true
}

func (h *GenerationHandler) charge(
	w http.ResponseWriter,
	r *http.Request,
	key *domain.LicenseKey,
	cost int64,
	reason string,
) (int64, bool) {
	balance, err := h.licenses.Charge(r.Context(), key.ID, cost, reason)
	if err != nil {
		// The answer is withheld: a concurrent request spent the credit
		// between authorization and now.
		respondWithMappedError(w, r, err)
		return 0, false
	}
	h.recorder.RecordDebit(reason, cost)
	return balance, true
}

// observe runs one provider call and records its outcome.
func (h *GenerationHandler) observe(ctx context.Context, provider, kind string, call func(context.Context) error) error {
	name := provider
	if name == "" {
		name = "default"
	}
	start := time.Now()
	err := call(ctx)
	elapsed := time.Since(start)

	outcome := metrics.OutcomeSuccess
	switch {
	case errors.Is(err, generation.ErrContentBlocked):
		outcome = metrics.OutcomeRejected
	case err != nil:
		outcome = metrics.OutcomeFailure
	}
	h.recorder.RecordGeneration(name, kind, outcome, elapsed)

	logger.FromContext(ctx).Info("generation finished",
		slog.String("provider", name),
		slog.String("kind", kind),
		slog.String("outcome", outcome),
		slog.Duration("duration", elapsed))
	return err
}
