package api

import (
	"net/http"
	"time"

	"github.com/phrazzld/creator-api/internal/api/shared"
	"github.com/phrazzld/creator-api/internal/service"
	"github.com/phrazzld/creator-api/internal/service/auth"
)

// AdminHandler serves the admin API: login, key issuance and credit top-up.
type AdminHandler struct {
	authenticator *auth.AdminAuthenticator
	licenses      service.LicenseService
}

// NewAdminHandler creates a new AdminHandler with the given dependencies.
func NewAdminHandler(authenticator *auth.AdminAuthenticator, licenses service.LicenseService) *AdminHandler {
	return &AdminHandler{
		authenticator: authenticator,
		licenses:      licenses,
	}
}

// Login handles POST /admin/login.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	token, expiresAt, err := h.authenticator.Login(r.Context(), req.Password)
	if err != nil {
		respondWithMappedError(w, r, err, shared.WithElevatedLogLevel())
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AdminLoginResponse{
		Success:   true,
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	})
}

// IssueKey handles POST /admin/keys.
func (h *AdminHandler) IssueKey(w http.ResponseWriter, r *http.Request) {
	var req IssueKeyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	params := service.IssueParams{
		Credit:         req.Credit,
		MaxActivations: req.MaxActivations,
		Note:           req.Note,
	}
	if req.ExpiresAt != nil {
		params.ExpiresAt = *req.ExpiresAt
	}

	lk, err := h.licenses.Issue(r.Context(), params)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, IssueKeyResponse{
		Success: true,
		Key:     licenseKeyToResponse(lk),
	})
}

// TopUp handles POST /admin/keys/{id}/credit.
func (h *AdminHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	var req TopUpRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	balance, err := h.licenses.TopUp(r.Context(), id, req.Amount)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, TopUpResponse{
		Success: true,
		ID:      id,
		Credit:  balance,
	})
}
