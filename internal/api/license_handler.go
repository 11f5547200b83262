package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/phrazzld/creator-api/internal/api/shared"
	"github.com/phrazzld/creator-api/internal/domain"
	"github.com/phrazzld/creator-api/internal/protocol"
	"github.com/phrazzld/creator-api/internal/service"
)

// LicenseHandler serves POST /validate.
type LicenseHandler struct {
	licenses service.LicenseService
	now      func() time.Time
}

// NewLicenseHandler creates a LicenseHandler.
func NewLicenseHandler(licenses service.LicenseService) *LicenseHandler {
	return &LicenseHandler{licenses: licenses, now: time.Now}
}

// Validate reports whether a key is usable. Unknown keys answer valid:false
// without key info; expired or inactive keys answer valid:false with it.
func (h *LicenseHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req protocol.ValidateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	lk, err := h.licenses.Lookup(r.Context(), req.Key)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidLicenseKey) {
			shared.RespondWithJSON(w, r, http.StatusOK, protocol.ValidateResponse{
				Success: true,
				Valid:   false,
				Error:   GetSafeErrorMessage(err),
			})
			return
		}
		respondWithMappedError(w, r, err)
		return
	}

	resp := protocol.ValidateResponse{
		Success: true,
		Valid:   true,
		KeyInfo: licenseKeyToInfo(lk),
	}
	if err := lk.CheckUsable(h.now()); err != nil {
		resp.Valid = false
		resp.Error = GetSafeErrorMessage(err)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
