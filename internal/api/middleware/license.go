package middleware

import (
	"net/http"

	"github.com/phrazzld/creator-api/internal/api/shared"
	"github.com/phrazzld/creator-api/internal/domain"
)

// RequireLicenseKey admits requests that carry a well-formed license key as
// their bearer token and stores the key in the request context. Whether the
// key exists and can pay is decided by the handler, which knows the cost.
func RequireLicenseKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, ok := bearerToken(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "License key required")
			return
		}
		if !domain.IsWellFormedLicenseKey(key) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid license key")
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.SetLicenseKey(r.Context(), key)))
	})
}
