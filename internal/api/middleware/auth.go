package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/newthinker/fxscout/internal/api/response"
	"github.com/newthinker/fxscout/internal/core"
)

// APIKeyHeader is the request header carrying the API key.
const APIKeyHeader = "X-API-Key"

// APIKeyAuth returns middleware that validates the X-API-Key header.
// If apiKey is empty, authentication is disabled.
func APIKeyAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			providedKey := r.Header.Get(APIKeyHeader)
			if providedKey == "" {
				response.Fail(w, core.WrapError(core.ErrUnauthorized, errors.New("X-API-Key header required")))
				return
			}

			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				response.Fail(w, core.WrapError(core.ErrUnauthorized, errors.New("API key rejected")))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
