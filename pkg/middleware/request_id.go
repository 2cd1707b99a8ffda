package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/contentforge/article-engine/pkg/requestid"
)

// RequestID takes the request ID from the x-request-id header, falls back to
// the one chi generated, and generates a fresh UUID when neither is present.
// The ID ends up in the request context for the logging middleware and the
// service layer.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("x-request-id")

		if requestID == "" {
			requestID = middleware.GetReqID(r.Context())
		}

		if requestID == "" {
			requestID = requestid.Generate()
		}

		ctx := requestid.ToContext(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
