package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/contentforge/article-engine/pkg/requestid"
)

// Logger returns a middleware that logs every HTTP request with zap, one line
// at completion, leveled by the response status.
func Logger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path
			query := r.URL.RawQuery

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			fields := []zapcore.Field{
				zap.String("request_id", requestid.FromRequest(r)),
				zap.Int("status", ww.Status()),
				zap.String("method", r.Method),
				zap.String("path", path),
				zap.String("query", query),
				zap.String("ip", clientIP(r)),
				zap.Duration("latency", time.Since(start)),
				zap.Int("response_bytes", ww.BytesWritten()),
			}

			msg := "Request completed"
			switch {
			case ww.Status() >= 500:
				zap.S().Named("http").Desugar().Error(msg, fields...)
			case ww.Status() >= 400:
				zap.S().Named("http").Desugar().Warn(msg, fields...)
			default:
				zap.S().Named("http").Desugar().Info(msg, fields...)
			}
		})
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// take the first hop of the chain
		if idx := strings.IndexByte(xff, ','); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
