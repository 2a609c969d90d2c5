package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/voxalign/logger"
	"github.com/kbukum/voxalign/observability"
)

// RequestLogger logs every request with method, path, status code, body
// size and duration, and records request metrics when m is not nil. Health and
// version probes are served without logging.
func RequestLogger(log *logger.Logger, m *observability.Metrics) Middleware {
	log = logger.OrNop(log)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isProbe(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			duration := time.Since(start)

			m.RecordRequest(r.Context(), r.Method, r.URL.Path, sw.status, duration)

			fields := map[string]interface{}{
				"method":             r.Method,
				"path":               r.URL.Path,
				"status":             sw.status,
				"bytes":              sw.bytes,
				logger.FieldDuration: duration.Milliseconds(),
			}
			if id := r.Header.Get(HeaderRequestID); id != "" {
				fields[logger.FieldRequestID] = id
			}
			logByStatus(log, fields, sw.status)
		})
	}
}

func isProbe(path string) bool {
	return path == "/health" || path == "/version"
}

// logByStatus logs request fields at the level matching the status code.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("request completed", fields)
	case status >= 400:
		log.Warn("request completed", fields)
	default:
		log.Debug("request completed", fields)
	}
}
