package middleware

import (
	"net/http"

	"github.com/kbukum/voxalign/observability"
)

// Tracing opens a span per request so engine stage spans nest under it.
func Tracing() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := observability.StartSpan(r.Context(), observability.SpanHTTPRequest)
			defer span.End()

			observability.SetSpanAttribute(ctx, "http.method", r.Method)
			observability.SetSpanAttribute(ctx, "http.route", r.URL.Path)
			if id := r.Header.Get(HeaderRequestID); id != "" {
				observability.SetSpanAttribute(ctx, observability.AttrRequestID, id)
			}

			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r.WithContext(ctx))
			observability.SetSpanAttribute(ctx, "http.status_code", sw.status)
		})
	}
}
