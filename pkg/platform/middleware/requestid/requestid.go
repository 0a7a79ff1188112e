// Package requestid assigns each request an identifier for log correlation.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"guardiangate/pkg/requestcontext"
)

// Header carries the request ID on responses (and is honored on requests so
// upstream proxies can propagate their own IDs).
const Header = "X-Request-Id"

// Middleware reuses an inbound request ID when present, otherwise generates
// one, and exposes it via context and response header.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(Header)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(Header, reqID)
		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
