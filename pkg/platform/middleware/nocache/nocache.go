// Package nocache emits cache-defeating headers on surfaces whose content
// depends on a cookie, so intermediaries never serve a stale pre-token page.
package nocache

import "net/http"

// Middleware sets no-store headers unconditionally.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Apply(w)
		next.ServeHTTP(w, r)
	})
}

// When sets no-store headers only if cond(r) holds, e.g. when a consent token
// cookie is present on the register surface.
func When(cond func(*http.Request) bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cond(r) {
			Apply(w)
		}
		next.ServeHTTP(w, r)
	})
}

// Apply writes the headers directly for handlers that redirect.
func Apply(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
}
