// Package cookie centralizes the consent token cookie behavior. The cookie is
// the only bridge between the consent submission and a later registration
// attempt; it carries the opaque token and nothing else.
package cookie

import (
	"net/http"
	"strings"
	"time"
)

// Name is the canonical consent token cookie name.
const Name = "consent_token"

// Carrier writes, reads, and clears the consent token cookie with consistent
// attributes. TTL should match the token store TTL so the cookie and the
// stored payload go stale together; a cookie outliving its entry simply looks
// like "no valid token" at the gate.
type Carrier struct {
	path                string
	domain              string
	ttl                 time.Duration
	trustForwardedProto bool
}

// New constructs a Carrier. Path/domain scope the cookie to the minimum that
// covers both the consent and register surfaces.
func New(path, domain string, ttl time.Duration, trustForwardedProto bool) *Carrier {
	if path == "" {
		path = "/"
	}
	return &Carrier{path: path, domain: domain, ttl: ttl, trustForwardedProto: trustForwardedProto}
}

// Read returns the trimmed token cookie value when present.
func (c *Carrier) Read(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	ck, err := r.Cookie(Name)
	if err != nil || ck == nil {
		return "", false
	}
	value := strings.TrimSpace(ck.Value)
	if value == "" {
		return "", false
	}
	return value, true
}

// Write sets the token cookie for the current request context. HttpOnly
// always; Secure whenever the connection is encrypted.
func (c *Carrier) Write(w http.ResponseWriter, r *http.Request, token string) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    strings.TrimSpace(token),
		Path:     c.path,
		Domain:   c.domain,
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.isTLS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the token cookie. Safe to call when no cookie is present; it
// runs on every successful registration regardless.
func (c *Carrier) Clear(w http.ResponseWriter, r *http.Request) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    "",
		Path:     c.path,
		Domain:   c.domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.isTLS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *Carrier) isTLS(r *http.Request) bool {
	if r == nil {
		return false
	}
	if r.TLS != nil {
		return true
	}
	if c.trustForwardedProto {
		return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	}
	return false
}
