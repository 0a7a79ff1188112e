// Package gate holds the domain model of the guardian-consent gate: the
// payload bound to a live token, the permanent record written when a token is
// consumed, and the decision emitted at the registration checkpoint.
package gate

import (
	"strings"
	"time"
)

// ConsentPayload is the value stored per token while the token is live. It is
// written once at submission and never mutated; it is read at the gate and
// deleted exactly once on consumption (or left to expire).
type ConsentPayload struct {
	ChildEmail    string    `json:"child_email"`
	GuardianEmail string    `json:"guardian_email,omitempty"`
	MinorName     string    `json:"minor_name,omitempty"`
	MinorDOB      string    `json:"minor_dob,omitempty"`
	IssuedAt      time.Time `json:"issued_at"`
	IssuerIP      string    `json:"issuer_ip,omitempty"`
}

// MatchesEmail reports whether the payload authorizes the given identity.
// Comparison is case-insensitive, exact-match: no plus-address or domain
// normalization.
func (p ConsentPayload) MatchesEmail(email string) bool {
	if p.ChildEmail == "" || email == "" {
		return false
	}
	return strings.EqualFold(p.ChildEmail, email)
}

// ConsentRecord is the permanent artifact attached to an account once a valid
// token is consumed. Created at most once per account, immutable thereafter;
// revocation is out of scope.
type ConsentRecord struct {
	ID            string    `json:"id"`
	AccountID     string    `json:"account_id"`
	ConsentOK     bool      `json:"consent_ok"`
	ConsentAt     time.Time `json:"consent_at"`
	GuardianEmail string    `json:"guardian_email,omitempty"`
	MinorName     string    `json:"minor_name,omitempty"`
	MinorDOB      string    `json:"minor_dob,omitempty"`
	ConsentIP     string    `json:"consent_ip,omitempty"`
}

// Outcome classifies a gate decision for metrics and audit.
type Outcome string

const (
	OutcomeAllowedAdult         Outcome = "allowed_adult"
	OutcomeAllowedToken         Outcome = "allowed_token"
	OutcomeAllowedIndeterminate Outcome = "allowed_indeterminate"
	OutcomeBlocked              Outcome = "blocked"
)

// Decision is the gate's verdict on a registration attempt. Allow=true means
// the attempt proceeds untouched; otherwise RedirectURL names the
// consent-collection surface.
type Decision struct {
	Allow       bool
	Outcome     Outcome
	RedirectURL string
}

// Submission is the structured consent submission handed to the core by the
// consent-collection form.
type Submission struct {
	ChildEmail    string
	GuardianEmail string
	MinorName     string
	MinorDOB      string
}

// Attempt is the structured registration attempt handed to the core by the
// registration surface. Empty fields mean the surface could not resolve them.
type Attempt struct {
	Email string
	DOB   string
}

// Prefill is the server-known data used to seed the register form for a
// pending consent token.
type Prefill struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	DOB   string `json:"dob,omitempty"`
}
