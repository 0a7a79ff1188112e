// Package service implements the consent gate state machine: token issuance
// on consent submission, the allow/block decision at the registration
// checkpoint, and one-shot consumption of the token into a permanent consent
// record when the account is created.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"guardiangate/internal/audit"
	"guardiangate/internal/gate"
	"guardiangate/internal/gate/age"
	recordstore "guardiangate/internal/gate/store/record"
	tokenstore "guardiangate/internal/gate/store/token"
	"guardiangate/internal/gate/token"
	"guardiangate/internal/platform/metrics"
	dErrors "guardiangate/pkg/domain-errors"
	"guardiangate/pkg/platform/sentinel"
	"guardiangate/pkg/requestcontext"
)

// Config carries the gate's policy knobs.
type Config struct {
	MinAge      int
	TokenTTL    time.Duration
	Location    *time.Location
	RegisterURL string
	ConsentURL  string
}

// Service orchestrates the gate. One instance per process; all dependencies
// are injected, no ambient state.
type Service struct {
	cfg     Config
	tokens  tokenstore.Store
	records recordstore.Store
	auditor audit.Recorder
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New constructs the gate service.
func New(cfg Config, tokens tokenstore.Store, records recordstore.Store, auditor audit.Recorder, m *metrics.Metrics, logger *slog.Logger) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Service{
		cfg:     cfg,
		tokens:  tokens,
		records: records,
		auditor: auditor,
		metrics: m,
		logger:  logger,
	}
}

// TTL exposes the token lifetime so the transport can align the cookie.
func (s *Service) TTL() time.Duration { return s.cfg.TokenTTL }

// lookup reads a token payload and times the store round trip.
func (s *Service) lookup(ctx context.Context, tok string) (gate.ConsentPayload, error) {
	start := time.Now()
	payload, err := s.tokens.Get(ctx, tok)
	s.metrics.ObserveTokenLookup(time.Since(start))
	return payload, err
}

// SubmitConsent mints a token for a consent submission and stores the payload
// under it for the configured TTL. The caller sets the cookie and redirects
// to the register surface. An empty child email never mints a token.
//
// Reissuing for the same email leaves earlier store entries in place until
// they expire: only the browser's single cookie is overwritten
// (last-cookie-wins, matching the reference behavior).
func (s *Service) SubmitConsent(ctx context.Context, sub gate.Submission) (string, error) {
	childEmail := strings.TrimSpace(sub.ChildEmail)
	if childEmail == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "child email is required")
	}

	tok, err := token.Mint()
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not mint consent token")
	}

	payload := gate.ConsentPayload{
		ChildEmail:    childEmail,
		GuardianEmail: strings.TrimSpace(sub.GuardianEmail),
		MinorName:     strings.TrimSpace(sub.MinorName),
		MinorDOB:      strings.TrimSpace(sub.MinorDOB),
		IssuedAt:      requestcontext.Now(ctx),
		IssuerIP:      requestcontext.ClientIP(ctx),
	}
	if err := s.tokens.Put(ctx, tok, payload, s.cfg.TokenTTL); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not store consent payload")
	}

	s.metrics.IncrementTokensIssued()
	s.auditor.Record(ctx, audit.FromContext(ctx, audit.KindTokenIssued, strings.ToLower(childEmail), ""))
	s.logger.InfoContext(ctx, "consent token issued",
		"child_email", strings.ToLower(childEmail),
		"request_id", requestcontext.RequestID(ctx),
	)
	return tok, nil
}

// RegisterRedirectURL is the register surface plus a cache-busting timestamp,
// so intermediaries never replay a pre-token copy of the page.
func (s *Service) RegisterRedirectURL(ctx context.Context) string {
	u, err := url.Parse(s.cfg.RegisterURL)
	if err != nil {
		return s.cfg.RegisterURL
	}
	q := u.Query()
	q.Set("ts", strconv.FormatInt(requestcontext.Now(ctx).Unix(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}

// ConsentURL is the consent-collection surface blocked minors are sent to.
func (s *Service) ConsentURL() string { return s.cfg.ConsentURL }

// ConsentPageRedirect implements loop avoidance: arriving at the consent
// surface while already holding a valid token yields an immediate redirect to
// the register surface instead of re-rendering the form. This is a shortcut,
// not a new grant.
func (s *Service) ConsentPageRedirect(ctx context.Context, tok string) (string, bool) {
	if tok == "" {
		return "", false
	}
	payload, err := s.lookup(ctx, tok)
	if err != nil || payload.ChildEmail == "" {
		return "", false
	}
	return s.RegisterRedirectURL(ctx), true
}

// CheckRegistration evaluates a registration attempt against the gate.
//
// Missing or unparseable email/DOB means the attempt cannot be evaluated, and
// the gate deliberately fails open: a hard block must never hit an attempt it
// cannot verify. Tightening this to fail-closed would change product
// behavior; see the error-handling policy before "fixing" it.
//
// The fail-open policy covers unverifiable input only. A token store failure
// is an infrastructure fault, not "no consent on file", and is returned as an
// error of the attempt instead of being folded into a block.
func (s *Service) CheckRegistration(ctx context.Context, attempt gate.Attempt, tok string) (gate.Decision, error) {
	if attempt.Email == "" || attempt.DOB == "" {
		return s.decide(ctx, gate.OutcomeAllowedIndeterminate, attempt.Email, "missing email or dob"), nil
	}

	years, ok := age.Age(attempt.DOB, requestcontext.Now(ctx), s.cfg.Location)
	if !ok {
		// Fail open: unparseable DOB.
		return s.decide(ctx, gate.OutcomeAllowedIndeterminate, attempt.Email, "unparseable dob"), nil
	}
	if years >= s.cfg.MinAge {
		return s.decide(ctx, gate.OutcomeAllowedAdult, attempt.Email, ""), nil
	}

	// Minor: only a live token bound to this exact identity opens the gate.
	if tok != "" {
		payload, err := s.lookup(ctx, tok)
		switch {
		case err == nil:
			if payload.MatchesEmail(attempt.Email) {
				return s.decide(ctx, gate.OutcomeAllowedToken, attempt.Email, ""), nil
			}
		case !errors.Is(err, sentinel.ErrNotFound):
			s.logger.ErrorContext(ctx, "token lookup failed at registration gate",
				"error", err.Error(),
				"request_id", requestcontext.RequestID(ctx),
			)
			return gate.Decision{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not verify consent token")
		}
	}

	s.metrics.ObserveDecision(string(gate.OutcomeBlocked))
	s.auditor.Record(ctx, audit.FromContext(ctx, audit.KindGateBlocked, strings.ToLower(attempt.Email), fmt.Sprintf("age %d below minimum %d", years, s.cfg.MinAge)))
	return gate.Decision{Allow: false, Outcome: gate.OutcomeBlocked, RedirectURL: s.cfg.ConsentURL}, nil
}

func (s *Service) decide(ctx context.Context, outcome gate.Outcome, email, detail string) gate.Decision {
	s.metrics.ObserveDecision(string(outcome))
	s.auditor.Record(ctx, audit.FromContext(ctx, audit.KindGateAllowed, strings.ToLower(email), detail))
	return gate.Decision{Allow: true, Outcome: outcome}
}

// Prefill returns the server-known form data for a live token so the
// register surface can seed its fields.
func (s *Service) Prefill(ctx context.Context, tok string) (gate.Prefill, bool) {
	if tok == "" {
		return gate.Prefill{}, false
	}
	payload, err := s.lookup(ctx, tok)
	if err != nil || payload.ChildEmail == "" {
		return gate.Prefill{}, false
	}
	return gate.Prefill{
		Email: payload.ChildEmail,
		Name:  payload.MinorName,
		DOB:   payload.MinorDOB,
	}, true
}

// AccountCreated runs when the account subsystem reports a new account. The
// recorder consumes a matching token into a permanent consent record; the
// token is then deleted regardless of match, so no token outlives a completed
// registration. The caller clears the cookie afterwards.
func (s *Service) AccountCreated(ctx context.Context, accountID, email, tok string) (bool, error) {
	recorded, err := s.record(ctx, accountID, email, tok)
	if err != nil {
		return false, err
	}

	if tok != "" {
		if err := s.tokens.Delete(ctx, tok); err != nil {
			return recorded, dErrors.Wrap(err, dErrors.CodeInternal, "could not invalidate consent token")
		}
	}
	return recorded, nil
}

// record is the only place a ConsentRecord is created. It writes at most one
// record per account; a second call after the token was consumed finds no
// payload and is a no-op.
func (s *Service) record(ctx context.Context, accountID, email, tok string) (bool, error) {
	if tok == "" || accountID == "" {
		return false, nil
	}
	payload, err := s.lookup(ctx, tok)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "could not load consent payload")
	}
	if !payload.MatchesEmail(email) {
		return false, nil
	}

	record := gate.ConsentRecord{
		ID:            uuid.NewString(),
		AccountID:     accountID,
		ConsentOK:     true,
		ConsentAt:     requestcontext.Now(ctx),
		GuardianEmail: payload.GuardianEmail,
		MinorName:     payload.MinorName,
		MinorDOB:      payload.MinorDOB,
		ConsentIP:     payload.IssuerIP,
	}
	if err := s.records.Save(ctx, record); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// The account already carries a record; never duplicate.
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "could not save consent record")
	}

	s.metrics.IncrementConsentsWritten()
	s.auditor.Record(ctx, audit.FromContext(ctx, audit.KindConsentRecorded, strings.ToLower(email), "account "+accountID))
	s.logger.InfoContext(ctx, "consent record attached",
		"account_id", accountID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return true, nil
}
