package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"guardiangate/internal/gate"
	"guardiangate/internal/gate/cookie"
	dErrors "guardiangate/pkg/domain-errors"
	"guardiangate/pkg/platform/middleware/nocache"
	"guardiangate/pkg/requestcontext"
)

//go:generate mockgen -source=handlers_gate.go -destination=mocks/gate_mocks.go -package=mocks GateService

// GateService defines the consent gate operations the transport depends on.
type GateService interface {
	SubmitConsent(ctx context.Context, sub gate.Submission) (string, error)
	ConsentPageRedirect(ctx context.Context, token string) (string, bool)
	CheckRegistration(ctx context.Context, attempt gate.Attempt, token string) (gate.Decision, error)
	Prefill(ctx context.Context, token string) (gate.Prefill, bool)
	AccountCreated(ctx context.Context, accountID, email, token string) (bool, error)
	RegisterRedirectURL(ctx context.Context) string
}

// Handler is the thin HTTP layer over the gate service. It owns cookie
// plumbing and redirects; decisions live in the service.
type Handler struct {
	logger  *slog.Logger
	gate    GateService
	cookies *cookie.Carrier
}

// New creates a gate Handler.
func New(gateSvc GateService, cookies *cookie.Carrier, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		gate:    gateSvc,
		cookies: cookies,
	}
}

// Register mounts the gate routes. registration is the external registration
// subsystem's handler, wrapped by the gate; consentForm renders the consent
// collection form for requests that are not short-circuited by a live token.
func (h *Handler) Register(r chi.Router, registration, consentForm http.Handler) {
	r.Post("/consent", h.handleConsentSubmit)
	r.Get("/consent", h.consentPageGuard(consentForm).ServeHTTP)
	r.Post("/register", h.registrationGate(registration).ServeHTTP)
	r.Get("/register", nocache.When(h.hasTokenCookie, registration).ServeHTTP)
	r.Get("/register/prefill", h.handlePrefill)
	r.Post("/hooks/account-created", h.handleAccountCreated)
}

// handleConsentSubmit receives the consent form, mints a token, binds it to
// the browser via the cookie, and bounces to the register surface — never
// back to the consent page, which would loop.
func (h *Handler) handleConsentSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, err := h.gate.SubmitConsent(ctx, submissionFromRequest(r))
	if err != nil {
		if dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.WarnContext(ctx, "rejected consent submission",
				"error", err.Error(),
				"request_id", requestcontext.RequestID(ctx),
			)
			writeError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to issue consent token",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		writeError(w, dErrors.New(dErrors.CodeInternal, "could not process consent submission"))
		return
	}

	h.cookies.Write(w, r, token)
	nocache.Apply(w)
	http.Redirect(w, r, h.gate.RegisterRedirectURL(ctx), http.StatusSeeOther)
}

// consentPageGuard short-circuits the consent page for browsers already
// holding a valid token.
func (h *Handler) consentPageGuard(next http.Handler) http.Handler {
	return nocache.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _ := h.cookies.Read(r)
		if registerURL, redirect := h.gate.ConsentPageRedirect(r.Context(), token); redirect {
			http.Redirect(w, r, registerURL, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// registrationGate is the hard gate in front of the registration subsystem.
// Only state-changing submissions are evaluated; page views pass through
// untouched on the GET route.
func (h *Handler) registrationGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		token, _ := h.cookies.Read(r)

		decision, err := h.gate.CheckRegistration(ctx, attemptFromRequest(r), token)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to evaluate registration gate",
				"error", err.Error(),
				"request_id", requestcontext.RequestID(ctx),
			)
			writeError(w, err)
			return
		}
		if !decision.Allow {
			h.logger.InfoContext(ctx, "registration blocked pending consent",
				"request_id", requestcontext.RequestID(ctx),
			)
			nocache.Apply(w)
			http.Redirect(w, r, decision.RedirectURL, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) handlePrefill(w http.ResponseWriter, r *http.Request) {
	token, _ := h.cookies.Read(r)
	prefill, ok := h.gate.Prefill(r.Context(), token)
	if !ok {
		writeError(w, dErrors.New(dErrors.CodeNotFound, "no consent token on file"))
		return
	}
	nocache.Apply(w)
	writeJSON(w, http.StatusOK, prefill)
}

// accountCreatedRequest is the notification body from the account subsystem.
type accountCreatedRequest struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
}

// handleAccountCreated finalizes the flow: the recorder consumes a matching
// token into a consent record, then token and cookie are dropped regardless
// of the match outcome.
func (h *Handler) handleAccountCreated(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req accountCreatedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.AccountID == "" || req.Email == "" {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "account_id and email are required"))
		return
	}

	token, _ := h.cookies.Read(r)
	recorded, err := h.gate.AccountCreated(ctx, req.AccountID, req.Email, token)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to finalize consent",
			"error", err.Error(),
			"account_id", req.AccountID,
			"request_id", requestcontext.RequestID(ctx),
		)
		writeError(w, dErrors.New(dErrors.CodeInternal, "could not finalize consent"))
		return
	}

	h.cookies.Clear(w, r)
	writeJSON(w, http.StatusOK, map[string]bool{"consent_recorded": recorded})
}

func (h *Handler) hasTokenCookie(r *http.Request) bool {
	_, ok := h.cookies.Read(r)
	return ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError centralizes domain error translation to HTTP responses so every
// handler emits the same JSON error envelope.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := string(dErrors.CodeInternal)
	var de *dErrors.Error
	if errors.As(err, &de) {
		status = dErrors.ToHTTPStatus(de.Code)
		code = string(de.Code)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
