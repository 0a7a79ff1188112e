package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"guardiangate/internal/gate"
	"guardiangate/internal/gate/cookie"
	"guardiangate/internal/transport/http/mocks"
	dErrors "guardiangate/pkg/domain-errors"
	"guardiangate/pkg/testutil"
)

type GateHandlerSuite struct {
	suite.Suite
}

func TestGateHandlerSuite(t *testing.T) {
	suite.Run(t, new(GateHandlerSuite))
}

// markerHandler lets tests observe whether the wrapped (external) handler ran.
func markerHandler(marker string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, marker)
	})
}

func newTestRouter(t *testing.T) (chi.Router, *mocks.MockGateService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockGateService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := New(mockService, cookie.New("/", "", 6*time.Hour, false), logger)
	r := chi.NewRouter()
	handler.Register(r, markerHandler("registration-page"), markerHandler("consent-form"))
	return r, mockService
}

func withTokenCookie(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: token})
	return req
}

func (s *GateHandlerSuite) TestConsentSubmitIssuesTokenAndRedirects() {
	router, mockService := newTestRouter(s.T())

	mockService.EXPECT().SubmitConsent(gomock.Any(), gate.Submission{
		ChildEmail:    "kid@example.com",
		GuardianEmail: "parent@example.com",
		MinorName:     "Kid Example",
		MinorDOB:      "2010-05-01",
	}).Return("t_issued", nil)
	mockService.EXPECT().RegisterRedirectURL(gomock.Any()).Return("/register?ts=1704110400")

	form := url.Values{
		"child-email":    {"kid@example.com"},
		"guardian-email": {"parent@example.com"},
		"minor-name":     {"Kid Example"},
		"minor-dob":      {"2010-05-01"},
	}
	rr := testutil.DoRequest(router, testutil.NewFormRequest(s.T(), http.MethodPost, "/consent", form))

	assert.Equal(s.T(), http.StatusSeeOther, rr.Code)
	assert.Equal(s.T(), "/register?ts=1704110400", rr.Header().Get("Location"))
	assert.Contains(s.T(), rr.Header().Get("Cache-Control"), "no-store")

	ck, err := http.ParseSetCookie(rr.Header().Get("Set-Cookie"))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), cookie.Name, ck.Name)
	assert.Equal(s.T(), "t_issued", ck.Value)
	assert.True(s.T(), ck.HttpOnly)
}

func (s *GateHandlerSuite) TestConsentSubmitRejectsEmptyIdentity() {
	router, mockService := newTestRouter(s.T())

	mockService.EXPECT().SubmitConsent(gomock.Any(), gomock.Any()).
		Return("", dErrors.New(dErrors.CodeBadRequest, "child email is required"))

	rr := testutil.DoRequest(router, testutil.NewFormRequest(s.T(), http.MethodPost, "/consent", url.Values{}))

	assert.Equal(s.T(), http.StatusBadRequest, rr.Code)
	resp := testutil.UnmarshalResponse[map[string]string](s.T(), rr)
	assert.Equal(s.T(), "bad_request", (*resp)["error"])
	assert.Empty(s.T(), rr.Header().Get("Set-Cookie"), "no cookie without a token")
}

func (s *GateHandlerSuite) TestConsentPageRedirectsWhenTokenHeld() {
	router, mockService := newTestRouter(s.T())

	mockService.EXPECT().ConsentPageRedirect(gomock.Any(), "t_live").
		Return("/register?ts=1704110400", true)

	req := withTokenCookie(httptest.NewRequest(http.MethodGet, "/consent", nil), "t_live")
	rr := testutil.DoRequest(router, req)

	assert.Equal(s.T(), http.StatusFound, rr.Code)
	assert.Equal(s.T(), "/register?ts=1704110400", rr.Header().Get("Location"))
}

func (s *GateHandlerSuite) TestConsentPageRendersFormWithoutToken() {
	router, mockService := newTestRouter(s.T())

	mockService.EXPECT().ConsentPageRedirect(gomock.Any(), "").Return("", false)

	rr := testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/consent", nil))

	assert.Equal(s.T(), http.StatusOK, rr.Code)
	assert.Equal(s.T(), "consent-form", rr.Body.String())
	assert.Contains(s.T(), rr.Header().Get("Cache-Control"), "no-store")
}

func (s *GateHandlerSuite) TestRegistrationAllowedPassesThrough() {
	router, mockService := newTestRouter(s.T())

	mockService.EXPECT().CheckRegistration(gomock.Any(), gate.Attempt{Email: "grown@x.com", DOB: "2000-01-01"}, "").
		Return(gate.Decision{Allow: true, Outcome: gate.OutcomeAllowedAdult}, nil)

	form := url.Values{"signup_email": {"grown@x.com"}, "dob": {"2000-01-01"}}
	rr := testutil.DoRequest(router, testutil.NewFormRequest(s.T(), http.MethodPost, "/register", form))

	assert.Equal(s.T(), http.StatusOK, rr.Code)
	assert.Equal(s.T(), "registration-page", rr.Body.String())
}

func (s *GateHandlerSuite) TestRegistrationBlockedRedirectsToConsent() {
	router, mockService := newTestRouter(s.T())

	mockService.EXPECT().CheckRegistration(gomock.Any(), gate.Attempt{Email: "kid@example.com", DOB: "2010-05-01"}, "t_other").
		Return(gate.Decision{Allow: false, Outcome: gate.OutcomeBlocked, RedirectURL: "/consent"}, nil)

	form := url.Values{"user_email": {"kid@example.com"}, "dob": {"2010-05-01"}}
	req := withTokenCookie(testutil.NewFormRequest(s.T(), http.MethodPost, "/register", form), "t_other")
	rr := testutil.DoRequest(router, req)

	assert.Equal(s.T(), http.StatusSeeOther, rr.Code)
	assert.Equal(s.T(), "/consent", rr.Header().Get("Location"))
	assert.NotContains(s.T(), rr.Body.String(), "registration-page", "blocked attempt never reaches registration")
}

func (s *GateHandlerSuite) TestRegistrationGateFailureIsNotABlock() {
	router, mockService := newTestRouter(s.T())

	mockService.EXPECT().CheckRegistration(gomock.Any(), gomock.Any(), "t_live").
		Return(gate.Decision{}, dErrors.New(dErrors.CodeInternal, "could not verify consent token"))

	form := url.Values{"email": {"kid@example.com"}, "dob": {"2010-05-01"}}
	req := withTokenCookie(testutil.NewFormRequest(s.T(), http.MethodPost, "/register", form), "t_live")
	rr := testutil.DoRequest(router, req)

	assert.Equal(s.T(), http.StatusInternalServerError, rr.Code)
	assert.Empty(s.T(), rr.Header().Get("Location"), "a store failure is not routed to the consent surface")
	resp := testutil.UnmarshalResponse[map[string]string](s.T(), rr)
	assert.Equal(s.T(), "internal", (*resp)["error"])
}

func (s *GateHandlerSuite) TestRegistrationDOBFromSplitFields() {
	router, mockService := newTestRouter(s.T())

	mockService.EXPECT().CheckRegistration(gomock.Any(), gate.Attempt{Email: "kid@example.com", DOB: "2010-05-01"}, "").
		Return(gate.Decision{Allow: true, Outcome: gate.OutcomeAllowedToken}, nil)

	form := url.Values{
		"email":     {"kid@example.com"},
		"dob_year":  {"2010"},
		"dob_month": {"5"},
		"dob_day":   {"1"},
	}
	rr := testutil.DoRequest(router, testutil.NewFormRequest(s.T(), http.MethodPost, "/register", form))

	assert.Equal(s.T(), http.StatusOK, rr.Code)
}

func (s *GateHandlerSuite) TestRegisterPageViewNotEvaluated() {
	router, _ := newTestRouter(s.T())

	// Read-only page views bypass the gate entirely; with a token cookie
	// present the response is additionally marked uncacheable.
	req := withTokenCookie(httptest.NewRequest(http.MethodGet, "/register", nil), "t_live")
	rr := testutil.DoRequest(router, req)

	assert.Equal(s.T(), http.StatusOK, rr.Code)
	assert.Equal(s.T(), "registration-page", rr.Body.String())
	assert.Contains(s.T(), rr.Header().Get("Cache-Control"), "no-store")

	rr = testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/register", nil))
	assert.Empty(s.T(), rr.Header().Get("Cache-Control"))
}

func (s *GateHandlerSuite) TestPrefill() {
	router, mockService := newTestRouter(s.T())

	mockService.EXPECT().Prefill(gomock.Any(), "t_live").
		Return(gate.Prefill{Email: "kid@example.com", Name: "Kid Example", DOB: "2010-05-01"}, true)

	req := withTokenCookie(httptest.NewRequest(http.MethodGet, "/register/prefill", nil), "t_live")
	rr := testutil.DoRequest(router, req)

	require.Equal(s.T(), http.StatusOK, rr.Code)
	prefill := testutil.UnmarshalResponse[gate.Prefill](s.T(), rr)
	assert.Equal(s.T(), "kid@example.com", prefill.Email)
	assert.Equal(s.T(), "2010-05-01", prefill.DOB)
}

func (s *GateHandlerSuite) TestPrefillWithoutToken() {
	router, mockService := newTestRouter(s.T())

	mockService.EXPECT().Prefill(gomock.Any(), "").Return(gate.Prefill{}, false)

	rr := testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/register/prefill", nil))

	assert.Equal(s.T(), http.StatusNotFound, rr.Code)
}

func (s *GateHandlerSuite) TestAccountCreatedRecordsAndClearsCookie() {
	router, mockService := newTestRouter(s.T())

	mockService.EXPECT().AccountCreated(gomock.Any(), "acct-1", "kid@example.com", "t_live").
		Return(true, nil)

	req := withTokenCookie(
		testutil.NewJSONRequest(s.T(), http.MethodPost, "/hooks/account-created", map[string]string{
			"account_id": "acct-1",
			"email":      "kid@example.com",
		}), "t_live")
	rr := testutil.DoRequest(router, req)

	require.Equal(s.T(), http.StatusOK, rr.Code)
	resp := testutil.UnmarshalResponse[map[string]bool](s.T(), rr)
	assert.True(s.T(), (*resp)["consent_recorded"])

	ck, err := http.ParseSetCookie(rr.Header().Get("Set-Cookie"))
	require.NoError(s.T(), err)
	assert.Empty(s.T(), ck.Value)
	assert.Negative(s.T(), ck.MaxAge, "cookie cleared after account creation")
}

func (s *GateHandlerSuite) TestAccountCreatedClearsCookieWithoutMatch() {
	router, mockService := newTestRouter(s.T())

	mockService.EXPECT().AccountCreated(gomock.Any(), "acct-2", "someone@else.com", "").
		Return(false, nil)

	rr := testutil.DoRequest(router,
		testutil.NewJSONRequest(s.T(), http.MethodPost, "/hooks/account-created", map[string]string{
			"account_id": "acct-2",
			"email":      "someone@else.com",
		}))

	require.Equal(s.T(), http.StatusOK, rr.Code)
	resp := testutil.UnmarshalResponse[map[string]bool](s.T(), rr)
	assert.False(s.T(), (*resp)["consent_recorded"])
	assert.NotEmpty(s.T(), rr.Header().Get("Set-Cookie"), "clear is unconditional")
}

func (s *GateHandlerSuite) TestAccountCreatedValidatesBody() {
	router, _ := newTestRouter(s.T())

	rr := testutil.DoRequest(router,
		testutil.NewJSONRequest(s.T(), http.MethodPost, "/hooks/account-created", map[string]string{
			"account_id": "acct-1",
		}))
	assert.Equal(s.T(), http.StatusBadRequest, rr.Code)

	req := httptest.NewRequest(http.MethodPost, "/hooks/account-created", nil)
	rr = testutil.DoRequest(router, req)
	assert.Equal(s.T(), http.StatusBadRequest, rr.Code)
}
