package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"guardiangate/pkg/platform/middleware/logging"
	"guardiangate/pkg/platform/middleware/metadata"
	"guardiangate/pkg/platform/middleware/requestid"
	"guardiangate/pkg/platform/middleware/requesttime"
)

// NewRouter wires the public surface: the gate routes plus health and
// metrics. health may be nil when no backend needs probing.
func NewRouter(h *Handler, logger *slog.Logger, health func(context.Context) error, registration, consentForm http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(logging.Middleware(logger))
	r.Use(chimw.Recoverer)

	h.Register(r, registration, consentForm)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if health != nil {
			if err := health(r.Context()); err != nil {
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
