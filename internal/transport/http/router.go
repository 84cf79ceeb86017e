package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"intake/internal/platform/config"
	"intake/internal/platform/metrics"
	"intake/internal/platform/middleware"
	"intake/pkg/platform/httputil"
)

// Registrar mounts a module's routes.
type Registrar interface {
	Register(r chi.Router)
}

// RouterDeps holds everything the router wires together.
type RouterDeps struct {
	Logger      *slog.Logger
	CORS        config.CORSConfig
	RateLimit   config.RateLimitConfig
	RateLimiter *middleware.RateLimiter
	Metrics     *metrics.Metrics
	Intake      Registrar
}

// NewRouter wires the public endpoints. Rate limiting applies to the
// intake routes only; health and metrics stay reachable.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recovery(deps.Logger),
		middleware.RequestID,
		middleware.RequestTime,
		middleware.ClientMetadata(deps.RateLimit.Proxies),
		middleware.Logger(deps.Logger),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(deps.CORS),
	)

	r.Get("/healthz", handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil && !deps.RateLimit.Disabled {
			r.Use(deps.RateLimiter.Limit(deps.RateLimit.RequestsPerMinute, deps.RateLimit.Burst))
		}
		deps.Intake.Register(r)
	})
	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
