package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"intake/internal/platform/config"
	"intake/internal/platform/middleware"
)

type stubIntake struct{}

func (stubIntake) Register(r chi.Router) {
	r.Post("/v1/intake", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	rl := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(rl.Stop)
	return NewRouter(RouterDeps{
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		CORS:        config.CORSConfig{AllowedOrigins: "*"},
		RateLimit:   config.RateLimitConfig{RequestsPerMinute: 1, Burst: 1},
		RateLimiter: rl,
		Intake:      stubIntake{},
	})
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.HeaderRequestID))
}

func TestRateLimitSparesHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t)
	post := func() int {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/intake", nil))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, post())
	assert.Equal(t, http.StatusTooManyRequests, post())

	for _, path := range []string{"/healthz", "/metrics"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	rl := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(rl.Stop)
	router := NewRouter(RouterDeps{
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		RateLimit:   config.RateLimitConfig{Disabled: true, RequestsPerMinute: 1, Burst: 1},
		RateLimiter: rl,
		Intake:      stubIntake{},
	})

	for range 3 {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/intake", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
