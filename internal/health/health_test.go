package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context) error { return nil }

func failing(msg string) func(context.Context) error {
	return func(context.Context) error { return errors.New(msg) }
}

func serve(t *testing.T, h *Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	h.Routes(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func decodeReport(t *testing.T, w *httptest.ResponseRecorder) Report {
	t.Helper()
	var report Report
	require.NoError(t, json.NewDecoder(w.Body).Decode(&report))
	return report
}

func TestProbe_Check(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, StatusHealthy, Static("storage").Check(ctx).Status)

	check := Critical("postgres", failing("connection refused")).Check(ctx)
	assert.Equal(t, "postgres", check.Name)
	assert.Equal(t, StatusUnhealthy, check.Status)
	assert.Equal(t, "connection refused", check.Message)

	check = Optional("redis", failing("timeout")).Check(ctx)
	assert.Equal(t, StatusDegraded, check.Status)

	slow := Critical("slow", func(context.Context) error {
		time.Sleep(10 * time.Millisecond)
		return nil
	}).Check(ctx)
	assert.GreaterOrEqual(t, slow.DurationMs, int64(10))
}

func TestWorse(t *testing.T) {
	assert.Equal(t, StatusDegraded, worse(StatusHealthy, StatusDegraded))
	assert.Equal(t, StatusUnhealthy, worse(StatusUnhealthy, StatusDegraded))
	assert.Equal(t, StatusUnhealthy, worse(StatusDegraded, StatusUnhealthy))
	assert.Equal(t, StatusHealthy, worse(StatusHealthy, StatusHealthy))
}

func TestHealthz(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h := NewHandler("v1.2.0").WithService("orderdesk")
	h.started = fixed.Add(-90 * time.Second)
	h.now = func() time.Time { return fixed }
	h.Register("postgres", Critical("postgres", ok))

	w := serve(t, h, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	report := decodeReport(t, w)
	assert.Equal(t, StatusHealthy, report.Status)
	assert.Equal(t, "orderdesk", report.Service)
	assert.Equal(t, "v1.2.0", report.Version)
	assert.Equal(t, int64(90), report.UptimeSeconds)
	assert.True(t, fixed.Equal(report.Timestamp))
	assert.Contains(t, report.Checks, "postgres")
}

func TestHealthz_Statuses(t *testing.T) {
	h := NewHandler("dev")
	h.Register("postgres", Critical("postgres", ok))
	h.Register("redis", Optional("redis", failing("connection refused")))

	w := serve(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, StatusDegraded, decodeReport(t, w).Status)
	assert.Equal(t, http.StatusOK, serve(t, h, "/readyz").Code, "degraded cache keeps the service ready")

	h.Register("postgres", Critical("postgres", failing("connection refused")))
	w = serve(t, h, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	report := decodeReport(t, w)
	assert.Equal(t, StatusUnhealthy, report.Status)
	assert.Equal(t, "connection refused", report.Checks["postgres"].Message)

	ready := serve(t, h, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, ready.Code)
	assert.Equal(t, "not ready", ready.Body.String())

	assert.Equal(t, []string{"postgres", "redis"}, h.Names())
}

func TestLivezAndReadyz(t *testing.T) {
	h := NewHandler("dev")

	live := serve(t, h, "/livez")
	assert.Equal(t, http.StatusOK, live.Code)
	assert.Equal(t, "ok", live.Body.String())

	ready := serve(t, h, "/readyz")
	assert.Equal(t, http.StatusOK, ready.Code)
	assert.Equal(t, "ready", ready.Body.String())
}

func TestEvaluate_SharedDeadline(t *testing.T) {
	h := NewHandler("dev")
	h.timeout = 20 * time.Millisecond
	blocked := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	h.Register("postgres", Critical("postgres", blocked))
	h.Register("redis", Optional("redis", blocked))

	start := time.Now()
	report := h.Evaluate(context.Background())
	assert.Less(t, time.Since(start), time.Second, "checks run concurrently under one deadline")

	assert.Equal(t, StatusUnhealthy, report.Status)
	assert.Equal(t, context.DeadlineExceeded.Error(), report.Checks["postgres"].Message)
	assert.Equal(t, StatusDegraded, report.Checks["redis"].Status)
}
