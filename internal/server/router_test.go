package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"angelina/internal/infrastructure/metrics"
	"angelina/internal/infrastructure/ratelimit"
)

type stubAppointments struct {
	lastRequestID string
}

func (s *stubAppointments) Submit(w http.ResponseWriter, r *http.Request) {
	s.lastRequestID = middleware.GetReqID(r.Context())
	if _, err := io.ReadAll(r.Body); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true})
}

func (s *stubAppointments) List(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": []string{}})
}

func (s *stubAppointments) Get(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "id") == "panic" {
		panic("boom")
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (s *stubAppointments) UpdateStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (s *stubAppointments) Delete(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

type stubContact struct{}

func (stubContact) SubmitContact(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (stubContact) Subscribe(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func newTestRouter(t *testing.T, staticDir string, limiter ratelimit.Limiter) (http.Handler, *stubAppointments) {
	t.Helper()
	return newTestRouterWithConfig(t, RouterConfig{StaticDir: staticDir, CORSAllowedOrigins: []string{"*"}}, limiter)
}

func newTestRouterWithConfig(t *testing.T, cfg RouterConfig, limiter ratelimit.Limiter) (http.Handler, *stubAppointments) {
	t.Helper()
	if limiter == nil {
		limiter = ratelimit.NewInMemoryLimiter(100, time.Minute)
	}
	appts := &stubAppointments{}
	h := NewRouter(
		cfg,
		appts,
		stubContact{},
		metrics.New(),
		limiter,
		zap.NewNop(),
	)
	return h, appts
}

func serve(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouter_Health(t *testing.T) {
	h, _ := newTestRouter(t, t.TempDir(), nil)

	rec := serve(h, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "Server is running", body["message"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestRouter_UnknownPathIsJSON404(t *testing.T) {
	h, _ := newTestRouter(t, t.TempDir(), nil)

	rec := serve(h, http.MethodGet, "/api/nope", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Endpoint not found", body["message"])
}

func TestRouter_WrongMethodIs404(t *testing.T) {
	h, _ := newTestRouter(t, t.TempDir(), nil)

	rec := serve(h, http.MethodPut, "/api/appointments/3", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Endpoint not found", decodeBody(t, rec)["message"])
}

func TestRouter_AppointmentsRoutes(t *testing.T) {
	h, _ := newTestRouter(t, t.TempDir(), nil)

	cases := []struct {
		method, path string
		want         int
	}{
		{http.MethodPost, "/api/appointments", http.StatusCreated},
		{http.MethodGet, "/api/appointments", http.StatusOK},
		{http.MethodGet, "/api/appointments/1", http.StatusOK},
		{http.MethodPatch, "/api/appointments/1/status", http.StatusOK},
		{http.MethodDelete, "/api/appointments/1", http.StatusOK},
		{http.MethodPost, "/api/contact", http.StatusOK},
		{http.MethodPost, "/api/newsletter", http.StatusOK},
	}
	for _, tc := range cases {
		rec := serve(h, tc.method, tc.path, strings.NewReader(`{}`))
		assert.Equal(t, tc.want, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRouter_RequestID(t *testing.T) {
	h, appts := newTestRouter(t, t.TempDir(), nil)

	rec := serve(h, http.MethodPost, "/api/appointments", strings.NewReader(`{}`))
	generated := rec.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, appts.lastRequestID)

	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(`{}`))
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", appts.lastRequestID)
}

func TestRouter_PanicIsJSON500(t *testing.T) {
	h, _ := newTestRouter(t, t.TempDir(), nil)

	rec := serve(h, http.MethodGet, "/api/appointments/panic", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeBody(t, rec)["message"])
}

func TestRouter_RateLimitsPublicPosts(t *testing.T) {
	h, _ := newTestRouter(t, t.TempDir(), ratelimit.NewInMemoryLimiter(2, time.Minute))

	for i := 0; i < 2; i++ {
		rec := serve(h, http.MethodPost, "/api/newsletter", strings.NewReader(`{}`))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := serve(h, http.MethodPost, "/api/newsletter", strings.NewReader(`{}`))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["success"])

	// Admin reads are not limited.
	for i := 0; i < 5; i++ {
		rec := serve(h, http.MethodGet, "/api/appointments", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func postFrom(h http.Handler, peer, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{}`))
	req.RemoteAddr = peer
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
		req.Header.Set("X-Real-IP", forwardedFor)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRouter_RateLimitIgnoresForwardedHeadersFromUntrustedPeer(t *testing.T) {
	h, _ := newTestRouter(t, t.TempDir(), ratelimit.NewInMemoryLimiter(1, time.Hour))

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		codes = append(codes, postFrom(h, "203.0.113.7:40000", fmt.Sprintf("10.0.0.%d", i)))
	}

	assert.Equal(t, []int{
		http.StatusOK,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
	}, codes)
}

func TestRouter_RateLimitUsesForwardedClientBehindTrustedProxy(t *testing.T) {
	h, _ := newTestRouterWithConfig(t, RouterConfig{
		StaticDir:          t.TempDir(),
		CORSAllowedOrigins: []string{"*"},
		TrustedProxies:     []netip.Prefix{netip.MustParsePrefix("10.1.0.0/16")},
	}, ratelimit.NewInMemoryLimiter(1, time.Hour))

	assert.Equal(t, http.StatusOK, postFrom(h, "10.1.2.3:5000", "198.51.100.1"))
	assert.Equal(t, http.StatusOK, postFrom(h, "10.1.2.3:5001", "198.51.100.2"))
	assert.Equal(t, http.StatusTooManyRequests, postFrom(h, "10.1.2.4:5002", "198.51.100.1"))
}

func TestFromTrustedProxy(t *testing.T) {
	trusted := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8"), netip.MustParsePrefix("::1/128")}

	assert.True(t, fromTrustedProxy("10.4.5.6:80", trusted))
	assert.True(t, fromTrustedProxy("[::1]:80", trusted))
	assert.True(t, fromTrustedProxy("[::ffff:10.0.0.1]:80", trusted))
	assert.False(t, fromTrustedProxy("203.0.113.7:80", trusted))
	assert.False(t, fromTrustedProxy("not-an-address", trusted))
	assert.False(t, fromTrustedProxy("10.4.5.6:80", nil))
}

func TestRouter_BodyLimit(t *testing.T) {
	h, _ := newTestRouter(t, t.TempDir(), nil)

	big := strings.NewReader(strings.Repeat("a", maxBodyBytes+1))
	rec := serve(h, http.MethodPost, "/api/appointments", big)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	h, _ := newTestRouter(t, t.TempDir(), nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/appointments", nil)
	req.Header.Set("Origin", "https://angelina.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_LandingPage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>Angelina</h1>"), 0o644))
	h, _ := newTestRouter(t, dir, nil)

	rec := serve(h, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Angelina</h1>")
}

func TestRouter_LandingPageMissing(t *testing.T) {
	h, _ := newTestRouter(t, t.TempDir(), nil)

	rec := serve(h, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Endpoint not found", decodeBody(t, rec)["message"])
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	h, _ := newTestRouter(t, t.TempDir(), nil)

	serve(h, http.MethodGet, "/api/health", nil)
	rec := serve(h, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/api/health",status="200"} 1`)
}
