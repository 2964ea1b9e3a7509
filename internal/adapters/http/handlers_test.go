package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/socialpulse/visibility-service/internal/application"
	"github.com/socialpulse/visibility-service/internal/domain"
	"github.com/socialpulse/visibility-service/internal/ports"
)

type stubProvider struct {
	platform domain.Platform
	result   domain.PlatformResult
}

func (s *stubProvider) Platform() domain.Platform { return s.platform }

func (s *stubProvider) Fetch(context.Context, string) domain.PlatformResult {
	r := s.result
	r.Platform = s.platform
	return r
}

type stubPageFetcher struct {
	html string
	err  error
}

func (s *stubPageFetcher) FetchHTML(context.Context, string) (string, error) {
	return s.html, s.err
}

type stubStatsClient struct {
	stats domain.InstagramStats
	err   error
}

func (s *stubStatsClient) FetchStats(context.Context, string) (domain.InstagramStats, error) {
	return s.stats, s.err
}

type stubLimiter struct{ allowed bool }

func (s *stubLimiter) Allow(context.Context, string, time.Time) (bool, error) {
	return s.allowed, nil
}

func newTestRouter(deps application.Dependencies) http.Handler {
	return NewRouter(NewHandler(application.NewService(deps)))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestScanEndpointSuccessEnvelope(t *testing.T) {
	t.Parallel()

	ig := &stubProvider{
		platform: domain.PlatformInstagram,
		result: domain.PlatformResult{
			Available: true,
			Followers: 1000,
			Posts: []domain.NormalizedPost{{
				Platform:   domain.PlatformInstagram,
				Type:       domain.ContentTypeReel,
				Date:       time.Now().UTC(),
				ExternalID: "ig-1",
			}},
		},
	}
	router := newTestRouter(application.Dependencies{Providers: []ports.ProviderClient{ig}})

	req := httptest.NewRequest(http.MethodPost, "/v1/scans", strings.NewReader(`{"instagram": "@jane"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Fatalf("expected success envelope, got %v", body)
	}
	score, ok := body["score"].(map[string]any)
	if !ok {
		t.Fatalf("expected a score object, got %v", body["score"])
	}
	if score["data_source"] != "real_time_scrape" {
		t.Fatalf("unexpected data source %v", score["data_source"])
	}
	platforms, ok := score["platforms"].(map[string]any)
	if !ok || len(platforms) != 4 {
		t.Fatalf("expected all four platforms in the envelope, got %v", score["platforms"])
	}
}

func TestScanEndpointRejectsEmptyRequest(t *testing.T) {
	t.Parallel()

	router := newTestRouter(application.Dependencies{})
	req := httptest.NewRequest(http.MethodPost, "/v1/scans", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false || body["error"] == "" {
		t.Fatalf("expected error envelope, got %v", body)
	}
}

func TestScanEndpointRejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	router := newTestRouter(application.Dependencies{})
	req := httptest.NewRequest(http.MethodPost, "/v1/scans", strings.NewReader(`{"instagram":`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestScanEndpointRateLimited(t *testing.T) {
	t.Parallel()

	ig := &stubProvider{platform: domain.PlatformInstagram, result: domain.PlatformResult{Available: true}}
	router := newTestRouter(application.Dependencies{
		Providers: []ports.ProviderClient{ig},
		Limiter:   &stubLimiter{allowed: false},
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/scans", strings.NewReader(`{"instagram": "jane"}`))
	req.RemoteAddr = "203.0.113.9:4242"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Rate limit exceeded. Please try again later." {
		t.Fatalf("unexpected error message %v", body["error"])
	}
}

func TestDiscoverEndpoint(t *testing.T) {
	t.Parallel()

	pages := &stubPageFetcher{html: `<a href="https://www.tiktok.com/@janetok">t</a>`}
	router := newTestRouter(application.Dependencies{Pages: pages})

	req := httptest.NewRequest(http.MethodPost, "/v1/scans/discover", strings.NewReader(`{"url": "example.com"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	socials, ok := body["socials"].(map[string]any)
	if !ok || socials["tiktok"] != "janetok" {
		t.Fatalf("unexpected socials %v", body["socials"])
	}
}

func TestDiscoverEndpointUnreachableSite(t *testing.T) {
	t.Parallel()

	pages := &stubPageFetcher{err: domain.ErrSiteUnreachable}
	router := newTestRouter(application.Dependencies{Pages: pages})

	req := httptest.NewRequest(http.MethodPost, "/v1/scans/discover", strings.NewReader(`{"url": "example.com"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unreachable site, got %d", rec.Code)
	}
}

func TestInstagramStatsEndpoint(t *testing.T) {
	t.Parallel()

	stats := &stubStatsClient{stats: domain.InstagramStats{ScreenName: "jane.doe", Followers: 1200}}
	router := newTestRouter(application.Dependencies{IGStats: stats})

	req := httptest.NewRequest(http.MethodGet, "/v1/platforms/instagram/jane.doe/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	data, ok := body["data"].(map[string]any)
	if !ok || data["screen_name"] != "jane.doe" {
		t.Fatalf("unexpected stats payload %v", body["data"])
	}
}

func TestInstagramStatsEndpointNotFound(t *testing.T) {
	t.Parallel()

	stats := &stubStatsClient{err: domain.ErrNotFound}
	router := newTestRouter(application.Dependencies{IGStats: stats})

	req := httptest.NewRequest(http.MethodGet, "/v1/platforms/instagram/nobody/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	router := newTestRouter(application.Dependencies{})
	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s returned %d", path, rec.Code)
		}
	}
}

func TestClientIPHeaders(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "198.51.100.7:1234"
	if got := clientIP(req); got != "198.51.100.7" {
		t.Fatalf("expected remote addr host, got %q", got)
	}

	req.Header.Set("X-Real-Ip", "203.0.113.5")
	if got := clientIP(req); got != "203.0.113.5" {
		t.Fatalf("expected X-Real-Ip, got %q", got)
	}

	req.Header.Set("X-Forwarded-For", "192.0.2.1, 203.0.113.5")
	if got := clientIP(req); got != "192.0.2.1" {
		t.Fatalf("expected the first forwarded hop, got %q", got)
	}
}
