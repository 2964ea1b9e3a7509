package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/socialpulse/visibility-service/internal/domain"
)

func TestYouTubeFetchWithoutKey(t *testing.T) {
	t.Parallel()

	client := NewYouTubeClient("", "http://localhost:1", time.Second)
	result := client.Fetch(context.Background(), "jane")
	if result.Available || result.Error != "YOUTUBE_API_KEY not configured" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func ytTestServer(t *testing.T, forHandleItems string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("key") == "" {
			t.Errorf("every call must carry the API key")
		}
		switch {
		case r.URL.Path == "/channels" && query.Get("forHandle") != "":
			_, _ = w.Write([]byte(`{"items": ` + forHandleItems + `}`))
		case r.URL.Path == "/channels" && query.Get("id") == "UC123":
			_, _ = w.Write([]byte(`{"items": [{"id": "UC123", "statistics": {"subscriberCount": "5000"}}]}`))
		case r.URL.Path == "/search" && query.Get("type") == "channel":
			_, _ = w.Write([]byte(`{"items": [{"id": {"channelId": "UC123"}}]}`))
		case r.URL.Path == "/search" && query.Get("type") == "video":
			if query.Get("channelId") != "UC123" || query.Get("order") != "date" || query.Get("maxResults") != "12" {
				t.Errorf("unexpected video search query %q", r.URL.RawQuery)
			}
			_, _ = w.Write([]byte(`{"items": [
				{"id": {"videoId": "vid-long"}},
				{"id": {"videoId": "vid-short"}},
				{"id": {"channelId": "UCnoise"}}
			]}`))
		case r.URL.Path == "/videos":
			if !strings.Contains(query.Get("id"), "vid-long,vid-short") {
				t.Errorf("unexpected details batch %q", query.Get("id"))
			}
			_, _ = w.Write([]byte(`{"items": [
				{"id": "vid-long", "statistics": {"likeCount": "100", "commentCount": "50", "viewCount": "10000"}, "contentDetails": {"duration": "PT4M10S"}, "snippet": {"title": "deep dive", "publishedAt": "2026-03-01T10:30:00Z"}},
				{"id": "vid-short", "statistics": {"likeCount": "10", "commentCount": "5", "viewCount": "500"}, "contentDetails": {"duration": "PT45S"}, "snippet": {"title": "quick clip", "publishedAt": "2026-03-10T08:00:00Z"}}
			]}`))
		default:
			t.Errorf("unexpected request %s?%s", r.URL.Path, r.URL.RawQuery)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestYouTubeFetchDirectHandle(t *testing.T) {
	t.Parallel()

	server := ytTestServer(t, `[{"id": "UC123", "statistics": {"subscriberCount": "5000"}}]`)
	defer server.Close()

	client := NewYouTubeClient("key", server.URL, time.Second)
	result := client.Fetch(context.Background(), "janetube")
	if !result.Available {
		t.Fatalf("fetch failed: %+v", result)
	}
	if result.Followers != 5000 {
		t.Fatalf("expected stringified subscriberCount decoded, got %d", result.Followers)
	}
	if len(result.Posts) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(result.Posts))
	}

	long, short := result.Posts[0], result.Posts[1]
	if long.Type != domain.ContentTypeVideo || long.Content != "deep dive" {
		t.Fatalf("unexpected long video: %+v", long)
	}
	if short.Type != domain.ContentTypeShort {
		t.Fatalf("a sub-60s video must classify as short, got %q", short.Type)
	}
	if long.Views == nil || *long.Views != 10000 {
		t.Fatalf("unexpected views %v", long.Views)
	}
	// (100+50)/5000*100 = 3.
	if long.EngagementRate != 3 {
		t.Fatalf("expected engagement rate 3, got %v", long.EngagementRate)
	}
	if long.ExternalID != "youtube_vid-long" {
		t.Fatalf("unexpected external ID %q", long.ExternalID)
	}
}

func TestYouTubeFetchSearchFallback(t *testing.T) {
	t.Parallel()

	// The direct handle lookup returns nothing; the channel search plus the
	// by-ID lookup must resolve the channel instead.
	server := ytTestServer(t, `[]`)
	defer server.Close()

	client := NewYouTubeClient("key", server.URL, time.Second)
	result := client.Fetch(context.Background(), "jane tube")
	if !result.Available {
		t.Fatalf("fallback resolution failed: %+v", result)
	}
	if result.Followers != 5000 || len(result.Posts) != 2 {
		t.Fatalf("unexpected result: followers=%d posts=%d", result.Followers, len(result.Posts))
	}
}

func TestYouTubeChannelNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	client := NewYouTubeClient("key", server.URL, time.Second)
	result := client.Fetch(context.Background(), "nobody")
	if result.Available || result.Error != "Channel not found" {
		t.Fatalf("unexpected result: %+v", result)
	}
}
