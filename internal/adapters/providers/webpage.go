package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	discoveryUserAgent = "Mozilla/5.0 (compatible; SocialPulseBot/1.0)"
	// maxPageBytes bounds how much HTML the discovery scan will read.
	maxPageBytes = 2 << 20
)

// WebPageFetcher retrieves a single HTML page for social-handle discovery,
// following redirects.
type WebPageFetcher struct {
	http *http.Client
}

func NewWebPageFetcher(timeout time.Duration) *WebPageFetcher {
	return &WebPageFetcher{http: newHTTPClient(timeout)}
}

func (f *WebPageFetcher) FetchHTML(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", discoveryUserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("could not fetch website (%d)", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
