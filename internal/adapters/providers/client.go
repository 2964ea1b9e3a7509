// Package providers holds the per-platform API clients. Every client
// implements the same contract: a single-attempt, bounded fetch that never
// fails the scan, resolving all failure modes into an unavailable
// PlatformResult with a categorized error string.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout  = 15 * time.Second
	errSnippetLimit = 200
	// maxBodyBytes bounds how much of a provider response is read; the
	// largest legitimate payload (a 50-post feed) stays well under it.
	maxBodyBytes = 4 << 20
)

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// fetchJSON performs one GET and decodes the 2xx body into out. Non-2xx
// statuses come back as "API <status>: <snippet>" so the adapter can surface
// them verbatim as the platform's fetch-error category.
func fetchJSON(ctx context.Context, client *http.Client, url string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(body)
		if len(snippet) > errSnippetLimit {
			snippet = snippet[:errSnippetLimit]
		}
		return fmt.Errorf("API %d: %s", resp.StatusCode, snippet)
	}
	return json.Unmarshal(body, out)
}

// truncate caps a display snippet; snippets are never used for scoring.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

// engagementRate is (likes+comments)/followers*100, zero when followers are
// unknown. Computed once at normalization time per the post contract.
func engagementRate(likes, comments, followers int64) float64 {
	if followers <= 0 {
		return 0
	}
	return float64(likes+comments) / float64(followers) * 100
}
