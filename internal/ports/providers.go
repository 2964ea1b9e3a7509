package ports

import (
	"context"

	"github.com/socialpulse/visibility-service/internal/domain"
)

// ProviderClient fetches recent activity for one platform. Implementations
// never fail the scan: every failure mode (missing credentials, provider
// error, unexpected shape) resolves to Available=false with a populated
// Error on the result.
type ProviderClient interface {
	Platform() domain.Platform
	Fetch(ctx context.Context, handle string) domain.PlatformResult
}

// InstagramStatsClient resolves an Instagram handle to its normalized
// profile stat block via the statistics provider's search endpoint.
type InstagramStatsClient interface {
	FetchStats(ctx context.Context, handle string) (domain.InstagramStats, error)
}

// PageFetcher retrieves a single HTML page for social-handle discovery.
type PageFetcher interface {
	FetchHTML(ctx context.Context, url string) (string, error)
}
