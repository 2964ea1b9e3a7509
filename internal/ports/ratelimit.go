package ports

import (
	"context"
	"time"
)

// ScanRateLimiter gates how often one caller identity (client IP) may start
// a scan. Implementations own the limit and window; Allow reports whether
// this attempt fits the current window and records it if so.
type ScanRateLimiter interface {
	Allow(ctx context.Context, key string, now time.Time) (bool, error)
}
