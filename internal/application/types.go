package application

import (
	"github.com/socialpulse/visibility-service/internal/domain"
)

type Config struct {
	ServiceName      string
	MaxPostsReturned int
	ScorePeriodDays  int
}

// Caller identifies who triggered the operation. UserID is optional (an
// anonymous landing-page scan has none); ClientIP keys the rate limiter.
type Caller struct {
	UserID   string
	ClientIP string
}

// ScanRequest carries the raw platform handles as submitted. Handles are
// cleaned (leading @ stripped, trimmed) before use; empty after cleaning
// means "not provided".
type ScanRequest struct {
	Instagram string `json:"instagram,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
}

// PlatformSummary is the per-platform slice of the response envelope. The
// three failure categories stay distinguishable through Error: "Not
// provided", "<KEY> not configured", and "API <status>: <snippet>".
type PlatformSummary struct {
	Available     bool   `json:"available"`
	Followers     *int64 `json:"followers,omitempty"`
	PostsAnalyzed *int   `json:"posts_analyzed,omitempty"`
	Collecting    *bool  `json:"collecting,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ScanScore is the full score envelope returned to the caller.
type ScanScore struct {
	Overall           int                          `json:"overall"`
	SubScores         map[string]*int              `json:"sub_scores"`
	Dimensions        []domain.DimensionDescriptor `json:"dimensions"`
	Platforms         map[string]PlatformSummary   `json:"platforms"`
	Posts             []domain.NormalizedPost      `json:"posts"`
	AIInsight         string                       `json:"ai_insight"`
	AIRecommendations []string                     `json:"ai_recommendations"`
	DataSource        string                       `json:"data_source"`
}

type DiscoverRequest struct {
	URL string `json:"url"`
}

// DiscoverResult maps platform name to the first plausible handle found on
// the page.
type DiscoverResult struct {
	Socials map[string]string `json:"socials"`
}
