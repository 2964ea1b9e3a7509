package domain

import "time"

// Platform identifies one of the supported social networks.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformFacebook  Platform = "facebook"
	PlatformTikTok    Platform = "tiktok"
)

// AllPlatforms is the fixed evaluation order used for response envelopes
// and coverage accounting.
var AllPlatforms = []Platform{PlatformInstagram, PlatformYouTube, PlatformFacebook, PlatformTikTok}

func IsValidPlatform(v string) bool {
	switch Platform(v) {
	case PlatformInstagram, PlatformYouTube, PlatformFacebook, PlatformTikTok:
		return true
	default:
		return false
	}
}

// ContentType classifies a normalized post. Provider vocabularies vary per
// response shape, so adapters map into this enum by substring matching.
type ContentType string

const (
	ContentTypeImage    ContentType = "image"
	ContentTypeVideo    ContentType = "video"
	ContentTypeReel     ContentType = "reel"
	ContentTypeShort    ContentType = "short"
	ContentTypeCarousel ContentType = "carousel"
	ContentTypeStory    ContentType = "story"
)

// IsVideoContent reports whether the type counts toward video dominance.
func IsVideoContent(t ContentType) bool {
	return t == ContentTypeReel || t == ContentTypeVideo || t == ContentTypeShort
}

// NormalizedPost is a single unit of content in the platform-agnostic shape
// every provider adapter maps into. Engagement rate is computed once at
// normalization time and never recomputed downstream.
type NormalizedPost struct {
	Platform       Platform    `json:"platform"`
	Type           ContentType `json:"type"`
	Content        string      `json:"content"`
	Likes          int64       `json:"likes"`
	Comments       int64       `json:"comments"`
	Views          *int64      `json:"views"`
	Date           time.Time   `json:"date"`
	EngagementRate float64     `json:"engagement_rate"`
	ExternalID     string      `json:"external_id"`
}

// PlatformResult is the outcome of one provider fetch. It is created fresh
// per scan and never shared across requests.
type PlatformResult struct {
	Platform       Platform
	Available      bool
	Collecting     bool
	Error          string
	Followers      int64
	EngagementRate *float64
	Posts          []NormalizedPost
}

// Dimension keys, in the stable ranking order used for recommendation
// tie-breaks.
const (
	DimensionVelocity   = "velocity"
	DimensionVideo      = "video"
	DimensionEngagement = "engagement"
	DimensionCompetitor = "competitor"
	DimensionCoverage   = "coverage"
	DimensionRecency    = "recency"
)

// RankedDimensions lists the scored dimensions (competitor excluded) in
// tie-break order.
var RankedDimensions = []string{
	DimensionVelocity,
	DimensionVideo,
	DimensionEngagement,
	DimensionCoverage,
	DimensionRecency,
}

// DimensionDescriptor is the display row for one scoring dimension.
type DimensionDescriptor struct {
	Name        string  `json:"name"`
	Key         string  `json:"key"`
	Weight      float64 `json:"weight"`
	Score       *int    `json:"score"`
	MaxScore    int     `json:"max_score"`
	Description string  `json:"description"`
}

// ScoreResult is the computed output of one scan, immutable after
// construction.
type ScoreResult struct {
	Overall    int
	SubScores  map[string]*int
	Dimensions []DimensionDescriptor
}

// InstagramStats is the normalized profile stat block returned by the
// Instagram statistics lookup.
type InstagramStats struct {
	CommunityID       string   `json:"cid"`
	Name              string   `json:"name"`
	ScreenName        string   `json:"screen_name"`
	Image             string   `json:"image"`
	URL               string   `json:"url"`
	Verified          bool     `json:"verified"`
	Followers         int64    `json:"followers"`
	Tags              []string `json:"tags"`
	AvgEngagementRate float64  `json:"avg_engagement_rate"`
	AvgLikes          float64  `json:"avg_likes"`
	AvgComments       float64  `json:"avg_comments"`
	AvgInteractions   float64  `json:"avg_interactions"`
	AvgViews          *float64 `json:"avg_views"`
	AvgVideoLikes     float64  `json:"avg_video_likes"`
	AvgVideoComments  float64  `json:"avg_video_comments"`
	AvgVideoViews     float64  `json:"avg_video_views"`
	QualityScore      float64  `json:"quality_score"`
}
