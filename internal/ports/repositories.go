package ports

import (
	"context"
	"time"

	"github.com/socialpulse/visibility-service/internal/domain"
)

// ScoreRecord is one persisted scan result row.
type ScoreRecord struct {
	ScanID            string
	UserID            string
	Overall           int
	SubScores         map[string]*int
	DataSource        string
	AISummary         string
	AIRecommendations []string
	PeriodStart       time.Time
	PeriodEnd         time.Time
	CreatedAt         time.Time
}

// ScoreRepository stores one score row per scan.
type ScoreRepository interface {
	Insert(ctx context.Context, record ScoreRecord) error
}

// PostRepository stores normalized posts, deduplicated on
// (user_id, platform, external_id).
type PostRepository interface {
	UpsertBatch(ctx context.Context, userID string, posts []domain.NormalizedPost) error
}

// ProfileRepository updates scan bookkeeping on the caller's profile.
type ProfileRepository interface {
	TouchLastScan(ctx context.Context, userID string, at time.Time) error
}
