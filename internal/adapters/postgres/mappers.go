package postgres

import (
	"encoding/json"
	"time"

	"github.com/socialpulse/visibility-service/internal/domain"
	"github.com/socialpulse/visibility-service/internal/ports"
)

func toScoreModel(record ports.ScoreRecord) (scoreModel, error) {
	subScores, err := json.Marshal(record.SubScores)
	if err != nil {
		return scoreModel{}, err
	}
	recommendations, err := json.Marshal(record.AIRecommendations)
	if err != nil {
		return scoreModel{}, err
	}
	return scoreModel{
		ScanID:            record.ScanID,
		UserID:            record.UserID,
		Overall:           record.Overall,
		SubScores:         subScores,
		DataSource:        record.DataSource,
		AISummary:         record.AISummary,
		AIRecommendations: recommendations,
		PeriodStart:       record.PeriodStart,
		PeriodEnd:         record.PeriodEnd,
		CreatedAt:         record.CreatedAt,
	}, nil
}

// postMetrics is the jsonb metrics blob stored per post row.
type postMetrics struct {
	Likes          int64   `json:"likes"`
	Comments       int64   `json:"comments"`
	Views          *int64  `json:"views"`
	EngagementRate float64 `json:"engagement_rate"`
}

func toPostModel(userID string, post domain.NormalizedPost, now time.Time) (postModel, error) {
	metrics, err := json.Marshal(postMetrics{
		Likes:          post.Likes,
		Comments:       post.Comments,
		Views:          post.Views,
		EngagementRate: post.EngagementRate,
	})
	if err != nil {
		return postModel{}, err
	}
	return postModel{
		UserID:         userID,
		Platform:       string(post.Platform),
		ContentType:    string(post.Type),
		ContentSnippet: post.Content,
		PublishedAt:    post.Date,
		ExternalID:     post.ExternalID,
		Metrics:        metrics,
		CreatedAt:      now,
	}, nil
}
