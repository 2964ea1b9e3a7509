package postgres

import (
	"time"

	"github.com/google/uuid"
)

type profileModel struct {
	UserID     string     `gorm:"column:user_id;primaryKey"`
	LastScanAt *time.Time `gorm:"column:last_scan_at"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at"`
}

func (profileModel) TableName() string { return "profiles" }

type scoreModel struct {
	ScoreID           uuid.UUID `gorm:"column:score_id;type:uuid;default:gen_random_uuid();primaryKey"`
	ScanID            string    `gorm:"column:scan_id"`
	UserID            string    `gorm:"column:user_id"`
	Overall           int       `gorm:"column:overall"`
	SubScores         []byte    `gorm:"column:sub_scores;type:jsonb"`
	DataSource        string    `gorm:"column:data_source"`
	AISummary         string    `gorm:"column:ai_summary"`
	AIRecommendations []byte    `gorm:"column:ai_recommendations;type:jsonb"`
	PeriodStart       time.Time `gorm:"column:period_start"`
	PeriodEnd         time.Time `gorm:"column:period_end"`
	CreatedAt         time.Time `gorm:"column:created_at"`
}

func (scoreModel) TableName() string { return "scores" }

type postModel struct {
	PostID         uuid.UUID `gorm:"column:post_id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         string    `gorm:"column:user_id"`
	Platform       string    `gorm:"column:platform"`
	ContentType    string    `gorm:"column:content_type"`
	ContentSnippet string    `gorm:"column:content_snippet"`
	PublishedAt    time.Time `gorm:"column:published_at"`
	ExternalID     string    `gorm:"column:external_id"`
	Metrics        []byte    `gorm:"column:metrics;type:jsonb"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (postModel) TableName() string { return "posts" }
