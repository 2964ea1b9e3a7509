package postgres

import (
	"context"
	"time"

	"github.com/socialpulse/visibility-service/internal/domain"
	"github.com/socialpulse/visibility-service/internal/ports"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repositories struct {
	Scores   ports.ScoreRepository
	Posts    ports.PostRepository
	Profiles ports.ProfileRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Scores:   &scoreRepository{db: db},
		Posts:    &postRepository{db: db},
		Profiles: &profileRepository{db: db},
	}
}

type scoreRepository struct {
	db *gorm.DB
}

func (r *scoreRepository) Insert(ctx context.Context, record ports.ScoreRecord) error {
	rec, err := toScoreModel(record)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

type postRepository struct {
	db *gorm.DB
}

// UpsertBatch inserts the batch, skipping rows whose
// (user_id, platform, external_id) already exist. A re-scan therefore never
// duplicates previously stored posts.
func (r *postRepository) UpsertBatch(ctx context.Context, userID string, posts []domain.NormalizedPost) error {
	if len(posts) == 0 {
		return nil
	}
	now := time.Now().UTC()
	rows := make([]postModel, 0, len(posts))
	for _, post := range posts {
		row, err := toPostModel(userID, post, now)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "platform"}, {Name: "external_id"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}

type profileRepository struct {
	db *gorm.DB
}

// TouchLastScan records when the caller last scanned. An anonymous-era
// caller without a profile row is not an error; there is simply nothing to
// touch.
func (r *profileRepository) TouchLastScan(ctx context.Context, userID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&profileModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"last_scan_at": at, "updated_at": at}).Error
}
