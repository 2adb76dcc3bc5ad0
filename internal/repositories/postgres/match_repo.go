package postgres

import (
	"context"

	"github.com/gradlane/gradlane/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MatchRepository interface {
	CountByUser(ctx context.Context, userID string) (int64, error)
	UpsertBatch(ctx context.Context, matches []models.JobMatch) error
	ListByUser(ctx context.Context, userID string) ([]models.JobMatch, error)
}

type matchRepo struct {
	db *gorm.DB
}

func NewMatchRepo(db *gorm.DB) MatchRepository {
	return &matchRepo{db: db}
}

func (r *matchRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.JobMatch{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// UpsertBatch enforces at most one match per (user, job) pair. Matches are
// never mutated after creation, so conflicts are ignored rather than updated.
func (r *matchRepo) UpsertBatch(ctx context.Context, matches []models.JobMatch) error {
	if len(matches) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "job_id"}},
			DoNothing: true,
		}).
		Create(&matches).Error
}

func (r *matchRepo) ListByUser(ctx context.Context, userID string) ([]models.JobMatch, error) {
	var matches []models.JobMatch
	err := r.db.WithContext(ctx).
		Preload("Job").
		Where("user_id = ?", userID).
		Order("match_score DESC").
		Find(&matches).Error
	return matches, err
}
