package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/gradlane/gradlane/internal/models"
	"gorm.io/gorm"
)

// CandidateQuery bounds the job-fetch scan. Cities, when set, push city
// filtering into the query itself as a pre-filter (free tier only).
type CandidateQuery struct {
	FreshSince time.Time
	Limit      int
	Cities     []string
}

type JobRepository interface {
	FindCandidates(ctx context.Context, q CandidateQuery) ([]*models.Job, error)
}

type jobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) FindCandidates(ctx context.Context, q CandidateQuery) ([]*models.Job, error) {
	tx := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("is_filtered = ?", false).
		// Jobs without a known post date are not silently excluded.
		Where("posted_at >= ? OR posted_at IS NULL", q.FreshSince)

	if len(q.Cities) > 0 {
		lowered := make([]string, 0, len(q.Cities))
		for _, c := range q.Cities {
			if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
				lowered = append(lowered, c)
			}
		}
		if len(lowered) > 0 {
			tx = tx.Where("LOWER(city) IN ?", lowered)
		}
	}

	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var jobs []*models.Job
	err := tx.Order("posted_at DESC NULLS FIRST").Find(&jobs).Error
	return jobs, err
}
