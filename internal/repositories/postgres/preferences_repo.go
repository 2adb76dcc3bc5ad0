package postgres

import (
	"context"
	"errors"

	"github.com/gradlane/gradlane/internal/models"
	"github.com/gradlane/gradlane/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferencesRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.UserPreferences, error)
	Upsert(ctx context.Context, p *models.UserPreferences) error
}

type preferencesRepo struct {
	db *gorm.DB
}

func NewPreferencesRepo(db *gorm.DB) PreferencesRepository {
	return &preferencesRepo{db: db}
}

func (r *preferencesRepo) GetByUserID(ctx context.Context, userID string) (*models.UserPreferences, error) {
	var p models.UserPreferences
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &p, err
}

func (r *preferencesRepo) Upsert(ctx context.Context, p *models.UserPreferences) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"email", "subscription_tier", "target_cities", "career_paths", "skills",
				"languages_spoken", "work_environment", "entry_level_preference",
				"visa_status", "updated_at",
			}),
		}).
		Create(p).Error
}
