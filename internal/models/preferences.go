package models

import (
	"time"

	"github.com/lib/pq"
)

type WorkEnvironment string

const (
	WorkEnvRemote  WorkEnvironment = "remote"
	WorkEnvHybrid  WorkEnvironment = "hybrid"
	WorkEnvOnSite  WorkEnvironment = "on-site"
	WorkEnvUnclear WorkEnvironment = "unclear"
)

// UserPreferences is the matching input contract. Email doubles as the
// idempotency key for signup matching; SubscriptionTier is denormalized from
// the user row so the matching core never needs a join.
type UserPreferences struct {
	UserID           string           `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Email            string           `gorm:"column:email;type:text;index" json:"email"`
	SubscriptionTier SubscriptionTier `gorm:"column:subscription_tier;type:text" json:"subscription_tier"`

	TargetCities pq.StringArray `gorm:"column:target_cities;type:text[]" json:"target_cities"`
	CareerPaths  pq.StringArray `gorm:"column:career_paths;type:text[]" json:"career_paths"`

	// Comma-separated free text, as submitted by the user.
	Skills string `gorm:"column:skills;type:text" json:"skills"`

	// Premium-only attributes. The free strategy must never read these even
	// when they are present in storage.
	LanguagesSpoken      pq.StringArray  `gorm:"column:languages_spoken;type:text[]" json:"languages_spoken"`
	WorkEnvironment      WorkEnvironment `gorm:"column:work_environment;type:text" json:"work_environment"`
	EntryLevelPreference string          `gorm:"column:entry_level_preference;type:text" json:"entry_level_preference"`
	VisaStatus           string          `gorm:"column:visa_status;type:text" json:"visa_status"`

	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (UserPreferences) TableName() string { return "user_preferences" }

func (p *UserPreferences) IsPremium() bool {
	return p.SubscriptionTier == TierPremium || p.SubscriptionTier == TierPremiumPending
}
