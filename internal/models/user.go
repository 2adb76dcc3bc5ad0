package models

import "time"

type SubscriptionTier string

const (
	TierFree           SubscriptionTier = "free"
	TierPremiumPending SubscriptionTier = "premium_pending"
	TierPremium        SubscriptionTier = "premium"
)

type User struct {
	ID               string           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email            string           `gorm:"column:email;type:text;uniqueIndex" json:"email"`
	PasswordHash     string           `gorm:"column:password_hash;type:text" json:"-"`
	SubscriptionTier SubscriptionTier `gorm:"column:subscription_tier;type:text;default:free" json:"subscription_tier"`
	EmailVerified    bool             `gorm:"column:email_verified" json:"email_verified"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (User) TableName() string { return "users" }
