package models

import "time"

// JobMatch is created once per (user, job) pair during signup matching and
// never mutated afterwards. MatchScore is persisted on a 0-1 scale even
// though the core computes on 0-100.
type JobMatch struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;uniqueIndex:idx_user_job" json:"user_id"`
	JobID  string `gorm:"column:job_id;type:uuid;uniqueIndex:idx_user_job" json:"job_id"`

	MatchScore  float64 `gorm:"column:match_score" json:"match_score"`
	MatchReason string  `gorm:"column:match_reason;type:text" json:"match_reason"`
	Method      string  `gorm:"column:method;type:text" json:"method"`

	Job *Job `gorm:"foreignKey:JobID" json:"job,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (JobMatch) TableName() string { return "job_matches" }
