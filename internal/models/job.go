package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Job rows are written by the scraper ingestion pipeline and are read-only
// from the matching core's perspective.
type Job struct {
	ID      string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	JobHash string `gorm:"column:job_hash;type:text;uniqueIndex" json:"job_hash"`

	Title       string `gorm:"column:title;type:text" json:"title"`
	Company     string `gorm:"column:company;type:text" json:"company"`
	City        string `gorm:"column:city;type:text" json:"city"`
	Country     string `gorm:"column:country;type:text" json:"country"`
	Description string `gorm:"column:description;type:text" json:"description"`
	JobURL      string `gorm:"column:job_url;type:text" json:"job_url"`

	Categories         pq.StringArray `gorm:"column:categories;type:text[]" json:"categories"`
	ExperienceRequired string         `gorm:"column:experience_required;type:text" json:"experience_required"`
	IsInternship       bool           `gorm:"column:is_internship" json:"is_internship"`
	IsGraduate         bool           `gorm:"column:is_graduate" json:"is_graduate"`

	WorkEnvironment      WorkEnvironment `gorm:"column:work_environment;type:text" json:"work_environment"`
	VisaSponsored        bool            `gorm:"column:visa_sponsored" json:"visa_sponsored"`
	LanguageRequirements pq.StringArray  `gorm:"column:language_requirements;type:text[]" json:"language_requirements"`

	// Nullable: jobs without a known post date are treated as fresh.
	PostedAt *time.Time `gorm:"column:posted_at;type:timestamptz" json:"posted_at"`

	IsActive   bool           `gorm:"column:is_active;default:true" json:"is_active"`
	IsFiltered bool           `gorm:"column:is_filtered" json:"is_filtered"`
	Metadata   datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Job) TableName() string { return "jobs" }
