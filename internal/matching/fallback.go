package matching

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/gradlane/gradlane/internal/models"
)

// ScoreWeights is the weighting of the five scoring dimensions. The weights
// must sum to 1.0.
type ScoreWeights struct {
	Skills     float64
	Experience float64
	Location   float64
	Career     float64
	Recency    float64
}

func (w ScoreWeights) Sum() float64 {
	return w.Skills + w.Experience + w.Location + w.Career + w.Recency
}

var DefaultWeights = ScoreWeights{
	Skills:     0.35,
	Experience: 0.25,
	Location:   0.20,
	Career:     0.15,
	Recency:    0.05,
}

type ScoreBreakdown struct {
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Location   float64 `json:"location"`
	Career     float64 `json:"career"`
	Recency    float64 `json:"recency"`
}

type ScoredJob struct {
	Job        *models.Job
	Score      float64
	Confidence float64
	Quality    string
	Reason     string
	Breakdown  ScoreBreakdown
}

// FallbackScorer is the deterministic rule-based scoring path, used when AI
// ranking is unavailable or yields too little.
type FallbackScorer struct {
	tables  *Tables
	weights ScoreWeights
	now     func() time.Time
}

func NewFallbackScorer(tables *Tables) *FallbackScorer {
	return &FallbackScorer{
		tables:  tables,
		weights: DefaultWeights,
		now:     time.Now,
	}
}

// ScoreJobs scores every candidate and returns them sorted by final score,
// highest first.
func (s *FallbackScorer) ScoreJobs(jobs []*models.Job, prefs *models.UserPreferences) []ScoredJob {
	now := s.now()

	scored := make([]ScoredJob, 0, len(jobs))
	for _, job := range jobs {
		scored = append(scored, s.scoreJob(job, prefs, now))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}

func (s *FallbackScorer) scoreJob(job *models.Job, prefs *models.UserPreferences, now time.Time) ScoredJob {
	b := ScoreBreakdown{
		Skills:     SkillsScore(job, prefs, s.tables),
		Experience: ExperienceScore(job, prefs),
		Location:   LocationScore(job, prefs, s.tables),
		Career:     CareerScore(job, prefs, s.tables),
		Recency:    RecencyScore(job, now),
	}

	final := clamp(
		b.Skills*s.weights.Skills+
			b.Experience*s.weights.Experience+
			b.Location*s.weights.Location+
			b.Career*s.weights.Career+
			b.Recency*s.weights.Recency,
		0, 100)

	quality := classifyQuality(final)

	return ScoredJob{
		Job:        job,
		Score:      final,
		Confidence: math.Min(90, final+3),
		Quality:    quality,
		Reason:     buildReason(b, quality),
		Breakdown:  b,
	}
}

func classifyQuality(score float64) string {
	switch {
	case score >= 75:
		return "excellent"
	case score >= 60:
		return "good"
	case score >= 40:
		return "fair"
	default:
		return "low"
	}
}

// buildReason concatenates one qualitative clause per dimension. Clause
// selection depends on each sub-score's bucket, so two structurally
// different jobs never share an identical justification.
func buildReason(b ScoreBreakdown, quality string) string {
	var clauses []string

	switch {
	case b.Skills >= 85:
		clauses = append(clauses, "excellent skills alignment")
	case b.Skills >= 70:
		clauses = append(clauses, "strong skills overlap")
	case b.Skills >= 40:
		clauses = append(clauses, "partial skills overlap")
	}

	switch {
	case b.Location >= 100:
		clauses = append(clauses, "ideal location match")
	case b.Location >= 75:
		clauses = append(clauses, "same-country opportunity")
	case b.Location >= 50:
		clauses = append(clauses, "well-connected European hub")
	case b.Location >= 35:
		clauses = append(clauses, "remote-friendly role")
	default:
		clauses = append(clauses, "outside preferred cities")
	}

	switch {
	case b.Career >= 90:
		clauses = append(clauses, "direct career-path fit")
	case b.Career >= 70:
		clauses = append(clauses, "related career field")
	case b.Career >= 40:
		clauses = append(clauses, "adjacent career field")
	}

	switch {
	case b.Experience >= 100:
		clauses = append(clauses, "experience level matches exactly")
	case b.Experience >= 80:
		clauses = append(clauses, "close experience fit")
	case b.Experience >= 65:
		clauses = append(clauses, "achievable stretch role")
	}

	switch {
	case b.Recency >= 85:
		clauses = append(clauses, "freshly posted")
	case b.Recency >= 50:
		clauses = append(clauses, "posted recently")
	}

	return fmt.Sprintf("%s (%s match)", strings.Join(clauses, ", "), quality)
}
