package matching

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/gradlane/gradlane/internal/models"
)

// FreeStrategy pre-filters on the two signals a free user supplies: exact
// city-name equality and exact category equality against the single career
// path. Both conditions are mandatory; the filter deliberately stays a
// boolean AND and never reads premium-only preference fields.
type FreeStrategy struct {
	ranker *Ranker
	scorer *FallbackScorer
	tables *Tables
	log    *logrus.Logger
}

func NewFreeStrategy(ranker *Ranker, scorer *FallbackScorer, tables *Tables, log *logrus.Logger) *FreeStrategy {
	if log == nil {
		log = logrus.New()
	}
	return &FreeStrategy{ranker: ranker, scorer: scorer, tables: tables, log: log}
}

func (s *FreeStrategy) Match(ctx context.Context, prefs *models.UserPreferences, jobs []*models.Job, cfg MatchingConfig) StrategyResult {
	survivors := s.filter(jobs, prefs)
	if len(survivors) == 0 {
		// No AI call: the free pre-filter is the whole story for this tier.
		return StrategyResult{Method: MethodFallback}
	}

	ranked := s.ranker.Rank(ctx, prefs, survivors, cfg)
	if len(ranked) >= cfg.FallbackThreshold {
		return StrategyResult{
			Matches: truncateMatches(ranked, cfg.MaxMatches),
			Method:  MethodAI,
		}
	}

	s.log.WithFields(logrus.Fields{
		"email":    prefs.Email,
		"ai_yield": len(ranked),
		"pool":     len(survivors),
	}).Info("free tier falling back to rule-based scoring")

	scored := s.scorer.ScoreJobs(survivors, prefs)
	selected := SelectBalanced(scored, prefs, cfg.MaxMatches, s.tables)
	return StrategyResult{
		Matches: fallbackRanked(selected),
		Method:  MethodFallback,
	}
}

func (s *FreeStrategy) filter(jobs []*models.Job, prefs *models.UserPreferences) []*models.Job {
	if len(prefs.TargetCities) == 0 || len(prefs.CareerPaths) == 0 {
		return nil
	}
	careerPath := prefs.CareerPaths[0]

	var out []*models.Job
	for _, job := range jobs {
		if job.City == "" || len(job.Categories) == 0 {
			continue
		}
		if !s.cityMatch(job, prefs.TargetCities) {
			continue
		}
		if !s.categoryMatch(job, careerPath) {
			continue
		}
		out = append(out, job)
	}
	return out
}

func (s *FreeStrategy) cityMatch(job *models.Job, cities []string) bool {
	for _, c := range cities {
		if equalFold(job.City, c) {
			return true
		}
	}
	return false
}

func (s *FreeStrategy) categoryMatch(job *models.Job, careerPath string) bool {
	for _, cat := range job.Categories {
		if equalFold(cat, careerPath) {
			return true
		}
	}
	return false
}
