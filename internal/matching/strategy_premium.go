package matching

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gradlane/gradlane/internal/models"
)

// Fallback-scored premium jobs never drop below this: they already passed
// every premium filter dimension.
const premiumFallbackFloor = 70

// PremiumStrategy filters candidates on four dimensions (city with district
// tolerance, career path via the category mapping, work environment, visa)
// before handing the survivors straight to the AI ranker. When the strict
// filter yields nothing, only the visa dimension is relaxed for a second
// pass; a fully empty result after that is a legitimate zero-match outcome.
type PremiumStrategy struct {
	ranker *Ranker
	scorer *FallbackScorer
	tables *Tables
	log    *logrus.Logger
}

func NewPremiumStrategy(ranker *Ranker, scorer *FallbackScorer, tables *Tables, log *logrus.Logger) *PremiumStrategy {
	if log == nil {
		log = logrus.New()
	}
	return &PremiumStrategy{ranker: ranker, scorer: scorer, tables: tables, log: log}
}

func (s *PremiumStrategy) Match(ctx context.Context, prefs *models.UserPreferences, jobs []*models.Job, cfg MatchingConfig) StrategyResult {
	filtered := s.filter(jobs, prefs, true)
	visaRelaxed := false

	if len(filtered) == 0 {
		filtered = s.filter(jobs, prefs, false)
		visaRelaxed = true
		if len(filtered) == 0 {
			return StrategyResult{Method: MethodFallback}
		}
		s.log.WithFields(logrus.Fields{
			"email": prefs.Email,
			"pool":  len(filtered),
		}).Info("premium strict filter empty, using visa-relaxed pool")
	}

	ranked := s.ranker.Rank(ctx, prefs, filtered, cfg)
	if len(ranked) >= cfg.FallbackThreshold {
		return StrategyResult{
			Matches: truncateMatches(ranked, cfg.MaxMatches),
			Method:  MethodAI,
		}
	}

	s.log.WithFields(logrus.Fields{
		"email":    prefs.Email,
		"ai_yield": len(ranked),
		"pool":     len(filtered),
	}).Info("premium tier falling back to rule-based scoring")

	scored := s.scorer.ScoreJobs(filtered, prefs)
	selected := SelectBalanced(scored, prefs, cfg.MaxMatches, s.tables)

	suffix := s.filterDescription(prefs, visaRelaxed)
	matches := make([]RankedMatch, 0, len(selected))
	for _, sj := range selected {
		score := sj.Score
		if score < premiumFallbackFloor {
			score = premiumFallbackFloor
		}
		matches = append(matches, RankedMatch{
			Job:        sj.Job,
			Score:      score,
			Confidence: sj.Confidence,
			Reason:     sj.Reason + "; " + suffix,
		})
	}

	return StrategyResult{Matches: matches, Method: MethodFallback}
}

func (s *PremiumStrategy) filter(jobs []*models.Job, prefs *models.UserPreferences, strictVisa bool) []*models.Job {
	requireVisa := strictVisa && needsVisaSponsorship(prefs.VisaStatus)

	var out []*models.Job
	for _, job := range jobs {
		if !s.cityMatch(job, prefs.TargetCities) {
			continue
		}
		if !s.careerMatch(job, prefs.CareerPaths) {
			continue
		}
		if !s.workEnvMatch(job, prefs.WorkEnvironment) {
			continue
		}
		if requireVisa && !job.VisaSponsored {
			continue
		}
		out = append(out, job)
	}
	return out
}

func (s *PremiumStrategy) cityMatch(job *models.Job, cities []string) bool {
	if len(cities) == 0 {
		return false
	}
	for _, c := range cities {
		if cityMatchesLoose(job.City, c) {
			return true
		}
	}
	return false
}

func (s *PremiumStrategy) careerMatch(job *models.Job, paths []string) bool {
	if len(paths) == 0 {
		return false
	}
	for _, p := range paths {
		for _, cat := range job.Categories {
			if s.tables.CategoryMatchesPath(cat, p) >= 70 {
				return true
			}
		}
	}
	return false
}

func (s *PremiumStrategy) workEnvMatch(job *models.Job, want models.WorkEnvironment) bool {
	if want == "" || want == models.WorkEnvUnclear {
		return true
	}
	return job.WorkEnvironment == want
}

func (s *PremiumStrategy) filterDescription(prefs *models.UserPreferences, visaRelaxed bool) string {
	dims := []string{"city", "career path"}
	if prefs.WorkEnvironment != "" && prefs.WorkEnvironment != models.WorkEnvUnclear {
		dims = append(dims, string(prefs.WorkEnvironment)+" work environment")
	}
	if needsVisaSponsorship(prefs.VisaStatus) && !visaRelaxed {
		dims = append(dims, "visa sponsorship")
	}
	return fmt.Sprintf("matches your %s filters", strings.Join(dims, ", "))
}
