package matching

import (
	"context"
	"strings"

	"github.com/gradlane/gradlane/internal/models"
)

const (
	MethodAI         = "ai"
	MethodFallback   = "fallback"
	MethodIdempotent = "idempotent"
)

// StrategyResult is what a tier strategy hands back to the orchestrator. An
// empty Matches slice is a legitimate zero-match outcome, not an error.
type StrategyResult struct {
	Matches []RankedMatch
	Method  string
}

// Strategy pre-filters the candidate pool per tier, attempts AI ranking, and
// falls back to rule-based scoring on failure or low yield.
type Strategy interface {
	Match(ctx context.Context, prefs *models.UserPreferences, jobs []*models.Job, cfg MatchingConfig) StrategyResult
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// cityMatchesLoose tolerates district variants like "Central London" vs
// "London".
func cityMatchesLoose(jobCity, target string) bool {
	j := strings.ToLower(strings.TrimSpace(jobCity))
	t := strings.ToLower(strings.TrimSpace(target))
	if j == "" || t == "" {
		return false
	}
	return j == t || strings.Contains(j, t) || strings.Contains(t, j)
}

// needsVisaSponsorship interprets the user's free-text visa flag.
func needsVisaSponsorship(visaStatus string) bool {
	v := strings.ToLower(strings.TrimSpace(visaStatus))
	switch v {
	case "", "none", "no", "not_required", "not required", "citizen", "settled":
		return false
	}
	return true
}

// fallbackRanked converts fallback-scored jobs into the shared match shape.
func fallbackRanked(scored []ScoredJob) []RankedMatch {
	out := make([]RankedMatch, 0, len(scored))
	for _, sj := range scored {
		out = append(out, RankedMatch{
			Job:        sj.Job,
			Score:      sj.Score,
			Confidence: sj.Confidence,
			Reason:     sj.Reason,
		})
	}
	return out
}

func truncateMatches(matches []RankedMatch, n int) []RankedMatch {
	if len(matches) > n {
		return matches[:n]
	}
	return matches
}
