package matching

import (
	"github.com/gradlane/gradlane/internal/models"
	"github.com/gradlane/gradlane/internal/utils"
)

// MatchingConfig is the immutable per-tier policy driving both the AI and
// rule-based paths.
type MatchingConfig struct {
	Tier             models.SubscriptionTier
	MaxMatches       int
	JobFreshnessDays int

	UseAI             bool
	MaxJobsForAI      int // per reasoning-service call
	FallbackThreshold int // minimum AI yield before the rule-based path takes over
	MaxJobsToFetch    int

	AIMinScore float64 // parser-side floor for accepting a ranked match

	// Prompted self-assessment floors, premium only.
	AIScoreFloor      int
	AIConfidenceFloor int
}

var freeConfig = MatchingConfig{
	Tier:              models.TierFree,
	MaxMatches:        5,
	JobFreshnessDays:  30,
	UseAI:             true,
	MaxJobsForAI:      10,
	FallbackThreshold: 3,
	MaxJobsToFetch:    100,
	AIMinScore:        30,
}

var premiumConfig = MatchingConfig{
	Tier:              models.TierPremium,
	MaxMatches:        15,
	JobFreshnessDays:  7,
	UseAI:             true,
	MaxJobsForAI:      30,
	FallbackThreshold: 5,
	MaxJobsToFetch:    200,
	AIMinScore:        30,
	AIScoreFloor:      85,
	AIConfidenceFloor: 90,
}

// ConfigForTier resolves the matching policy for a subscription tier. An
// unrecognized tier is a hard error, never a silent default. premium_pending
// resolves to the premium config: signup matching runs before payment
// verification completes.
func ConfigForTier(tier models.SubscriptionTier) (MatchingConfig, error) {
	switch tier {
	case models.TierFree:
		return freeConfig, nil
	case models.TierPremium, models.TierPremiumPending:
		return premiumConfig, nil
	default:
		return MatchingConfig{}, utils.E(utils.CodeInvalidArgument, "matching.ConfigForTier",
			"unknown subscription tier: "+string(tier), nil)
	}
}

// IsPremium reports whether the config drives the premium strategy.
func (c MatchingConfig) IsPremium() bool {
	return c.Tier == models.TierPremium
}
