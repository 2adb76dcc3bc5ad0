package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradlane/gradlane/internal/models"
)

func freeStrategyForTest(p *fakeProvider) *FreeStrategy {
	tables := DefaultTables()
	return NewFreeStrategy(rankerForTest(p, nil), NewFallbackScorer(tables), tables, nil)
}

func premiumStrategyForTest(p *fakeProvider) *PremiumStrategy {
	tables := DefaultTables()
	return NewPremiumStrategy(rankerForTest(p, nil), NewFallbackScorer(tables), tables, nil)
}

func freePrefs() *models.UserPreferences {
	return &models.UserPreferences{
		Email:            "free@example.com",
		SubscriptionTier: models.TierFree,
		TargetCities:     []string{"Berlin"},
		CareerPaths:      []string{"tech"},
		Skills:           "python",
	}
}

func TestFreeStrategyFilterIsStrict(t *testing.T) {
	s := freeStrategyForTest(&fakeProvider{})
	prefs := freePrefs()

	jobs := []*models.Job{
		{ID: "keep", City: "Berlin", Categories: []string{"tech"}},
		{ID: "district", City: "Central Berlin", Categories: []string{"tech"}},
		{ID: "category", City: "Berlin", Categories: []string{"software-engineering"}},
		{ID: "nocity", City: "", Categories: []string{"tech"}},
		{ID: "nocat", City: "Berlin"},
	}

	survivors := s.filter(jobs, prefs)
	require.Len(t, survivors, 1)
	assert.Equal(t, "keep", survivors[0].ID)
}

func TestFreeStrategyOnlyFirstCareerPathCounts(t *testing.T) {
	s := freeStrategyForTest(&fakeProvider{})
	prefs := freePrefs()
	prefs.CareerPaths = []string{"tech", "data"}

	jobs := []*models.Job{
		{ID: "second-path", City: "Berlin", Categories: []string{"data"}},
	}
	assert.Empty(t, s.filter(jobs, prefs))
}

func TestFreeStrategyEmptyPoolSkipsAI(t *testing.T) {
	p := &fakeProvider{Response: `{"matches":[{"jobIndex":1,"matchScore":90}]}`}
	s := freeStrategyForTest(p)

	res := s.Match(context.Background(), freePrefs(), []*models.Job{
		{ID: "elsewhere", City: "Munich", Categories: []string{"tech"}},
	}, freeConfig)

	assert.Empty(t, res.Matches)
	assert.Equal(t, MethodFallback, res.Method)
	assert.Equal(t, 0, p.Calls, "no reasoning call for an empty pool")
}

func TestFreeStrategyUsesAIAboveThreshold(t *testing.T) {
	p := &fakeProvider{Response: `{"matches":[
		{"jobIndex":1,"matchScore":92,"matchReason":"strong fit"},
		{"jobIndex":2,"matchScore":85,"matchReason":"good fit"},
		{"jobIndex":3,"matchScore":78,"matchReason":"decent fit"}]}`}
	s := freeStrategyForTest(p)

	jobs := make([]*models.Job, 0, 4)
	for _, id := range []string{"a", "b", "c", "d"} {
		jobs = append(jobs, &models.Job{ID: id, Title: id, City: "Berlin", Categories: []string{"tech"}})
	}

	res := s.Match(context.Background(), freePrefs(), jobs, freeConfig)
	assert.Equal(t, MethodAI, res.Method)
	require.Len(t, res.Matches, 3)
	assert.Equal(t, 92.0, res.Matches[0].Score)
}

func TestFreeStrategyFallsBackOnLowYield(t *testing.T) {
	p := &fakeProvider{Err: errors.New("unavailable")}
	s := freeStrategyForTest(p)

	jobs := []*models.Job{
		{ID: "a", Title: "Python Developer", City: "Berlin", Categories: []string{"tech"}},
		{ID: "b", Title: "Go Engineer", City: "Berlin", Categories: []string{"tech"}},
	}

	res := s.Match(context.Background(), freePrefs(), jobs, freeConfig)
	assert.Equal(t, MethodFallback, res.Method)
	require.Len(t, res.Matches, 2)
	assert.NotEmpty(t, res.Matches[0].Reason)
	assert.GreaterOrEqual(t, res.Matches[0].Score, res.Matches[1].Score)
}

func premiumPrefs() *models.UserPreferences {
	return &models.UserPreferences{
		Email:            "premium@example.com",
		SubscriptionTier: models.TierPremium,
		TargetCities:     []string{"London"},
		CareerPaths:      []string{"tech"},
		Skills:           "python",
		WorkEnvironment:  models.WorkEnvHybrid,
		VisaStatus:       "requires_sponsorship",
	}
}

func TestPremiumFilterDimensions(t *testing.T) {
	s := premiumStrategyForTest(&fakeProvider{})
	prefs := premiumPrefs()

	jobs := []*models.Job{
		{ID: "keep", City: "Central London", Categories: []string{"software-engineering"},
			WorkEnvironment: models.WorkEnvHybrid, VisaSponsored: true},
		{ID: "wrongcity", City: "Munich", Categories: []string{"software-engineering"},
			WorkEnvironment: models.WorkEnvHybrid, VisaSponsored: true},
		{ID: "wrongpath", City: "London", Categories: []string{"sales"},
			WorkEnvironment: models.WorkEnvHybrid, VisaSponsored: true},
		{ID: "wrongenv", City: "London", Categories: []string{"software-engineering"},
			WorkEnvironment: models.WorkEnvOnSite, VisaSponsored: true},
		{ID: "novisa", City: "London", Categories: []string{"software-engineering"},
			WorkEnvironment: models.WorkEnvHybrid, VisaSponsored: false},
	}

	strict := s.filter(jobs, prefs, true)
	require.Len(t, strict, 1)
	assert.Equal(t, "keep", strict[0].ID)

	relaxed := s.filter(jobs, prefs, false)
	require.Len(t, relaxed, 2, "relaxing only readmits the visa rejection")
}

func TestPremiumFilterUnclearEnvironmentMatchesAll(t *testing.T) {
	s := premiumStrategyForTest(&fakeProvider{})
	prefs := premiumPrefs()
	prefs.WorkEnvironment = models.WorkEnvUnclear
	prefs.VisaStatus = "citizen"

	jobs := []*models.Job{
		{ID: "onsite", City: "London", Categories: []string{"tech"}, WorkEnvironment: models.WorkEnvOnSite},
		{ID: "remote", City: "London", Categories: []string{"tech"}, WorkEnvironment: models.WorkEnvRemote},
	}
	assert.Len(t, s.filter(jobs, prefs, true), 2)
}

func TestPremiumStrategyRelaxesVisaThenFallsBack(t *testing.T) {
	p := &fakeProvider{Err: errors.New("unavailable")}
	s := premiumStrategyForTest(p)
	prefs := premiumPrefs()

	// Nothing sponsors a visa, so the strict pass is empty and the relaxed
	// pool feeds the rule-based path.
	jobs := []*models.Job{
		{ID: "a", Title: "Python Developer", City: "London", Country: "United Kingdom",
			Categories: []string{"software-engineering"}, WorkEnvironment: models.WorkEnvHybrid},
	}

	res := s.Match(context.Background(), prefs, jobs, premiumConfig)
	assert.Equal(t, MethodFallback, res.Method)
	require.Len(t, res.Matches, 1)

	m := res.Matches[0]
	assert.GreaterOrEqual(t, m.Score, float64(premiumFallbackFloor))
	assert.Contains(t, m.Reason, "matches your city, career path")
	assert.NotContains(t, m.Reason, "visa sponsorship", "visa was relaxed, so it is not claimed")
}

func TestPremiumStrategyZeroMatchOutcome(t *testing.T) {
	p := &fakeProvider{Response: `{"matches":[{"jobIndex":1,"matchScore":90}]}`}
	s := premiumStrategyForTest(p)

	res := s.Match(context.Background(), premiumPrefs(), []*models.Job{
		{ID: "elsewhere", City: "Tokyo", Categories: []string{"sales"}},
	}, premiumConfig)

	assert.Empty(t, res.Matches)
	assert.Equal(t, MethodFallback, res.Method)
	assert.Equal(t, 0, p.Calls)
}

func TestPremiumStrategyUsesAIAboveThreshold(t *testing.T) {
	p := &fakeProvider{Response: `{"matches":[
		{"jobIndex":1,"matchScore":96},{"jobIndex":2,"matchScore":93},
		{"jobIndex":3,"matchScore":91},{"jobIndex":4,"matchScore":89},
		{"jobIndex":5,"matchScore":87}]}`}
	s := premiumStrategyForTest(p)
	prefs := premiumPrefs()
	prefs.VisaStatus = "citizen"

	jobs := make([]*models.Job, 0, 6)
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		jobs = append(jobs, &models.Job{
			ID: id, Title: id, City: "London",
			Categories:      []string{"software-engineering"},
			WorkEnvironment: models.WorkEnvHybrid,
		})
	}

	res := s.Match(context.Background(), prefs, jobs, premiumConfig)
	assert.Equal(t, MethodAI, res.Method)
	assert.Len(t, res.Matches, 5)
}

func TestNeedsVisaSponsorship(t *testing.T) {
	for _, v := range []string{"", "none", "No", "not_required", "not required", "Citizen", "settled"} {
		assert.False(t, needsVisaSponsorship(v), v)
	}
	for _, v := range []string{"requires_sponsorship", "student visa", "tier 2"} {
		assert.True(t, needsVisaSponsorship(v), v)
	}
}
